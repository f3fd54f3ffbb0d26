// Package fixture saves generated slot arrays to a blobstore.Store and loads
// them back, so a benchmark or verification case can be replayed on exactly
// the same input.
//
// A fixture is a 32-byte Header followed by the record words in
// little-endian order, optionally compressed with LZ4 or zstd. The CRC32 in
// the header covers the uncompressed words. Loading decodes into a
// caller-supplied arena; the fixture never owns memory.
//
// Example:
//
//	store := blobstore.NewLocalStore("testdata/fixtures")
//	name, err := fixture.Save(ctx, store, input, n, fixture.WithCompression(fixture.CompressionZstd))
//	...
//	view, err := fixture.Load(ctx, store, name, a)
package fixture
