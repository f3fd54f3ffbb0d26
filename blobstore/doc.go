// Package blobstore provides named blob storage for saved fixtures.
//
// Store is the interface for reading and writing blobs. Implementations must
// be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, reads are memory mapped
//   - MemoryStore: in-process map, for tests
//   - minio.Store: MinIO and other S3-compatible object storage
//
// Blobs are immutable once written. Writers stream into a WritableBlob that
// becomes visible atomically on Close, or is discarded by Abort.
package blobstore
