package fixture

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/slotsort/blobstore"
	"github.com/hupe1980/slotsort/internal/arena"
	"github.com/hupe1980/slotsort/internal/resource"
	"github.com/hupe1980/slotsort/internal/slots"
)

// Option configures Save.
type Option func(*options)

type options struct {
	compression Compression
	name        string
	limiter     IOLimiter
}

// WithCompression sets the payload compression. Default: none.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithName sets the blob name instead of a generated one.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// IOLimiter throttles fixture writes. slotsort.Engine.Limiter satisfies it.
type IOLimiter interface {
	AcquireIO(ctx context.Context, n int) error
}

// WithIOLimiter rate limits the write through limiter.
func WithIOLimiter(limiter IOLimiter) Option {
	return func(o *options) { o.limiter = limiter }
}

// NewName returns a fresh fixture name: a random UUID plus Ext.
func NewName() string {
	return uuid.NewString() + Ext
}

// Save writes the first count records of v to store and returns the blob name.
func Save(ctx context.Context, store blobstore.Store, v *slots.View, count int, opts ...Option) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: nil array", slots.ErrInvalidLayout)
	}
	if err := v.Err(); err != nil {
		return "", err
	}
	if count < 0 || count > v.Len() {
		return "", fmt.Errorf("%w: %d records, array holds %d", slots.ErrInvalidRange, count, v.Len())
	}

	o := options{compression: CompressionNone}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = NewName()
	}

	words := v.Words()[:count*v.Width()]
	raw := make([]byte, 0, len(words)*8)
	for _, w := range words {
		raw = binary.LittleEndian.AppendUint64(raw, w)
	}

	payload, used, err := compress(raw, o.compression)
	if err != nil {
		return "", err
	}

	h := Header{
		Version:     Version,
		Width:       uint8(v.Width()),
		Compression: used,
		Records:     uint64(count),
		PayloadLen:  uint64(len(payload)),
		Checksum:    crc32.ChecksumIEEE(raw),
	}

	blob, err := store.Create(ctx, o.name)
	if err != nil {
		return "", err
	}
	w := resource.NewRateLimitedWriter(ctx, blob, o.limiter)
	for _, part := range [][]byte{h.encode(), payload} {
		if _, err := w.Write(part); err != nil {
			_ = blob.Abort()
			return "", fmt.Errorf("fixture: write %s: %w", o.name, err)
		}
	}
	if err := blob.Close(); err != nil {
		return "", fmt.Errorf("fixture: publish %s: %w", o.name, err)
	}
	return o.name, nil
}

// Info reads only the header of a fixture.
func Info(ctx context.Context, store blobstore.Store, name string) (Header, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return Header{}, err
	}
	defer blob.Close()

	if blob.Size() < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidFixture, blob.Size())
	}
	buf := make([]byte, HeaderSize)
	if _, err := blob.ReadAt(buf, 0); err != nil {
		return Header{}, err
	}
	return decodeHeader(buf)
}

// Load decodes a fixture into the start of a and returns a view over its
// records. The arena must hold at least Header.Words words; otherwise Load
// fails with slots.ErrInvalidLayout before decoding the payload.
func Load(ctx context.Context, store blobstore.Store, name string, a *arena.Arena) (*slots.View, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.PayloadLen != uint64(len(data)-HeaderSize) {
		return nil, fmt.Errorf("%w: payload %d bytes, header says %d", ErrInvalidFixture, len(data)-HeaderSize, h.PayloadLen)
	}
	if a == nil || h.Words() > uint64(a.Cap()) {
		return nil, fmt.Errorf("%w: fixture needs %d words, arena holds %d", slots.ErrInvalidLayout, h.Words(), capOf(a))
	}

	raw, err := decompress(data[HeaderSize:], h)
	if err != nil {
		return nil, err
	}
	if sum := crc32.ChecksumIEEE(raw); sum != h.Checksum {
		return nil, fmt.Errorf("%w: %#x, want %#x", ErrChecksum, sum, h.Checksum)
	}

	v, err := slots.New(a, int(h.Records), int(h.Width))
	if err != nil {
		return nil, err
	}
	words := v.Words()
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return v, nil
}

// List returns the names of all fixtures in store.
func List(ctx context.Context, store blobstore.Store) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasSuffix(n, Ext) {
			out = append(out, n)
		}
	}
	return out, nil
}

func capOf(a *arena.Arena) int {
	if a == nil {
		return 0
	}
	return a.Cap()
}
