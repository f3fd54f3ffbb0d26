package arena

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/slotsort/internal/conv"
	"github.com/hupe1980/slotsort/internal/mmap"
)

// MemoryAcquirer reserves and releases memory against a shared budget.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrOutOfMemory is returned when the requested capacity cannot be reserved.
	ErrOutOfMemory = errors.New("arena: out of memory")
	// ErrOutOfBounds is returned for byte offsets outside the arena or not word aligned.
	ErrOutOfBounds = errors.New("arena: offset out of bounds")
	// ErrClosed is returned when a closed arena is accessed.
	ErrClosed = errors.New("arena: closed")
)

// WordSize is the size of one arena word in bytes.
const WordSize = conv.WordSize

// Arena is a flat, fixed-capacity block of 64-bit words.
//
// The arena never grows. It is a dumb allocation: views built on top of it
// enforce their own bounds, the arena only checks its own capacity.
type Arena struct {
	words    []uint64
	mapping  *mmap.Mapping // nil when heap-backed or empty
	acquirer MemoryAcquirer
	reserved int64
	heap     bool
	closed   atomic.Bool
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithMemoryAcquirer charges the arena's bytes against acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithHeap backs the arena with Go heap memory instead of an anonymous mapping.
func WithHeap() Option {
	return func(a *Arena) {
		a.heap = true
	}
}

// New allocates an arena of wordCount zeroed words.
func New(wordCount int, opts ...Option) (*Arena, error) {
	a := &Arena{}
	for _, opt := range opts {
		opt(a)
	}

	size, err := conv.WordsToBytes(wordCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if size == 0 {
		return a, nil
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(size)); err != nil {
			return nil, fmt.Errorf("%w: %d bytes: %w", ErrOutOfMemory, size, err)
		}
		a.reserved = int64(size)
	}

	if a.heap {
		words, err := makeWords(wordCount)
		if err != nil {
			a.release()
			return nil, err
		}
		a.words = words
		return a, nil
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("%w: map %d bytes: %w", ErrOutOfMemory, size, err)
	}
	a.mapping = mapping
	a.words = unsafe.Slice((*uint64)(unsafe.Pointer(&mapping.Bytes()[0])), wordCount) //nolint:gosec // mappings are page aligned

	return a, nil
}

func makeWords(n int) (words []uint64, err error) {
	// make panics (recoverably) when the length cannot be satisfied.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %d words: %v", ErrOutOfMemory, n, r)
		}
	}()
	return make([]uint64, n), nil
}

// Cap returns the capacity in words.
func (a *Arena) Cap() int {
	return len(a.words)
}

// ByteSize returns the capacity in bytes.
func (a *Arena) ByteSize() int {
	return len(a.words) * WordSize
}

// OffHeap reports whether the arena is backed by an anonymous mapping.
func (a *Arena) OffHeap() bool {
	return a.mapping != nil
}

// Closed reports whether Close has been called.
func (a *Arena) Closed() bool {
	return a.closed.Load()
}

// Words returns the arena storage. No copy is made; writes go straight to
// the arena. The slice must not be used after Close.
func (a *Arena) Words() []uint64 {
	if a.closed.Load() {
		return nil
	}
	return a.words
}

// Load reads the word at byteOffset.
func (a *Arena) Load(byteOffset int) (uint64, error) {
	idx, err := a.wordIndex(byteOffset)
	if err != nil {
		return 0, err
	}
	return a.words[idx], nil
}

// Store writes v to the word at byteOffset.
func (a *Arena) Store(byteOffset int, v uint64) error {
	idx, err := a.wordIndex(byteOffset)
	if err != nil {
		return err
	}
	a.words[idx] = v
	return nil
}

func (a *Arena) wordIndex(byteOffset int) (int, error) {
	if a.closed.Load() {
		return 0, ErrClosed
	}
	if byteOffset < 0 || byteOffset%WordSize != 0 || byteOffset/WordSize >= len(a.words) {
		return 0, fmt.Errorf("%w: offset %d, size %d", ErrOutOfBounds, byteOffset, a.ByteSize())
	}
	return byteOffset / WordSize, nil
}

// Advise passes an access hint for the whole arena to the kernel.
// Heap-backed arenas ignore hints.
func (a *Arena) Advise(pattern mmap.AccessPattern) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if a.mapping == nil {
		return nil
	}
	return a.mapping.Advise(pattern)
}

// Close releases the arena memory. It is idempotent. Every view over the
// arena becomes invalid.
func (a *Arena) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.words = nil
	var err error
	if a.mapping != nil {
		err = a.mapping.Close()
		a.mapping = nil
	}
	a.release()
	return err
}

func (a *Arena) release() {
	if a.acquirer != nil && a.reserved > 0 {
		a.acquirer.ReleaseMemory(a.reserved)
		a.reserved = 0
	}
}

func (a *Arena) String() string {
	backing := "heap"
	if a.mapping != nil {
		backing = "mmap"
	}
	return fmt.Sprintf("Arena{words: %d, bytes: %d, backing: %s}", a.Cap(), a.ByteSize(), backing)
}
