package slotsort

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/slotsort/internal/arena"
	"github.com/hupe1980/slotsort/internal/mergesort"
	"github.com/hupe1980/slotsort/internal/radix"
	"github.com/hupe1980/slotsort/internal/resource"
	"github.com/hupe1980/slotsort/internal/slots"
)

type (
	// Arena is an owned, fixed-size block of 64-bit words.
	Arena = arena.Arena
	// SlotArray is a non-owning view of fixed-width records in an arena.
	SlotArray = slots.View
	// Flavor is the record layout of a SlotArray.
	Flavor = slots.Flavor
	// BufferID names the buffer that holds a radix sort result.
	BufferID = radix.BufferID
	// RadixOptions selects key bytes and ordering of a radix sort.
	RadixOptions = radix.Options
	// RadixStats reports executed and skipped byte passes.
	RadixStats = radix.Stats
	// PrefixComparator orders two key prefixes like cmp.Compare.
	PrefixComparator = mergesort.PrefixComparator
)

// Array flavors and buffer ids.
const (
	SingleKey = slots.SingleKey
	KeyPrefix = slots.KeyPrefix

	Primary   = radix.Primary
	Auxiliary = radix.Auxiliary
)

// Ready-made prefix comparators.
var (
	Unsigned           PrefixComparator = mergesort.Unsigned
	UnsignedDescending PrefixComparator = mergesort.UnsignedDescending
	Signed             PrefixComparator = mergesort.Signed
	SignedDescending   PrefixComparator = mergesort.SignedDescending
)

// ByteRange returns a comparator that orders prefixes exactly as RadixSort
// does for the same byte range and flags.
func ByteRange(startByte, endByte int, descending, signed bool) PrefixComparator {
	return mergesort.ByteRange(startByte, endByte, descending, signed)
}

// Engine allocates arenas and runs sorts with shared logging, metrics and a
// memory budget. An Engine is safe for concurrent use; the buffers passed to
// one sort call must not be shared with a concurrent call.
type Engine struct {
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller
	heap    bool
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		logger:  opts.logger,
		metrics: opts.metricsCollector,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:     opts.memoryLimit,
			MaxBackgroundWorkers: opts.maxWorkers,
			IOLimitBytesPerSec:   opts.ioLimit,
		}),
		heap: opts.heap,
	}
}

// Logger returns the engine logger.
func (e *Engine) Logger() *Logger { return e.logger }

// Limiter is the budget an Engine shares between its arenas, concurrent
// workers and fixture writes.
type Limiter interface {
	// AcquireBackground blocks until a worker slot is free or ctx is done.
	AcquireBackground(ctx context.Context) error
	ReleaseBackground()
	// AcquireIO waits until n bytes of IO are allowed.
	AcquireIO(ctx context.Context, n int) error
	MemoryUsage() int64
	// MemoryLimit is 0 when unlimited.
	MemoryLimit() int64
}

// Limiter returns the engine's resource budget.
func (e *Engine) Limiter() Limiter { return e.rc }

// MemoryUsage returns the bytes held by live arenas of this engine.
func (e *Engine) MemoryUsage() int64 { return e.rc.MemoryUsage() }

// AllocateSlotArray reserves an arena of capacityWords zeroed words. The
// caller owns the arena and must Close it.
func (e *Engine) AllocateSlotArray(capacityWords int) (*Arena, error) {
	opts := []arena.Option{arena.WithMemoryAcquirer(e.rc)}
	if e.heap {
		opts = append(opts, arena.WithHeap())
	}

	a, err := arena.New(capacityWords, opts...)
	e.metrics.RecordAllocate(capacityWords, err)
	e.logger.LogAllocate(context.Background(), capacityWords, err == nil && a.OffHeap(), err)
	return a, err
}

// RadixSort sorts the first recordCount records of primary on key bytes
// [startByte, endByte], using auxiliary as scratch space, and returns the
// buffer that holds the result.
func (e *Engine) RadixSort(primary, auxiliary *SlotArray, recordCount, startByte, endByte int, descending, signed bool) (BufferID, error) {
	id, _, err := e.Radix(primary, auxiliary, recordCount, RadixOptions{
		StartByte:  startByte,
		EndByte:    endByte,
		Descending: descending,
		Signed:     signed,
	})
	return id, err
}

// Radix is RadixSort taking RadixOptions and also reporting pass statistics.
func (e *Engine) Radix(primary, auxiliary *SlotArray, recordCount int, opts RadixOptions) (BufferID, RadixStats, error) {
	start := time.Now()
	id, stats, err := radix.Sort(primary, auxiliary, recordCount, opts)
	d := time.Since(start)

	e.metrics.RecordRadixSort(recordCount, stats.Passes, stats.Skipped, d, err)
	e.logger.LogRadixSort(context.Background(), recordCount, opts, id, stats, d, err)
	return id, stats, err
}

// ComparatorSort stably sorts the first recordCount key-prefix records of
// primary by prefix. A nil cmp orders prefixes as unsigned integers.
func (e *Engine) ComparatorSort(primary *SlotArray, recordCount int, cmp PrefixComparator) error {
	start := time.Now()
	err := mergesort.Sort(primary, recordCount, cmp)
	d := time.Since(start)

	e.metrics.RecordComparatorSort(recordCount, d, err)
	e.logger.LogComparatorSort(context.Background(), recordCount, d, err)
	return err
}

// NewSingleKeyArray creates a single-key array of length records at the start of a.
func NewSingleKeyArray(a *Arena, length int) (*SlotArray, error) {
	return slots.NewSingleKey(a, length)
}

// NewKeyPrefixArray creates a key-prefix array of length records at the start of a.
func NewKeyPrefixArray(a *Arena, length int) (*SlotArray, error) {
	return slots.NewKeyPrefix(a, length)
}

// NewSlotArrayAt creates an array of length records of width words starting
// at wordOffset, so that several arrays can share one arena.
func NewSlotArrayAt(a *Arena, wordOffset, length, width int) (*SlotArray, error) {
	return slots.NewAt(a, wordOffset, length, width)
}

// Result returns the array identified by id.
func Result(primary, auxiliary *SlotArray, id BufferID) *SlotArray {
	return radix.Result(primary, auxiliary, id)
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the engine used by the package-level functions: no
// logging, no metrics, no memory limit.
func Default() *Engine { return defaultEngine() }

// AllocateSlotArray allocates an arena with the default engine.
func AllocateSlotArray(capacityWords int) (*Arena, error) {
	return Default().AllocateSlotArray(capacityWords)
}

// RadixSort sorts with the default engine. See Engine.RadixSort.
func RadixSort(primary, auxiliary *SlotArray, recordCount, startByte, endByte int, descending, signed bool) (BufferID, error) {
	return Default().RadixSort(primary, auxiliary, recordCount, startByte, endByte, descending, signed)
}

// ComparatorSort sorts with the default engine. See Engine.ComparatorSort.
func ComparatorSort(primary *SlotArray, recordCount int, cmp PrefixComparator) error {
	return Default().ComparatorSort(primary, recordCount, cmp)
}
