package slotsort

import (
	"github.com/hupe1980/slotsort/internal/arena"
	"github.com/hupe1980/slotsort/internal/radix"
	"github.com/hupe1980/slotsort/internal/slots"
)

// Error kinds. Callers check them with errors.Is regardless of which layer
// failed. A length mismatch between the radix buffers wraps both
// ErrInvalidRange and ErrInvalidLayout.
var (
	// ErrOutOfMemory is returned when an arena cannot be reserved: the size
	// overflows, the engine memory limit is reached, or the mapping fails.
	ErrOutOfMemory = arena.ErrOutOfMemory
	// ErrInvalidLayout is returned when slot arrays do not fit their arena,
	// do not match each other, alias each other, or have the wrong flavor.
	ErrInvalidLayout = slots.ErrInvalidLayout
	// ErrInvalidRange is returned for a record count above the array length,
	// an auxiliary buffer of another length, or a key byte range outside 0..7
	// or reversed.
	ErrInvalidRange = slots.ErrInvalidRange
	// ErrIndexOutOfBounds is returned for record access past the array length.
	ErrIndexOutOfBounds = slots.ErrIndexOutOfBounds
	// ErrClosed is wrapped (together with ErrInvalidLayout) when a slot array
	// is used after its arena was closed.
	ErrClosed = arena.ErrClosed
)

// RangeError reports a rejected record count or byte range in detail.
// It unwraps to ErrInvalidRange.
type RangeError = radix.RangeError
