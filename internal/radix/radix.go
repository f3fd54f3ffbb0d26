package radix

import (
	"fmt"

	"github.com/hupe1980/slotsort/internal/slots"
)

// MaxByte is the index of the most significant byte of a 64-bit key.
const MaxByte = 7

// BufferID identifies which of the two buffers holds a sort result.
type BufferID uint8

const (
	// Primary is the buffer the caller passed as primary.
	Primary BufferID = iota
	// Auxiliary is the ping-pong buffer.
	Auxiliary
)

// Other returns the opposite buffer.
func (b BufferID) Other() BufferID { return b ^ 1 }

func (b BufferID) String() string {
	if b == Auxiliary {
		return "auxiliary"
	}
	return "primary"
}

// Options selects the key bytes and ordering of a sort.
type Options struct {
	// StartByte and EndByte bound the inclusive byte window of the key that is
	// sorted on. Byte 0 is the least significant, byte 7 the most.
	StartByte int
	EndByte   int
	// Descending orders buckets from high byte value to low. Ties keep their
	// input order.
	Descending bool
	// Signed treats the top bit of EndByte as a two's-complement sign bit.
	Signed bool
}

// FullKey sorts on all eight bytes, ascending and unsigned.
var FullKey = Options{StartByte: 0, EndByte: MaxByte}

// Stats describes the passes a sort ran.
type Stats struct {
	// Passes is the number of scatter passes performed.
	Passes int
	// Skipped is the number of byte positions skipped because every record
	// fell into a single bucket.
	Skipped int
}

// RangeError reports a byte window or record count the buffers cannot satisfy.
type RangeError struct {
	StartByte int
	EndByte   int
	Records   int
	Capacity  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: bytes [%d,%d], %d records, capacity %d",
		e.StartByte, e.EndByte, e.Records, e.Capacity)
}

func (e *RangeError) Unwrap() error { return slots.ErrInvalidRange }

// Sort orders the first recordCount records of primary by the selected key
// bytes using LSD radix passes, one 256-bucket counting sort per byte.
//
// Records move between primary and auxiliary once per performed pass, so the
// result may end up in either buffer; the returned BufferID says which. Each
// pass is a stable scatter, so records with equal keys keep their relative
// input order, in both directions.
//
// All preconditions are checked before any word is touched. The sort does
// not allocate.
func Sort(primary, auxiliary *slots.View, recordCount int, opts Options) (BufferID, Stats, error) {
	if err := validate(primary, auxiliary, recordCount, opts); err != nil {
		return Primary, Stats{}, err
	}

	var (
		stats Stats
		id    = Primary
		src   = primary.Words()
		dst   = auxiliary.Words()
		width = primary.Width()
	)

	for b := opts.StartByte; b <= opts.EndByte; b++ {
		shift := uint(b) * 8

		// Two's-complement keys put negatives in buckets 128..255. Flipping the
		// top bit of the sign byte maps them to 0..127 and non-negatives to
		// 128..255, so plain unsigned bucket order becomes signed order. Only
		// the most significant active byte carries the sign.
		var flip byte
		if opts.Signed && b == opts.EndByte {
			flip = 0x80
		}

		var counts [256]int
		histogram(src, width, recordCount, shift, flip, &counts)

		if uniform(&counts, recordCount) {
			stats.Skipped++
			continue
		}

		if opts.Descending {
			offsetsDescending(&counts)
		} else {
			offsetsAscending(&counts)
		}

		if width == 1 {
			scatterKeys(src, dst, recordCount, shift, flip, &counts)
		} else {
			scatterRecords(src, dst, recordCount, shift, flip, &counts)
		}

		src, dst = dst, src
		id = id.Other()
		stats.Passes++
	}

	return id, stats, nil
}

func validate(primary, auxiliary *slots.View, recordCount int, opts Options) error {
	if primary == nil || auxiliary == nil {
		return fmt.Errorf("%w: nil buffer", slots.ErrInvalidLayout)
	}
	if err := primary.Err(); err != nil {
		return err
	}
	if err := auxiliary.Err(); err != nil {
		return err
	}
	if primary.Flavor() != auxiliary.Flavor() {
		return fmt.Errorf("%w: primary %s and auxiliary %s differ in flavor",
			slots.ErrInvalidLayout, primary, auxiliary)
	}
	// A length mismatch is both a range and a layout fault.
	if !primary.SameShape(auxiliary) {
		return fmt.Errorf("%w: %w: primary holds %d records, auxiliary %d",
			slots.ErrInvalidRange, slots.ErrInvalidLayout, primary.Len(), auxiliary.Len())
	}
	if primary.Overlaps(auxiliary) {
		return fmt.Errorf("%w: primary and auxiliary share arena words", slots.ErrInvalidLayout)
	}
	if opts.StartByte < 0 || opts.EndByte > MaxByte || opts.StartByte > opts.EndByte ||
		recordCount < 0 || recordCount > primary.Len() {
		return &RangeError{
			StartByte: opts.StartByte,
			EndByte:   opts.EndByte,
			Records:   recordCount,
			Capacity:  primary.Len(),
		}
	}
	return nil
}

// Result returns the view identified by id.
func Result(primary, auxiliary *slots.View, id BufferID) *slots.View {
	if id == Auxiliary {
		return auxiliary
	}
	return primary
}

// SortInPlace runs Sort and, when the result ended in auxiliary, copies it
// back so that primary always holds the sorted records.
func SortInPlace(primary, auxiliary *slots.View, recordCount int, opts Options) (Stats, error) {
	id, stats, err := Sort(primary, auxiliary, recordCount, opts)
	if err != nil {
		return stats, err
	}
	if id == Auxiliary {
		n := recordCount * primary.Width()
		copy(primary.Words()[:n], auxiliary.Words()[:n])
	}
	return stats, nil
}
