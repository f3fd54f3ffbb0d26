package mergesort

import (
	"cmp"
	"fmt"
	"slices"
	"unsafe"

	"github.com/hupe1980/slotsort/internal/slots"
)

// PrefixComparator compares two prefixes and returns a negative number, zero
// or a positive number when a sorts before, equal to or after b.
type PrefixComparator func(a, b uint64) int

// Unsigned orders prefixes as unsigned integers, ascending.
func Unsigned(a, b uint64) int { return cmp.Compare(a, b) }

// UnsignedDescending orders prefixes as unsigned integers, descending.
func UnsignedDescending(a, b uint64) int { return cmp.Compare(b, a) }

// Signed orders prefixes as two's-complement integers, ascending.
func Signed(a, b uint64) int { return cmp.Compare(int64(a), int64(b)) }

// SignedDescending orders prefixes as two's-complement integers, descending.
func SignedDescending(a, b uint64) int { return cmp.Compare(int64(b), int64(a)) }

// ByteRange returns the comparator that agrees with a radix sort over the
// inclusive byte window [startByte, endByte]: only those bytes are compared,
// and with signed the top bit of endByte is the sign.
func ByteRange(startByte, endByte int, descending, signed bool) PrefixComparator {
	bits := uint(endByte-startByte+1) * 8
	shift := uint(startByte) * 8
	field := func(k uint64) uint64 {
		v := k >> shift
		if bits < 64 {
			v &= 1<<bits - 1
		}
		return v
	}

	var base PrefixComparator
	if signed {
		ext := 64 - bits
		base = func(a, b uint64) int {
			// Shift the field's sign bit into bit 63, then arithmetic-shift back.
			sa := int64(field(a)<<ext) >> ext
			sb := int64(field(b)<<ext) >> ext
			return cmp.Compare(sa, sb)
		}
	} else {
		base = func(a, b uint64) int { return cmp.Compare(field(a), field(b)) }
	}

	if descending {
		return func(a, b uint64) int { return base(b, a) }
	}
	return base
}

// Record is one key-prefix record as laid out in the arena.
type Record struct {
	Pointer uint64
	Prefix  uint64
}

// Records reinterprets the first count records of a key-prefix view as a
// Record slice. No data is copied; the slice aliases the arena.
func Records(v *slots.View, count int) ([]Record, error) {
	if err := check(v, count, slots.KeyPrefix); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	words := v.Words()
	return unsafe.Slice((*Record)(unsafe.Pointer(&words[0])), count), nil //nolint:gosec // Record is two packed uint64 words
}

// Sort stably orders the first count key-prefix records of v by prefix using
// compare. Pointers travel with their prefixes; equal prefixes keep their
// input order. A nil compare means Unsigned.
func Sort(v *slots.View, count int, compare PrefixComparator) error {
	recs, err := Records(v, count)
	if err != nil {
		return err
	}
	if compare == nil {
		compare = Unsigned
	}
	slices.SortStableFunc(recs, func(a, b Record) int {
		return compare(a.Prefix, b.Prefix)
	})
	return nil
}

// SortKeys stably orders the first count keys of a single-key view.
func SortKeys(v *slots.View, count int, compare PrefixComparator) error {
	if err := check(v, count, slots.SingleKey); err != nil {
		return err
	}
	if compare == nil {
		compare = Unsigned
	}
	slices.SortStableFunc(v.Words()[:count], compare)
	return nil
}

func check(v *slots.View, count int, want slots.Flavor) error {
	if v == nil {
		return fmt.Errorf("%w: nil array", slots.ErrInvalidLayout)
	}
	if err := v.Err(); err != nil {
		return err
	}
	if v.Flavor() != want {
		return fmt.Errorf("%w: %s sort on %s array", slots.ErrInvalidLayout, want, v.Flavor())
	}
	if count < 0 || count > v.Len() {
		return fmt.Errorf("%w: %d records, array holds %d", slots.ErrInvalidRange, count, v.Len())
	}
	return nil
}
