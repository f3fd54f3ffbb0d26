package verify

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/slotsort/internal/mergesort"
	"github.com/hupe1980/slotsort/internal/slots"
)

var (
	// ErrNotOrdered is returned when adjacent records are out of order.
	ErrNotOrdered = errors.New("verify: records out of order")
	// ErrNotStable is returned when records with equal keys changed relative order.
	ErrNotStable = errors.New("verify: equal keys reordered")
	// ErrNotPermutation is returned when the output does not hold exactly the input records.
	ErrNotPermutation = errors.New("verify: output is not a permutation of input")
	// ErrMismatch is returned when two outputs differ.
	ErrMismatch = errors.New("verify: outputs differ")
)

// Violation locates the first problem found in a check.
type Violation struct {
	Kind  error
	Index int
	Prev  uint64
	Curr  uint64
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%v at record %d (%#x, %#x)", v.Kind, v.Index, v.Prev, v.Curr)
}

func (v *Violation) Unwrap() error { return v.Kind }

// minChunk keeps small inputs on a single goroutine.
const minChunk = 1 << 16

// Ordered checks that the first count records of v are ordered by compare.
// Large inputs are checked in parallel chunks.
func Ordered(ctx context.Context, v *slots.View, count int, compare mergesort.PrefixComparator) error {
	if err := checkCount(v, count); err != nil {
		return err
	}
	return pairs(ctx, count, func(i int) error {
		prev, curr := v.Key(i-1), v.Key(i)
		if compare(prev, curr) > 0 {
			return &Violation{Kind: ErrNotOrdered, Index: i, Prev: prev, Curr: curr}
		}
		return nil
	})
}

// Stable checks that key-prefix records with equal keys under compare appear
// with increasing pointers. This holds for a stable sort when the input
// pointers were the original record indices (see slots.Generate).
func Stable(ctx context.Context, v *slots.View, count int, compare mergesort.PrefixComparator) error {
	if err := checkCount(v, count); err != nil {
		return err
	}
	if v.Flavor() != slots.KeyPrefix {
		return fmt.Errorf("%w: stability needs record pointers", slots.ErrInvalidLayout)
	}
	words := v.Words()
	return pairs(ctx, count, func(i int) error {
		if compare(words[2*i-1], words[2*i+1]) != 0 {
			return nil
		}
		if prev, curr := words[2*i-2], words[2*i]; prev >= curr {
			return &Violation{Kind: ErrNotStable, Index: i, Prev: prev, Curr: curr}
		}
		return nil
	})
}

// Permutation checks that after holds exactly the key-prefix records of
// before: the same set of unique pointers, and the same prefix multiset.
func Permutation(before, after *slots.View, count int) error {
	for _, v := range []*slots.View{before, after} {
		if err := checkCount(v, count); err != nil {
			return err
		}
		if v.Flavor() != slots.KeyPrefix {
			return fmt.Errorf("%w: permutation check needs record pointers", slots.ErrInvalidLayout)
		}
	}

	pointers := roaring64.New()
	var sum, xor uint64
	in := before.Words()
	for i := 0; i < 2*count; i += 2 {
		if !pointers.CheckedAdd(in[i]) {
			return &Violation{Kind: ErrNotPermutation, Index: i / 2, Curr: in[i]}
		}
		sum += in[i+1]
		xor ^= in[i+1]
	}

	out := after.Words()
	for i := 0; i < 2*count; i += 2 {
		if !pointers.CheckedRemove(out[i]) {
			return &Violation{Kind: ErrNotPermutation, Index: i / 2, Curr: out[i]}
		}
		sum -= out[i+1]
		xor ^= out[i+1]
	}

	if !pointers.IsEmpty() || sum != 0 || xor != 0 {
		return fmt.Errorf("%w: prefixes changed", ErrNotPermutation)
	}
	return nil
}

// Equal checks that the first count records of a and b are identical.
func Equal(a, b *slots.View, count int) error {
	if err := checkCount(a, count); err != nil {
		return err
	}
	if err := checkCount(b, count); err != nil {
		return err
	}
	if a.Flavor() != b.Flavor() {
		return fmt.Errorf("%w: %s vs %s", slots.ErrInvalidLayout, a.Flavor(), b.Flavor())
	}
	w := a.Width()
	aw, bw := a.Words(), b.Words()
	for i := range count * w {
		if aw[i] != bw[i] {
			return &Violation{Kind: ErrMismatch, Index: i / w, Prev: aw[i], Curr: bw[i]}
		}
	}
	return nil
}

func checkCount(v *slots.View, count int) error {
	if v == nil {
		return fmt.Errorf("%w: nil array", slots.ErrInvalidLayout)
	}
	if err := v.Err(); err != nil {
		return err
	}
	if count < 0 || count > v.Len() {
		return fmt.Errorf("%w: %d records, array holds %d", slots.ErrInvalidRange, count, v.Len())
	}
	return nil
}

// pairs calls check for every i in [1, count), split across goroutines for
// large inputs. The first error wins.
func pairs(ctx context.Context, count int, check func(i int) error) error {
	chunk := max(minChunk, count/runtime.GOMAXPROCS(0)+1)
	if count <= chunk {
		return scan(ctx, 1, count, check)
	}

	g, ctx := errgroup.WithContext(ctx)
	for lo := 1; lo < count; lo += chunk {
		hi := min(lo+chunk, count)
		g.Go(func() error {
			return scan(ctx, lo, hi, check)
		})
	}
	return g.Wait()
}

func scan(ctx context.Context, lo, hi int, check func(i int) error) error {
	for i := lo; i < hi; i++ {
		// Cheap cancellation point every 64Ki records.
		if i&0xFFFF == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := check(i); err != nil {
			return err
		}
	}
	return nil
}
