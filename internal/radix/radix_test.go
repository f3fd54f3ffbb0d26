package radix

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotsort/internal/arena"
	"github.com/hupe1980/slotsort/internal/mergesort"
	"github.com/hupe1980/slotsort/internal/slots"
	"github.com/hupe1980/slotsort/testutil"
)

// buffers returns a filled primary view and an empty auxiliary of the same shape.
func buffers(t testing.TB, flavor slots.Flavor, keys []uint64) (*slots.View, *slots.View) {
	t.Helper()
	n := len(keys)
	views := make([]*slots.View, 2)
	for i := range views {
		a, err := arena.New(n * flavor.Width())
		require.NoError(t, err)
		t.Cleanup(func() { _ = a.Close() })
		views[i], err = slots.New(a, n, flavor.Width())
		require.NoError(t, err)
	}
	require.NoError(t, slots.Generate(views[0], n, testutil.Source(keys)))
	return views[0], views[1]
}

// oracle sorts a copy of primary with the comparator sort.
func oracle(t testing.TB, primary *slots.View, count int, cmp mergesort.PrefixComparator) *slots.View {
	t.Helper()
	a, err := arena.New(primary.Len()*primary.Width(), arena.WithHeap())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	v, err := slots.New(a, primary.Len(), primary.Width())
	require.NoError(t, err)
	require.NoError(t, primary.CopyTo(v, primary.Len()))
	if primary.Flavor() == slots.KeyPrefix {
		require.NoError(t, mergesort.Sort(v, count, cmp))
	} else {
		require.NoError(t, mergesort.SortKeys(v, count, cmp))
	}
	return v
}

func records(t testing.TB, v *slots.View) [][2]uint64 {
	t.Helper()
	out := make([][2]uint64, v.Len())
	for i := range out {
		p, k, err := v.RecordAt(i)
		require.NoError(t, err)
		out[i] = [2]uint64{p, k}
	}
	return out
}

func TestSort_Example(t *testing.T) {
	primary, aux := buffers(t, slots.KeyPrefix, []uint64{5, 3, 5, 1})
	pointers := []uint64{100, 200, 300, 400}
	for i, p := range pointers {
		require.NoError(t, primary.SetRecordAt(i, p, primary.Key(i)))
	}

	id, _, err := Sort(primary, aux, 4, FullKey)
	require.NoError(t, err)

	got := records(t, Result(primary, aux, id))
	assert.Equal(t, [][2]uint64{{400, 1}, {200, 3}, {100, 5}, {300, 5}}, got)
}

func TestSort_MatchesOracle(t *testing.T) {
	rng := testutil.NewRNG(42)

	tests := []struct {
		name string
		keys []uint64
	}{
		{"random", rng.Keys(5000)},
		{"duplicates", rng.DuplicateKeys(5000, 17)},
		{"zipf", rng.ZipfKeys(5000, 1.3, 1<<40)},
		{"single", []uint64{9}},
	}
	for _, tt := range tests {
		for _, flavor := range []slots.Flavor{slots.SingleKey, slots.KeyPrefix} {
			t.Run(tt.name+"/"+flavor.String(), func(t *testing.T) {
				primary, aux := buffers(t, flavor, tt.keys)
				want := oracle(t, primary, len(tt.keys), mergesort.Unsigned)

				id, stats, err := Sort(primary, aux, len(tt.keys), FullKey)
				require.NoError(t, err)
				assert.Equal(t, 8, stats.Passes+stats.Skipped)
				assert.Equal(t, want.Words(), Result(primary, aux, id).Words())
			})
		}
	}
}

func TestSort_Stability(t *testing.T) {
	keys := testutil.NewRNG(7).DuplicateKeys(4000, 8)
	primary, aux := buffers(t, slots.KeyPrefix, keys)

	for _, desc := range []bool{false, true} {
		id, _, err := Sort(primary, aux, len(keys), Options{StartByte: 0, EndByte: 7, Descending: desc})
		require.NoError(t, err)

		out := records(t, Result(primary, aux, id))
		for i := 1; i < len(out); i++ {
			if out[i-1][1] == out[i][1] {
				// Pointers are original indices.
				require.Less(t, out[i-1][0], out[i][0], "descending=%v at %d", desc, i)
			}
		}

		// Re-seed the primary for the next direction.
		require.NoError(t, slots.Generate(primary, len(keys), testutil.Source(keys)))
	}
}

func TestSort_Descending(t *testing.T) {
	keys := testutil.NewRNG(11).DuplicateKeys(3000, 50)

	ascP, ascA := buffers(t, slots.KeyPrefix, keys)
	ascID, _, err := Sort(ascP, ascA, len(keys), FullKey)
	require.NoError(t, err)
	asc := records(t, Result(ascP, ascA, ascID))

	descP, descA := buffers(t, slots.KeyPrefix, keys)
	want := oracle(t, descP, len(keys), mergesort.UnsignedDescending)
	descID, _, err := Sort(descP, descA, len(keys), Options{EndByte: 7, Descending: true})
	require.NoError(t, err)
	desc := Result(descP, descA, descID)
	assert.Equal(t, want.Words(), desc.Words())

	// Keys are the exact reverse of ascending, but ties are not reversed.
	got := records(t, desc)
	for i := range got {
		assert.Equal(t, asc[len(asc)-1-i][1], got[i][1])
	}
	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	assert.NotEqual(t, reversed, got, "stable descending must differ from a reversed ascending array when ties exist")
}

func TestSort_Signed(t *testing.T) {
	keys := testutil.NewRNG(3).SignedKeys(4000, 1<<40)
	keys = append(keys, uint64(1<<63), 1<<63-1, 0, ^uint64(0))
	primary, aux := buffers(t, slots.KeyPrefix, keys)
	want := oracle(t, primary, len(keys), mergesort.Signed)

	id, _, err := Sort(primary, aux, len(keys), Options{EndByte: 7, Signed: true})
	require.NoError(t, err)
	out := Result(primary, aux, id)
	assert.Equal(t, want.Words(), out.Words())

	seenNonNegative := false
	for i := range out.Len() {
		v := int64(out.Key(i))
		if v >= 0 {
			seenNonNegative = true
		} else {
			require.False(t, seenNonNegative, "negative key %d after a non-negative one", v)
		}
		if i > 0 {
			require.LessOrEqual(t, int64(out.Key(i-1)), v)
		}
	}

	t.Run("descending", func(t *testing.T) {
		primary, aux := buffers(t, slots.KeyPrefix, keys)
		want := oracle(t, primary, len(keys), mergesort.SignedDescending)
		id, _, err := Sort(primary, aux, len(keys), Options{EndByte: 7, Signed: true, Descending: true})
		require.NoError(t, err)
		assert.Equal(t, want.Words(), Result(primary, aux, id).Words())
	})
}

func TestSort_NarrowRange(t *testing.T) {
	rng := testutil.NewRNG(5)

	t.Run("least significant byte", func(t *testing.T) {
		keys := rng.MaskedKeys(2000, 0xff)
		// Higher bytes must not influence a [0,0] sort.
		for i := range keys {
			keys[i] |= uint64(rng.Intn(1<<16)) << 8
		}
		primary, aux := buffers(t, slots.KeyPrefix, keys)
		want := oracle(t, primary, len(keys), mergesort.ByteRange(0, 0, false, false))

		id, stats, err := Sort(primary, aux, len(keys), Options{StartByte: 0, EndByte: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Passes)

		out := Result(primary, aux, id)
		assert.Equal(t, want.Words(), out.Words())
		for i := 1; i < out.Len(); i++ {
			require.LessOrEqual(t, out.Key(i-1)&0xff, out.Key(i)&0xff)
		}
	})

	t.Run("middle bytes signed", func(t *testing.T) {
		keys := rng.Keys(2000)
		primary, aux := buffers(t, slots.SingleKey, keys)
		cmp := mergesort.ByteRange(2, 4, false, true)
		want := oracle(t, primary, len(keys), cmp)

		id, _, err := Sort(primary, aux, len(keys), Options{StartByte: 2, EndByte: 4, Signed: true})
		require.NoError(t, err)
		assert.Equal(t, want.Words(), Result(primary, aux, id).Words())
	})
}

func TestSort_SkipsUniformPasses(t *testing.T) {
	// Only byte 0 varies; bytes 1..7 are identical across records.
	keys := []uint64{0xAA00000000000003, 0xAA00000000000001, 0xAA00000000000002}
	primary, aux := buffers(t, slots.KeyPrefix, keys)

	id, stats, err := Sort(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	assert.Equal(t, Stats{Passes: 1, Skipped: 7}, stats)
	assert.Equal(t, Auxiliary, id)

	out := Result(primary, aux, id)
	assert.Equal(t, []uint64{1, 0xAA00000000000001, 2, 0xAA00000000000002, 0, 0xAA00000000000003}, out.Words())
}

func TestSort_Idempotent(t *testing.T) {
	keys := testutil.NewRNG(9).Keys(1000)
	primary, aux := buffers(t, slots.KeyPrefix, keys)

	_, err := SortInPlace(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	sorted := slices.Clone(primary.Words())

	id1, stats1, err := Sort(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	out := Result(primary, aux, id1)
	assert.Equal(t, sorted, out.Words())

	// Same input, same parameters: same buffer identity and passes.
	_, err = SortInPlace(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	id2, stats2, err := Sort(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, stats1, stats2)
}

func TestSort_Boundaries(t *testing.T) {
	t.Run("zero records", func(t *testing.T) {
		primary, aux := buffers(t, slots.KeyPrefix, []uint64{4, 2})
		id, stats, err := Sort(primary, aux, 0, FullKey)
		require.NoError(t, err)
		assert.Equal(t, Primary, id)
		assert.Equal(t, Stats{Skipped: 8}, stats)
		assert.Equal(t, []uint64{0, 4, 1, 2}, primary.Words(), "untouched")
	})

	t.Run("empty arrays", func(t *testing.T) {
		primary, aux := buffers(t, slots.SingleKey, nil)
		id, _, err := Sort(primary, aux, 0, FullKey)
		require.NoError(t, err)
		assert.Equal(t, Primary, id)
	})

	t.Run("prefix of capacity", func(t *testing.T) {
		primary, aux := buffers(t, slots.KeyPrefix, []uint64{9, 8, 7, 1, 0})
		id, _, err := Sort(primary, aux, 3, FullKey)
		require.NoError(t, err)
		out := records(t, Result(primary, aux, id))
		assert.Equal(t, [][2]uint64{{2, 7}, {1, 8}, {0, 9}}, out[:3])
		// Records past recordCount in primary are not read or moved.
		assert.Equal(t, [2]uint64{3, 1}, records(t, primary)[3])
	})

	t.Run("full capacity", func(t *testing.T) {
		keys := testutil.NewRNG(1).Keys(257)
		primary, aux := buffers(t, slots.SingleKey, keys)
		id, _, err := Sort(primary, aux, len(keys), FullKey)
		require.NoError(t, err)
		out := Result(primary, aux, id).Words()
		assert.True(t, slices.IsSorted(out))
	})
}

func TestSort_Preconditions(t *testing.T) {
	primary, aux := buffers(t, slots.KeyPrefix, []uint64{3, 1, 2})
	before := slices.Clone(primary.Words())

	rangeCases := []struct {
		name  string
		count int
		opts  Options
	}{
		{"start after end", 3, Options{StartByte: 4, EndByte: 3}},
		{"negative start", 3, Options{StartByte: -1, EndByte: 3}},
		{"end past 7", 3, Options{StartByte: 0, EndByte: 8}},
		{"count past capacity", 4, FullKey},
		{"negative count", -1, FullKey},
	}
	for _, tt := range rangeCases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Sort(primary, aux, tt.count, tt.opts)
			assert.ErrorIs(t, err, slots.ErrInvalidRange)
			var re *RangeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 3, re.Capacity)
			assert.Equal(t, before, primary.Words(), "no data touched")
		})
	}

	t.Run("shape mismatch", func(t *testing.T) {
		_, small := buffers(t, slots.KeyPrefix, []uint64{1, 2})
		_, _, err := Sort(primary, small, 2, FullKey)
		assert.ErrorIs(t, err, slots.ErrInvalidRange)
		assert.ErrorIs(t, err, slots.ErrInvalidLayout)

		_, keys := buffers(t, slots.SingleKey, []uint64{1, 2, 3})
		_, _, err = Sort(primary, keys, 3, FullKey)
		assert.ErrorIs(t, err, slots.ErrInvalidLayout)
		assert.NotErrorIs(t, err, slots.ErrInvalidRange)
		assert.Equal(t, before, primary.Words(), "no data touched")
	})

	t.Run("closed arena", func(t *testing.T) {
		p, x := buffers(t, slots.KeyPrefix, []uint64{3, 1, 2})
		require.NoError(t, x.Arena().Close())

		_, _, err := Sort(p, x, 3, FullKey)
		assert.ErrorIs(t, err, slots.ErrInvalidLayout)
		assert.ErrorIs(t, err, arena.ErrClosed)

		require.NoError(t, p.Arena().Close())
		_, _, err = Sort(p, x, 3, FullKey)
		assert.ErrorIs(t, err, arena.ErrClosed)
	})

	t.Run("aliased buffers", func(t *testing.T) {
		_, _, err := Sort(primary, primary, 3, FullKey)
		assert.ErrorIs(t, err, slots.ErrInvalidLayout)
	})

	t.Run("nil buffer", func(t *testing.T) {
		_, _, err := Sort(primary, nil, 3, FullKey)
		assert.ErrorIs(t, err, slots.ErrInvalidLayout)
	})
}

func TestSort_SharedArena(t *testing.T) {
	keys := []uint64{30, 10, 20}
	a, err := arena.New(12)
	require.NoError(t, err)
	defer a.Close()

	primary, err := slots.NewAt(a, 0, 3, 2)
	require.NoError(t, err)
	aux, err := slots.NewAt(a, 6, 3, 2)
	require.NoError(t, err)
	require.NoError(t, slots.Generate(primary, 3, testutil.Source(keys)))

	_, err = SortInPlace(primary, aux, 3, FullKey)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 10, 2, 20, 0, 30}, primary.Words())
}

func TestSortInPlace(t *testing.T) {
	keys := testutil.NewRNG(2).Keys(500)
	primary, aux := buffers(t, slots.SingleKey, keys)

	_, err := SortInPlace(primary, aux, len(keys), FullKey)
	require.NoError(t, err)
	assert.True(t, slices.IsSorted(primary.Words()))
}

func TestSort_DoesNotAllocate(t *testing.T) {
	keys := testutil.NewRNG(4).Keys(1024)
	primary, aux := buffers(t, slots.KeyPrefix, keys)

	allocs := testing.AllocsPerRun(10, func() {
		_, _, _ = Sort(primary, aux, len(keys), Options{EndByte: 7, Descending: true, Signed: true})
	})
	assert.Zero(t, allocs)
}

func TestBufferID(t *testing.T) {
	assert.Equal(t, Auxiliary, Primary.Other())
	assert.Equal(t, Primary, Auxiliary.Other())
	assert.Equal(t, "primary", Primary.String())
	assert.Equal(t, "auxiliary", Auxiliary.String())
}
