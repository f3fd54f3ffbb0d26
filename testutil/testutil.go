package testutil

import (
	"math/rand"
	"sync"
)

// RNG wraps a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random 64-bit value.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Keys returns n uniformly random 64-bit keys.
func (r *RNG) Keys(n int) []uint64 {
	return r.MaskedKeys(n, ^uint64(0))
}

// MaskedKeys returns n random keys with mask applied.
func (r *RNG) MaskedKeys(n int, mask uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = r.rand.Uint64() & mask
	}
	return keys
}

// DuplicateKeys returns n keys drawn from only distinct random values, so
// that most keys collide.
func (r *RNG) DuplicateKeys(n, distinct int) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool := make([]uint64, max(distinct, 1))
	for i := range pool {
		pool[i] = r.rand.Uint64()
	}
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = pool[r.rand.Intn(len(pool))]
	}
	return keys
}

// SignedKeys returns n keys whose int64 values span [-limit, limit].
func (r *RNG) SignedKeys(n int, limit int64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(r.rand.Int63n(2*limit+1) - limit)
	}
	return keys
}

// ZipfKeys returns n keys in [0, imax] following a Zipf distribution with
// exponent s (> 1). Small values repeat heavily.
func (r *RNG) ZipfKeys(n int, s float64, imax uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	z := rand.NewZipf(r.rand, s, 1, imax)
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = z.Uint64()
	}
	return keys
}

// Source returns a generator yielding keys in order, for use with
// slots.Generate. It panics when exhausted.
func Source(keys []uint64) func() uint64 {
	i := 0
	return func() uint64 {
		k := keys[i]
		i++
		return k
	}
}

// ByteRangeMask returns the mask covering bytes [startByte, endByte] of a key.
func ByteRangeMask(startByte, endByte int) uint64 {
	hi := ^uint64(0)
	if endByte < 7 {
		hi = 1<<(uint(endByte+1)*8) - 1
	}
	return hi &^ (1<<(uint(startByte)*8) - 1)
}
