// Package testutil provides deterministic test data for sort tests,
// benchmarks and the slotcheck driver.
//
//	rng := testutil.NewRNG(42)
//	keys := rng.DuplicateKeys(1<<16, 64)   // heavy prefix collisions
//	err := slots.Generate(view, len(keys), testutil.Source(keys))
package testutil
