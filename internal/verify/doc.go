// Package verify checks sort output: ordering, stability, permutation of the
// input and equality against an oracle.
//
// Checks only read the arrays and run after a sort returns. Ordering and
// stability split large arrays into chunks verified concurrently; each chunk
// also compares its first record with the last record of the previous chunk,
// so no boundary is missed.
package verify
