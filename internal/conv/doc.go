// Package conv provides safe integer conversion and size arithmetic.
//
// Arena geometry (word counts, record widths, byte sizes) and fixture headers
// read from disk go through these helpers so that an oversized request turns
// into an error instead of a silent wrap-around.
//
// For conversions that are provably safe by domain constraints (loop indices,
// bounded counters), use direct casts instead.
package conv
