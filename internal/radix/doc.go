// Package radix implements the LSD radix sort engine for slot arrays.
//
// A sort walks the active key bytes from least to most significant. Each pass
// builds a 256-entry histogram of the current byte, turns it into bucket
// offsets with an exclusive prefix scan and scatters every record into the
// other buffer. Passes where all records share one byte value are skipped,
// decided per pass from that pass's histogram.
//
// Cost is O(passes * n) time with no comparisons, plus the caller-owned
// auxiliary buffer. Histograms live on the stack, so a sort never allocates.
//
// For key-prefix arrays the engine orders by the 64-bit prefix only. Records
// whose prefixes collide stay in input order; resolving them by the full key
// is the caller's job.
package radix
