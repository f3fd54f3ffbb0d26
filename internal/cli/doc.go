// Package cli implements the slotcheck command: it generates key sets, sorts
// them with the radix engine and the comparator sort, and verifies that both
// agree and that the output is ordered, stable and a permutation of the input.
//
// Generated inputs can be saved as fixtures (local directory or MinIO) and
// replayed later. Settings come from an optional TOML file; flags that are
// set explicitly override it.
//
// Example config:
//
//	records = [1000, 1000000]
//	startByte = 0
//	endByte = 7
//	signed = true
//	distribution = "zipf"
//	workers = 4
//
//	[fixture]
//	dir = "fixtures"
//	compression = "zstd"
//
//	[log]
//	level = "debug"
//	json = true
package cli
