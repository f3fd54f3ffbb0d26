// Package mergesort is the comparison-based baseline for the radix engine.
//
// It sorts the same arena-backed slot arrays with a stable merge sort and a
// caller-supplied prefix comparator. The only real work is the layout adapter:
// key-prefix arrays are viewed as []Record in place, so the generic stable
// sort moves pointer and prefix together while comparing only the prefix.
package mergesort
