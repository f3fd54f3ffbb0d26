// Package slotsort sorts fixed-width records held in raw memory arenas.
//
// An Arena is a fixed block of 64-bit words, mapped outside the Go heap by
// default. A SlotArray is a view over an arena in one of two flavors:
//
//   - SingleKey: one key per word.
//   - KeyPrefix: (pointer, prefix) pairs; word 2i is the record pointer and
//     word 2i+1 the key prefix.
//
// RadixSort is an LSD radix sort over an inclusive byte window of the key
// (byte 0 least significant). It ping-pongs between the primary array and an
// auxiliary array of the same shape and returns the BufferID of the array
// holding the result. Passes whose byte is identical across all records are
// skipped. Sorting is stable in both directions, optionally treats the key as
// two's complement, and does not allocate.
//
// ComparatorSort is a stable comparison sort over the same key-prefix layout.
// It is the correctness oracle and performance baseline for RadixSort.
//
// # Quick Start
//
//	a, _ := slotsort.AllocateSlotArray(2 * n)
//	defer a.Close()
//	b, _ := slotsort.AllocateSlotArray(2 * n)
//	defer b.Close()
//
//	primary, _ := slotsort.NewKeyPrefixArray(a, n)
//	aux, _ := slotsort.NewKeyPrefixArray(b, n)
//	// ... fill primary ...
//
//	id, err := slotsort.RadixSort(primary, aux, n, 0, 7, false, false)
//	sorted := slotsort.Result(primary, aux, id)
//
// # Engines
//
// Package-level functions use Default. Create an Engine to attach a Logger,
// a MetricsCollector or a memory limit:
//
//	eng := slotsort.New(
//	    slotsort.WithLogger(slotsort.NewTextLogger(slog.LevelDebug)),
//	    slotsort.WithMemoryLimit(1<<30),
//	)
//
// # Errors
//
// Every error wraps one of ErrOutOfMemory, ErrInvalidLayout, ErrInvalidRange
// or ErrIndexOutOfBounds. Preconditions are checked before any data is
// touched, so a failed call leaves both arrays unchanged.
package slotsort
