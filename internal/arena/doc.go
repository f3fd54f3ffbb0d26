// Package arena provides the fixed-capacity word arena that backs every slot
// array.
//
// An Arena is allocated once with a word count and never grows. By default the
// memory comes from an anonymous mapping, so multi-gigabyte sort buffers add no
// GC pressure; WithHeap switches to ordinary Go memory.
//
// # Out of Memory
//
// New fails with ErrOutOfMemory when the byte size overflows, when the
// configured MemoryAcquirer refuses the reservation, or when the mapping
// cannot be created. Nothing is allocated on failure.
//
// # Safety
//
// The arena owns its memory. Slices returned by Words are views into it and
// become invalid after Close.
package arena
