// Package slots implements typed slot-array views over a word arena and the
// key-prefix record codec.
//
// Two flavors exist. A single-key array stores one 64-bit key per word. A
// key-prefix array stores two words per record: the opaque record pointer
// followed by the 64-bit sortable prefix. The field order is part of the
// layout and never changes.
//
// Views never copy: every accessor reads and writes the arena words in place.
// Bounds are enforced here, at the view, so the arena itself stays a plain
// allocation.
package slots
