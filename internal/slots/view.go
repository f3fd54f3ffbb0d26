package slots

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/slotsort/internal/arena"
	"github.com/hupe1980/slotsort/internal/conv"
)

var (
	// ErrInvalidLayout is returned when a view's geometry does not fit its
	// arena or a record width does not match the array flavor.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrInvalidRange is returned when a record count or key byte range is
	// outside what the buffers can hold.
	ErrInvalidRange = errors.New("invalid range")
	// ErrIndexOutOfBounds is returned for record or word access past the view length.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// Flavor is the record layout of a slot array. Its value is the record width
// in words.
type Flavor int

const (
	// SingleKey arrays hold one sortable key per word.
	SingleKey Flavor = 1
	// KeyPrefix arrays hold (pointer, prefix) pairs: word 2i is the record
	// pointer, word 2i+1 the sortable prefix.
	KeyPrefix Flavor = 2
)

// Width returns the record width in words.
func (f Flavor) Width() int { return int(f) }

func (f Flavor) String() string {
	switch f {
	case SingleKey:
		return "single-key"
	case KeyPrefix:
		return "key-prefix"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// View is a non-owning, typed window over an arena: length records of a fixed
// width starting at a word offset. Reads and writes index the arena storage
// directly. A view must not be used after its arena is closed.
type View struct {
	arena  *arena.Arena
	words  []uint64
	offset int
	length int
	flavor Flavor
}

// New creates a view of length records of the given width at the start of a.
func New(a *arena.Arena, length, width int) (*View, error) {
	return NewAt(a, 0, length, width)
}

// NewSingleKey creates a single-key view of length records.
func NewSingleKey(a *arena.Arena, length int) (*View, error) {
	return New(a, length, SingleKey.Width())
}

// NewKeyPrefix creates a key-prefix view of length records.
func NewKeyPrefix(a *arena.Arena, length int) (*View, error) {
	return New(a, length, KeyPrefix.Width())
}

// NewAt creates a view starting at wordOffset. Several views may share one
// arena as long as their word ranges do not overlap.
func NewAt(a *arena.Arena, wordOffset, length, width int) (*View, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil arena", ErrInvalidLayout)
	}
	flavor := Flavor(width)
	if flavor != SingleKey && flavor != KeyPrefix {
		return nil, fmt.Errorf("%w: record width %d (want 1 or 2)", ErrInvalidLayout, width)
	}
	if length < 0 || wordOffset < 0 {
		return nil, fmt.Errorf("%w: offset %d, length %d", ErrInvalidLayout, wordOffset, length)
	}
	n, err := conv.MulInt(length, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	words := a.Words()
	if wordOffset > len(words) || n > len(words)-wordOffset {
		return nil, fmt.Errorf("%w: %d %s records at word %d need %d words, arena holds %d",
			ErrInvalidLayout, length, flavor, wordOffset, n, len(words))
	}
	return &View{
		arena:  a,
		words:  words[wordOffset : wordOffset+n : wordOffset+n],
		offset: wordOffset,
		length: length,
		flavor: flavor,
	}, nil
}

// Len returns the number of records the view holds.
func (v *View) Len() int { return v.length }

// Width returns the record width in words.
func (v *View) Width() int { return v.flavor.Width() }

// Flavor returns the record layout.
func (v *View) Flavor() Flavor { return v.flavor }

// Arena returns the arena the view indexes into.
func (v *View) Arena() *arena.Arena { return v.arena }

// Offset returns the word offset of the view within its arena.
func (v *View) Offset() int { return v.offset }

// Words returns the view's words (Len()*Width() of them) without copying.
func (v *View) Words() []uint64 { return v.words }

// Err returns an error once the view's arena has been closed. The view's
// words are unmapped at that point and must not be touched.
func (v *View) Err() error {
	if v.arena.Closed() {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, arena.ErrClosed)
	}
	return nil
}

// Get returns word i of the view.
func (v *View) Get(i int) (uint64, error) {
	if err := v.Err(); err != nil {
		return 0, err
	}
	if i < 0 || i >= len(v.words) {
		return 0, fmt.Errorf("%w: word %d, view has %d", ErrIndexOutOfBounds, i, len(v.words))
	}
	return v.words[i], nil
}

// Set writes word i of the view.
func (v *View) Set(i int, w uint64) error {
	if err := v.Err(); err != nil {
		return err
	}
	if i < 0 || i >= len(v.words) {
		return fmt.Errorf("%w: word %d, view has %d", ErrIndexOutOfBounds, i, len(v.words))
	}
	v.words[i] = w
	return nil
}

// SameShape reports whether o has the same flavor and length as v.
func (v *View) SameShape(o *View) bool {
	return o != nil && v.flavor == o.flavor && v.length == o.length
}

// Overlaps reports whether v and o share any arena word.
func (v *View) Overlaps(o *View) bool {
	if len(v.words) == 0 || len(o.words) == 0 {
		return false
	}
	const w = unsafe.Sizeof(uint64(0))
	vStart := uintptr(unsafe.Pointer(&v.words[0])) //nolint:gosec // address comparison only
	oStart := uintptr(unsafe.Pointer(&o.words[0])) //nolint:gosec // address comparison only
	vEnd := vStart + uintptr(len(v.words))*w
	oEnd := oStart + uintptr(len(o.words))*w
	return vStart < oEnd && oStart < vEnd
}

// CopyTo copies the first count records of v into dst.
func (v *View) CopyTo(dst *View, count int) error {
	if dst == nil || v.flavor != dst.flavor {
		return fmt.Errorf("%w: copy between different flavors", ErrInvalidLayout)
	}
	if err := v.Err(); err != nil {
		return err
	}
	if err := dst.Err(); err != nil {
		return err
	}
	if count < 0 || count > v.length || count > dst.length {
		return fmt.Errorf("%w: copy %d records, source holds %d, destination %d",
			ErrInvalidRange, count, v.length, dst.length)
	}
	n := count * v.Width()
	copy(dst.words[:n], v.words[:n])
	return nil
}

func (v *View) String() string {
	return fmt.Sprintf("View{%s, records: %d, offset: %d}", v.flavor, v.length, v.offset)
}
