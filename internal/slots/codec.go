package slots

import "fmt"

// RecordAt returns the pointer and prefix of key-prefix record i.
func (v *View) RecordAt(i int) (pointer, prefix uint64, err error) {
	if err := v.check(i, KeyPrefix); err != nil {
		return 0, 0, err
	}
	return v.words[2*i], v.words[2*i+1], nil
}

// SetRecordAt writes key-prefix record i.
func (v *View) SetRecordAt(i int, pointer, prefix uint64) error {
	if err := v.check(i, KeyPrefix); err != nil {
		return err
	}
	v.words[2*i] = pointer
	v.words[2*i+1] = prefix
	return nil
}

// KeyAt returns the key of single-key record i.
func (v *View) KeyAt(i int) (uint64, error) {
	if err := v.check(i, SingleKey); err != nil {
		return 0, err
	}
	return v.words[i], nil
}

// SetKeyAt writes the key of single-key record i.
func (v *View) SetKeyAt(i int, key uint64) error {
	if err := v.check(i, SingleKey); err != nil {
		return err
	}
	v.words[i] = key
	return nil
}

// Key returns the sort key of record i for either flavor: the word itself for
// single-key arrays, the prefix for key-prefix arrays. It does not check
// bounds.
func (v *View) Key(i int) uint64 {
	w := v.flavor.Width()
	return v.words[i*w+w-1]
}

func (v *View) check(i int, want Flavor) error {
	if err := v.Err(); err != nil {
		return err
	}
	if v.flavor != want {
		return fmt.Errorf("%w: %s access on %s array", ErrInvalidLayout, want, v.flavor)
	}
	if i < 0 || i >= v.length {
		return fmt.Errorf("%w: record %d, array holds %d", ErrIndexOutOfBounds, i, v.length)
	}
	return nil
}

// Generate fills the first count records of v. Each key (or prefix) is next();
// key-prefix records get their index as pointer, so the original position of
// every record stays recoverable after sorting.
func Generate(v *View, count int, next func() uint64) error {
	if err := v.Err(); err != nil {
		return err
	}
	if count < 0 || count > v.length {
		return fmt.Errorf("%w: generate %d records, array holds %d", ErrIndexOutOfBounds, count, v.length)
	}
	switch v.flavor {
	case SingleKey:
		for i := range count {
			v.words[i] = next()
		}
	case KeyPrefix:
		for i := range count {
			v.words[2*i] = uint64(i)
			v.words[2*i+1] = next()
		}
	}
	return nil
}
