package classfile

import "fmt"

// ErrBadMagic reports a file that does not begin with CA FE BA BE.
type ErrBadMagic struct{ Got uint32 }

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("classfile: bad magic 0x%08x, want 0xcafebabe", e.Got)
}

// ErrMissingThisClass reports this_class resolving to the wrong constant
// kind or an empty slot — fatal per spec.md §4.4.
type ErrMissingThisClass struct{ Index int }

func (e *ErrMissingThisClass) Error() string {
	return fmt.Sprintf("classfile: this_class index %d does not resolve to a Class constant", e.Index)
}
