package strongptr

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Alias returns a Strong to a data member of parent's object. The alias
// shares parent's control block, so the whole parent stays alive for as long
// as the alias does, even after parent itself is released.
//
// member must return the address of a field stored inside the parent
// object, as in func(u *U) *M { return &u.Field }. Arbitrary aliasing is not
// supported: if the returned pointer does not lie within the parent's memory
// Alias fails with ErrNotMember and no reference is taken.
//
// Struct embedding makes Alias the conversion from a handle of an outer
// type to a handle of an embedded type.
func Alias[U, M any](parent Strong[U], member func(*U) *M) (Strong[M], error) {
	m := member(parent.ptr)
	if !contains(parent.ptr, m) {
		return Strong[M]{}, errors.WithStack(ErrNotMember)
	}
	if parent.ctrl != nil {
		parent.ctrl.addStrong()
	}
	return Strong[M]{ctrl: parent.ctrl, ptr: m}, nil
}

// AliasIndex returns a Strong to element index of an array member of
// parent's object. member usually returns a full slice of an array field,
// as in func(u *U) []E { return u.Items[:] }.
//
// An index outside [0, len) fails with *OutOfRangeError before any
// reference is taken. Elements that are not stored inside the parent (for
// example the backing array of a slice field) fail with ErrNotMember.
func AliasIndex[U, E any](parent Strong[U], member func(*U) []E, index int) (Strong[E], error) {
	seq := member(parent.ptr)
	if index < 0 || index >= len(seq) {
		return Strong[E]{}, errors.WithStack(&OutOfRangeError{Index: index, Capacity: len(seq)})
	}
	e := &seq[index]
	if !contains(parent.ptr, e) {
		return Strong[E]{}, errors.WithStack(ErrNotMember)
	}
	if parent.ctrl != nil {
		parent.ctrl.addStrong()
	}
	return Strong[E]{ctrl: parent.ctrl, ptr: e}, nil
}

// contains reports whether the whole of *m lies within *parent.
func contains[U, M any](parent *U, m *M) bool {
	if m == nil {
		return false
	}
	lo := uintptr(unsafe.Pointer(parent))
	hi := lo + unsafe.Sizeof(*parent)
	p := uintptr(unsafe.Pointer(m))
	return p >= lo && p+unsafe.Sizeof(*m) <= hi
}
