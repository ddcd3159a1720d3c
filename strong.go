package strongptr

import "unsafe"

// Strong is a shared, non-null owning handle to a T.
//
// Every Strong produced by this package points at a live object: factories
// either return a valid handle or an error, and there is no constructor that
// accepts nil. The zero value is not a valid handle; it only appears after
// Release or in a declared but unassigned variable.
//
// A Strong value must not be duplicated by plain assignment: use Clone, which
// takes its own reference. Each handle obtained from this package must be
// released exactly once with Release.
type Strong[T any] struct {
	ctrl *controlBlock
	ptr  *T
}

// AssumeStatic returns a Strong to p without a control block. The caller
// guarantees that p outlives every handle derived from it, typically because
// it is a package-level variable. UseCount reports 0 for such handles and
// nothing is ever destroyed through them.
//
// AssumeStatic panics if p is nil.
func AssumeStatic[T any](p *T) Strong[T] {
	if p == nil {
		panic("strongptr: AssumeStatic called with a nil pointer")
	}
	return Strong[T]{ptr: p}
}

// Get returns the managed object.
func (s Strong[T]) Get() *T {
	return s.ptr
}

// UseCount returns the number of strong handles sharing the control block,
// aliases included. It is 0 for handles created with AssumeStatic.
func (s Strong[T]) UseCount() int {
	return s.ctrl.useCount()
}

// Clone returns a new handle sharing ownership with s.
func (s Strong[T]) Clone() Strong[T] {
	if s.ctrl != nil {
		s.ctrl.addStrong()
	}
	return s
}

// Assign makes s share ownership with o, releasing what s held before.
// Assigning a handle to itself is safe.
func (s *Strong[T]) Assign(o Strong[T]) {
	o = o.Clone()
	old := *s
	*s = o
	old.Release()
}

// Swap exchanges the targets of s and o without touching any count.
func (s *Strong[T]) Swap(o *Strong[T]) {
	*s, *o = *o, *s
}

// Release gives up the reference held by s and clears s. Releasing the last
// reference destroys the object. Calling Release again on the cleared
// handle does nothing.
func (s *Strong[T]) Release() {
	ctrl := s.ctrl
	*s = Strong[T]{}
	if ctrl != nil {
		ctrl.releaseStrong()
	}
}

// Equal reports whether s and o point at the same object.
func (s Strong[T]) Equal(o Strong[T]) bool {
	return s.ptr == o.ptr
}

// Same reports whether a and b point at the same address, regardless of
// their element types.
func Same[T, U any](a Strong[T], b Strong[U]) bool {
	return unsafe.Pointer(a.ptr) == unsafe.Pointer(b.ptr)
}

// Weak returns a non-owning observer of s.
func (s Strong[T]) Weak() Weak[T] {
	if s.ctrl != nil {
		s.ctrl.addWeak()
	}
	return Weak[T]{ctrl: s.ctrl, ptr: s.ptr}
}
