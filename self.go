package strongptr

import "github.com/pkg/errors"

// EnableStrongFromThis lets a managed object obtain handles to itself.
// Embed it in T and create T through Make or New:
//
//	type Session struct {
//		strongptr.EnableStrongFromThis[Session]
//		id int
//	}
//
// The factory binds the embedded weak reference right after construction.
// An object that was never created by the factory, or whose last strong
// reference is gone, reports ErrBadWeakPtr from StrongFromThis.
type EnableStrongFromThis[T any] struct {
	weakThis Weak[T]
}

// selfBinder is satisfied by any *T embedding EnableStrongFromThis[T],
// by value or by pointer.
type selfBinder[T any] interface {
	self() *EnableStrongFromThis[T]
}

// selfMixin returns the mixin embedded by value in *obj, or nil. A mixin
// reached through an embedded pointer lives outside the object and may be
// nil or shared, so it is never bound.
func selfMixin[T any](obj *T) *EnableStrongFromThis[T] {
	b, ok := any(obj).(selfBinder[T])
	if !ok {
		return nil
	}
	if e := b.self(); contains(obj, e) {
		return e
	}
	return nil
}

func (e *EnableStrongFromThis[T]) self() *EnableStrongFromThis[T] {
	return e
}

// StrongFromThis returns a new Strong to the enclosing object.
func (e *EnableStrongFromThis[T]) StrongFromThis() (Strong[T], error) {
	if e == nil {
		return Strong[T]{}, errors.WithStack(ErrBadWeakPtr)
	}
	locked := e.weakThis.Lock()
	if !locked.HasValue() {
		return Strong[T]{}, errors.WithStack(ErrBadWeakPtr)
	}
	// The locked reference moves into the result.
	return locked.value, nil
}

// WeakFromThis returns a new Weak to the enclosing object. It is empty if
// the object is not managed.
func (e *EnableStrongFromThis[T]) WeakFromThis() Weak[T] {
	if e == nil {
		return Weak[T]{}
	}
	return e.weakThis.Clone()
}

// bindSelf overwrites whatever the field held: a value copied into the
// factory carries its source's reference, which was never taken for it.
func (e *EnableStrongFromThis[T]) bindSelf(self Strong[T]) {
	e.weakThis = self.Weak()
}

func (e *EnableStrongFromThis[T]) unbindSelf() {
	e.weakThis.Release()
}
