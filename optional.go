package strongptr

import "github.com/pkg/errors"

// Optional is a nullable Strong. The zero value is disengaged.
//
// The engaged state owns exactly one strong reference. Optional values are
// duplicated with Clone or Assign and emptied with Reset.
type Optional[T any] struct {
	value   Strong[T]
	engaged bool
}

// None returns a disengaged Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Some returns an Optional holding a new reference to the object of s.
func Some[T any](s Strong[T]) Optional[T] {
	return Optional[T]{value: s.Clone(), engaged: true}
}

// HasValue reports whether o is engaged.
func (o *Optional[T]) HasValue() bool {
	return o.engaged
}

// IsNil reports whether o is disengaged.
func (o *Optional[T]) IsNil() bool {
	return !o.engaged
}

// Value returns the contained handle. The handle is borrowed: it stays owned
// by o and must not be released by the caller.
func (o *Optional[T]) Value() (*Strong[T], error) {
	if !o.engaged {
		return nil, errors.WithStack(ErrBadOptionalAccess)
	}
	return &o.value, nil
}

// Get returns the managed object.
func (o *Optional[T]) Get() (*T, error) {
	if !o.engaged {
		return nil, errors.WithStack(ErrBadOptionalAccess)
	}
	return o.value.ptr, nil
}

// Strong returns a new Strong sharing ownership with o.
func (o *Optional[T]) Strong() (Strong[T], error) {
	if !o.engaged {
		return Strong[T]{}, errors.WithStack(ErrBadOptionalAccess)
	}
	return o.value.Clone(), nil
}

// Set engages o with a new reference to the object of s.
func (o *Optional[T]) Set(s Strong[T]) {
	if o.engaged {
		o.value.Assign(s)
		return
	}
	o.value = s.Clone()
	o.engaged = true
}

// Assign makes o hold what src holds.
func (o *Optional[T]) Assign(src *Optional[T]) {
	if o == src {
		return
	}
	switch {
	case o.engaged && src.engaged:
		o.value.Assign(src.value)
	case o.engaged && !src.engaged:
		o.Reset()
	case !o.engaged && src.engaged:
		o.value = src.value.Clone()
		o.engaged = true
	}
}

// Emplace resets o and then engages it with a new reference to the object
// of s. It returns the contained handle, borrowed from o.
func (o *Optional[T]) Emplace(s Strong[T]) *Strong[T] {
	s = s.Clone()
	o.Reset()
	o.value = s
	o.engaged = true
	return &o.value
}

// Reset disengages o, releasing its reference. Resetting a disengaged
// Optional does nothing.
func (o *Optional[T]) Reset() {
	if !o.engaged {
		return
	}
	o.engaged = false
	o.value.Release()
}

// Swap exchanges the contents of o and other.
func (o *Optional[T]) Swap(other *Optional[T]) {
	*o, *other = *other, *o
}

// Clone returns an independent Optional holding its own reference.
func (o *Optional[T]) Clone() Optional[T] {
	if !o.engaged {
		return Optional[T]{}
	}
	return Some(o.value)
}

// Equal reports whether o and other are both disengaged or point at the same
// object.
func (o *Optional[T]) Equal(other *Optional[T]) bool {
	if o.engaged != other.engaged {
		return false
	}
	return !o.engaged || o.value.ptr == other.value.ptr
}
