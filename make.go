package strongptr

import "unsafe"

// Initializer constructs a T in place. The object is zeroed when the
// initializer runs. The Token form is used by types whose construction is
// restricted to the factory; Make supplies a valid Token automatically.
type Initializer[T any] interface {
	func(obj *T) error | func(tok Token, obj *T) error
}

// Make allocates a record for one T from alloc, constructs the object in
// place with init and returns the first Strong to it (UseCount 1).
//
// A nil alloc selects DefaultAllocator. Allocation errors and errors
// returned by init are returned unchanged; in the latter case the storage
// is deallocated before Make returns. If T embeds EnableStrongFromThis[T],
// its self reference is bound before Make returns. A mixin embedded by
// pointer is not part of the record and is left untouched.
func Make[T any, F Initializer[T]](alloc Allocator, init F) (Strong[T], error) {
	rec, err := allocRecord[T](alloc)
	if err != nil {
		return Strong[T]{}, err
	}

	switch fn := any(init).(type) {
	case func(*T) error:
		if fn != nil {
			err = fn(&rec.obj)
		}
	case func(Token, *T) error:
		if fn != nil {
			err = withToken(func(tok Token) error { return fn(tok, &rec.obj) })
		}
	}
	if err != nil {
		discardRecord(rec)
		return Strong[T]{}, err
	}
	return adoptRecord(rec), nil
}

// New allocates a record for one T from alloc and copies v into it.
//
// If T embeds EnableStrongFromThis[T], the copied self reference is
// discarded and rebound to the new record.
func New[T any](alloc Allocator, v T) (Strong[T], error) {
	rec, err := allocRecord[T](alloc)
	if err != nil {
		return Strong[T]{}, err
	}
	rec.obj = v
	return adoptRecord(rec), nil
}

func allocRecord[T any](alloc Allocator) (*record[T], error) {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	p, err := alloc.Allocate(LayoutOf[record[T]]())
	if err != nil {
		return nil, err
	}
	rec := (*record[T])(p)
	*rec = record[T]{}
	rec.ctrl.init(alloc, destroyRecord[T])
	return rec, nil
}

// discardRecord gives back the storage of a record whose object failed to
// construct. No handle to it was ever published.
func discardRecord[T any](rec *record[T]) {
	var zero T
	rec.obj = zero
	size := rec.ctrl.destroy(nil)
	rec.ctrl.allocator.Deallocate(unsafe.Pointer(rec), size)
}

func adoptRecord[T any](rec *record[T]) Strong[T] {
	s := Strong[T]{ctrl: &rec.ctrl, ptr: &rec.obj}
	if e := selfMixin(&rec.obj); e != nil {
		e.bindSelf(s)
	}
	return s
}
