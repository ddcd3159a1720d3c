package strongptr

import "unsafe"

// record is the combined allocation: control block and managed object in
// one piece of storage.
type record[T any] struct {
	ctrl controlBlock
	obj  T
}

// Destructor is implemented by managed objects that release resources when
// their last strong reference goes away. Destroy runs exactly once, before
// the object's memory is zeroed and handed back to the allocator.
type Destructor interface {
	Destroy()
}

// destroyRecord is the destroy callback of record[T].
func destroyRecord[T any](p unsafe.Pointer) uintptr {
	if p != nil {
		rec := (*record[T])(p)
		destroyObject(&rec.obj)
	}
	return unsafe.Sizeof(record[T]{})
}

func destroyObject[T any](obj *T) {
	if d, ok := any(obj).(Destructor); ok {
		d.Destroy()
	}
	if e := selfMixin(obj); e != nil {
		e.unbindSelf()
	}
	var zero T
	*obj = zero
}
