package strongptr

// Weak observes an object owned by Strong handles without keeping it alive.
// The zero value is an empty, expired Weak.
//
// Like Strong, a Weak must be duplicated with Clone and released with
// Release.
type Weak[T any] struct {
	ctrl *controlBlock
	ptr  *T
}

// Clone returns another observer of the same object.
func (w Weak[T]) Clone() Weak[T] {
	if w.ctrl != nil {
		w.ctrl.addWeak()
	}
	return w
}

// Assign makes w observe what o observes.
func (w *Weak[T]) Assign(o Weak[T]) {
	o = o.Clone()
	old := *w
	*w = o
	old.Release()
}

// AssignStrong makes w observe the object owned by s.
func (w *Weak[T]) AssignStrong(s Strong[T]) {
	o := s.Weak()
	old := *w
	*w = o
	old.Release()
}

// Swap exchanges the targets of w and o.
func (w *Weak[T]) Swap(o *Weak[T]) {
	*w, *o = *o, *w
}

// Release drops the weak reference held by w and clears w.
func (w *Weak[T]) Release() {
	ctrl := w.ctrl
	*w = Weak[T]{}
	if ctrl != nil {
		ctrl.releaseWeak()
	}
}

// Expired reports whether the observed object is gone. A Weak without a
// control block, including one derived from AssumeStatic, is always expired.
func (w Weak[T]) Expired() bool {
	return w.ctrl.expired()
}

// UseCount returns the number of strong handles keeping the object alive.
func (w Weak[T]) UseCount() int {
	return w.ctrl.useCount()
}

// Lock promotes w to a strong reference. The result is disengaged if the
// object has already been destroyed; promotion never revives an object
// whose strong count reached zero.
func (w Weak[T]) Lock() Optional[T] {
	if w.ctrl.expired() {
		return Optional[T]{}
	}
	if !w.ctrl.tryAddStrong() {
		return Optional[T]{}
	}
	// tryAddStrong already took the reference for the new handle.
	return Optional[T]{value: Strong[T]{ctrl: w.ctrl, ptr: w.ptr}, engaged: true}
}
