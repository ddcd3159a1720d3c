// Package strongptr provides reference-counted ownership handles with a
// stricter contract than a general shared pointer.
//
//   - Strong[T] is a shared, non-null owning handle.
//   - Weak[T] observes an object without keeping it alive and can be
//     promoted with Lock.
//   - Optional[T] is the nullable form of Strong[T], returned by Lock.
//
// Objects are created by Make or New, which place the control block and the
// object in a single allocation obtained from an Allocator. Counting is
// lock-free: handles may be cloned, released and promoted from any number
// of goroutines.
//
// Handles are plain values. Go copies them bitwise, so ownership is
// duplicated only with Clone and given up only with Release:
//
//	dev, err := strongptr.New(alloc, Device{Addr: 0x48})
//	if err != nil {
//		return err
//	}
//	defer dev.Release()
//
//	w := dev.Weak()
//	defer w.Release()
//	if locked := w.Lock(); locked.HasValue() {
//		defer locked.Reset()
//		...
//	}
//
// Aliasing is restricted to data members of the owned object (Alias,
// AliasIndex), which keeps the parent alive. Objects with static storage
// can be wrapped without a control block using AssumeStatic.
package strongptr
