package strongptr

import (
	"sync/atomic"
	"unsafe"
)

// seqValue publishes a multi-word value to lock-free readers. Writers
// serialize on the odd sequence; readers retry until they observe an even,
// unchanged sequence around their copy.
//
// T must be a plain value whose size is a multiple of 4 bytes.
type seqValue[T any] struct {
	seq uint32
	_   [0]atomic.Uint32
	buf T
}

func (a *seqValue[T]) load() (v T) {
	for i := range unsafe.Sizeof(a.buf) / 4 {
		src := (*uint32)(unsafe.Pointer(uintptr(unsafe.Pointer(&a.buf)) + i*4))
		dst := (*uint32)(unsafe.Pointer(uintptr(unsafe.Pointer(&v)) + i*4))
		*dst = atomic.LoadUint32(src)
	}
	return v
}

func (a *seqValue[T]) store(v T) {
	for i := range unsafe.Sizeof(a.buf) / 4 {
		src := (*uint32)(unsafe.Pointer(uintptr(unsafe.Pointer(&v)) + i*4))
		dst := (*uint32)(unsafe.Pointer(uintptr(unsafe.Pointer(&a.buf)) + i*4))
		atomic.StoreUint32(dst, *src)
	}
}

// Load returns a consistent snapshot.
func (a *seqValue[T]) Load() T {
	for {
		s1 := atomic.LoadUint32(&a.seq)
		if s1&1 != 0 {
			continue
		}
		v := a.load()
		s2 := atomic.LoadUint32(&a.seq)
		if s1 == s2 {
			return v
		}
	}
}

// Update applies fn to the current value and publishes the result.
func (a *seqValue[T]) Update(fn func(*T)) {
	for {
		s := atomic.LoadUint32(&a.seq)
		if s&1 != 0 {
			continue
		}
		if atomic.CompareAndSwapUint32(&a.seq, s, s|1) {
			v := a.load()
			fn(&v)
			a.store(v)
			atomic.StoreUint32(&a.seq, s+2)
			return
		}
	}
}
