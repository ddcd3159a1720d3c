package strongptr

import (
	"reflect"
	"unsafe"
)

// Layout describes one allocation request.
//
// Size and Align are the byte size and alignment of the request. Type, when
// non-nil, is the Go type that will live in the returned memory; allocators
// must hand out memory the garbage collector scans as that type whenever
// the type contains pointers. A nil Type requests raw bytes.
type Layout struct {
	Size  uintptr
	Align uintptr
	Type  reflect.Type
}

// LayoutOf returns the Layout of a value of type T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
		Type:  reflect.TypeFor[T](),
	}
}

// Allocator supplies the storage for managed records.
//
// Memory returned by Allocate is passed back to Deallocate exactly once,
// with the same size. Implementations decide whether they are safe for
// concurrent use; the bundled ones are.
type Allocator interface {
	Allocate(l Layout) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, size uintptr)
}

// DefaultAllocator is used by the factory when no allocator is given.
var DefaultAllocator Allocator = Heap{}

// Heap allocates from the Go heap. Deallocate is a no-op: the collector
// reclaims a record once the last handle referencing it is gone.
type Heap struct{}

func (Heap) Allocate(l Layout) (unsafe.Pointer, error) {
	if l.Size == 0 {
		return zeroSized(), nil
	}
	if l.Type != nil {
		return reflect.New(l.Type).UnsafePointer(), nil
	}
	align := max(l.Align, 1)
	buf := make([]byte, l.Size+align-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(buf)), alignUp(base, align)-base), nil
}

func (Heap) Deallocate(unsafe.Pointer, uintptr) {}

// zeroSized returns a distinct address for a zero-sized request. The Go
// runtime hands every zero-sized allocation the same address, which would
// make two live allocations indistinguishable to Deallocate.
func zeroSized() unsafe.Pointer {
	return unsafe.Pointer(new(byte))
}

//go:nosplit
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// hasPointers reports whether values of t contain pointers the garbage
// collector has to trace.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// AllocStats is a snapshot of allocator activity.
type AllocStats struct {
	Allocations   uint64 // successful Allocate calls
	Deallocations uint64 // accepted Deallocate calls
	LiveRecords   uint64 // allocations not yet deallocated
	LiveBytes     uint64 // bytes held by live allocations
	PeakBytes     uint64 // high-water mark of LiveBytes
	Violations    uint64 // rejected Deallocate calls
}

func (s *AllocStats) recordAlloc(size uintptr) {
	s.Allocations++
	s.LiveRecords++
	s.LiveBytes += uint64(size)
	s.PeakBytes = max(s.PeakBytes, s.LiveBytes)
}

func (s *AllocStats) recordDealloc(size uintptr) {
	s.Deallocations++
	s.LiveRecords--
	s.LiveBytes -= uint64(size)
}
