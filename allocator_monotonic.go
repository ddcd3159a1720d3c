package strongptr

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Monotonic is a bounded bump allocator over a fixed buffer. Memory is
// never reused individually: Deallocate only settles the books, and the
// buffer is rewound as a whole with Reset.
//
// Raw requests and types without pointers are carved from the buffer.
// Types with pointers must stay visible to the garbage collector, so they
// are allocated from the Go heap, but their aligned size is still charged to
// the buffer and counts against its capacity.
//
// Every record created by Make or New contains pointers (its control block
// holds the allocator and the destroy callback). Records therefore never
// live in the buffer: for them Monotonic is a capacity bound and an
// outstanding-allocation check, not an arena.
//
// Allocate and Deallocate are safe for concurrent use; Reset and Close are
// not safe to call concurrently with Allocate.
type Monotonic struct {
	buf         []byte
	offset      atomic.Uintptr
	outstanding atomic.Int64
	stats       seqValue[AllocStats]
}

// NewMonotonic returns a Monotonic allocator with capacity bytes.
func NewMonotonic(capacity int) *Monotonic {
	return &Monotonic{buf: make([]byte, capacity)}
}

// Cap returns the capacity in bytes.
func (m *Monotonic) Cap() int {
	return len(m.buf)
}

// Len returns the number of bytes consumed so far, alignment padding
// included.
func (m *Monotonic) Len() int {
	return int(m.offset.Load())
}

// Outstanding returns the number of allocations not yet deallocated.
func (m *Monotonic) Outstanding() int {
	return int(m.outstanding.Load())
}

// Stats returns a snapshot of the allocator activity.
func (m *Monotonic) Stats() AllocStats {
	return m.stats.Load()
}

func (m *Monotonic) Allocate(l Layout) (unsafe.Pointer, error) {
	start, err := m.bump(l.Size, max(l.Align, 1))
	if err != nil {
		return nil, err
	}
	m.outstanding.Add(1)
	m.stats.Update(func(s *AllocStats) { s.recordAlloc(l.Size) })

	if l.Type != nil && hasPointers(l.Type) {
		return Heap{}.Allocate(Layout{Size: l.Size, Align: l.Align, Type: l.Type})
	}
	if l.Size == 0 {
		return zeroSized(), nil
	}
	return unsafe.Pointer(&m.buf[start]), nil
}

// bump reserves size bytes aligned to align and returns the buffer offset
// of the reservation.
func (m *Monotonic) bump(size, align uintptr) (uintptr, error) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(m.buf)))
	for {
		off := m.offset.Load()
		start := alignUp(base+off, align) - base
		end := start + size
		if end > uintptr(len(m.buf)) {
			return 0, errors.Wrapf(ErrOutOfMemory,
				"monotonic: %d bytes requested, %d of %d in use", size, off, len(m.buf))
		}
		if m.offset.CompareAndSwap(off, end) {
			return start, nil
		}
	}
}

func (m *Monotonic) Deallocate(_ unsafe.Pointer, size uintptr) {
	m.outstanding.Add(-1)
	m.stats.Update(func(s *AllocStats) { s.recordDealloc(size) })
}

// Reset rewinds the buffer. It fails with ErrOutstandingAllocations while
// any allocation is live.
func (m *Monotonic) Reset() error {
	if n := m.outstanding.Load(); n != 0 {
		return errors.Wrapf(ErrOutstandingAllocations, "monotonic: %d live", n)
	}
	clear(m.buf)
	m.offset.Store(0)
	return nil
}

// Close releases the buffer. Live allocations at Close time are reported
// with ErrOutstandingAllocations; the buffer is kept in that case so they
// stay valid.
func (m *Monotonic) Close() error {
	if n := m.outstanding.Load(); n != 0 {
		return errors.Wrapf(ErrOutstandingAllocations, "monotonic: %d live", n)
	}
	m.buf = nil
	m.offset.Store(0)
	return nil
}
