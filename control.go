package strongptr

import "unsafe"

// controlBlock is the type-erased lifetime bookkeeping shared by every
// handle to one record. It is always the first field of its record, so a
// *controlBlock is also the address of the whole allocation.
//
// counts.weak holds the number of live Weak handles plus one unit owned
// collectively by the strong handles while counts.strong > 0. The object is
// destroyed when strong reaches zero; the record is deallocated when weak
// reaches zero, which can only happen after the strong side has dropped its
// unit. Exactly one release path therefore observes the terminal state.
type controlBlock struct {
	allocator Allocator
	// destroy destroys the object when given the record and always returns
	// the record size. destroy(nil) only reports the size.
	destroy   func(rec unsafe.Pointer) uintptr
	counts    refCounts
}

func (c *controlBlock) init(alloc Allocator, destroy func(unsafe.Pointer) uintptr) {
	c.allocator = alloc
	c.destroy = destroy
	c.counts.strong.Store(1)
	c.counts.weak.Store(1)
}

// addStrong takes one more strong reference. The caller already holds one.
func (c *controlBlock) addStrong() {
	c.counts.strong.Add(1)
}

// tryAddStrong takes a strong reference only while the object is alive.
func (c *controlBlock) tryAddStrong() bool {
	n := c.counts.strong.Load()
	for n > 0 {
		if c.counts.strong.CompareAndSwap(n, n+1) {
			return true
		}
		n = c.counts.strong.Load()
	}
	return false
}

func (c *controlBlock) releaseStrong() {
	n := c.counts.strong.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("strongptr: strong reference released too often")
	}
	c.destroy(unsafe.Pointer(c))
	c.releaseWeak()
}

func (c *controlBlock) addWeak() {
	c.counts.weak.Add(1)
}

func (c *controlBlock) releaseWeak() {
	n := c.counts.weak.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("strongptr: weak reference released too often")
	}
	size := c.destroy(nil)
	alloc := c.allocator
	alloc.Deallocate(unsafe.Pointer(c), size)
}

func (c *controlBlock) useCount() int {
	if c == nil {
		return 0
	}
	return int(loadCountRelaxed(&c.counts.strong))
}

func (c *controlBlock) expired() bool {
	return c == nil || loadCountRelaxed(&c.counts.strong) == 0
}
