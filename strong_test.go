package strongptr

import (
	"sync/atomic"
	"testing"
)

type counted struct {
	value     int
	destroyed *atomic.Int32
}

func (c *counted) Destroy() {
	c.destroyed.Add(1)
}

func makeCounted(t testing.TB, alloc Allocator, v int) (Strong[counted], *atomic.Int32) {
	t.Helper()
	destroyed := new(atomic.Int32)
	s, err := Make[counted](alloc, func(c *counted) error {
		c.value = v
		c.destroyed = destroyed
		return nil
	})
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	return s, destroyed
}

func TestStrong_CopyDropWeakScenario(t *testing.T) {
	alloc := NewTracking(nil)
	a, destroyed := makeCounted(t, alloc, 7)
	if a.UseCount() != 1 {
		t.Fatalf("Expected use count 1, got %d", a.UseCount())
	}

	b := a.Clone()
	if a.UseCount() != 2 || b.UseCount() != 2 {
		t.Fatalf("Expected use count 2, got %d/%d", a.UseCount(), b.UseCount())
	}
	b.Release()
	if a.UseCount() != 1 {
		t.Fatalf("Expected use count 1 after dropping copy, got %d", a.UseCount())
	}

	w := a.Weak()
	if w.Expired() {
		t.Fatal("Weak expired while a strong handle is alive")
	}
	a.Release()

	if destroyed.Load() != 1 {
		t.Fatalf("Expected destructor to run once, ran %d times", destroyed.Load())
	}
	if !w.Expired() {
		t.Fatal("Weak not expired after last strong release")
	}
	locked := w.Lock()
	if locked.HasValue() {
		t.Fatal("Lock on expired weak returned a value")
	}
	if alloc.Live() != 1 {
		t.Fatalf("Record freed while a weak handle is alive")
	}

	w.Release()
	if err := alloc.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if s := alloc.Stats(); s.Allocations != 1 || s.Deallocations != 1 {
		t.Fatalf("Unexpected stats %+v", s)
	}
}

func TestStrong_UseCountTracksLiveHandles(t *testing.T) {
	s, destroyed := makeCounted(t, nil, 1)

	handles := []Strong[counted]{s}
	for i := range 16 {
		handles = append(handles, handles[i%len(handles)].Clone())
		if got := s.UseCount(); got != len(handles) {
			t.Fatalf("Expected use count %d, got %d", len(handles), got)
		}
	}
	for len(handles) > 1 {
		handles[len(handles)-1].Release()
		handles = handles[:len(handles)-1]
		if got := handles[0].UseCount(); got != len(handles) {
			t.Fatalf("Expected use count %d, got %d", len(handles), got)
		}
	}
	if destroyed.Load() != 0 {
		t.Fatal("Destroyed while a handle is alive")
	}
	handles[0].Release()
	if destroyed.Load() != 1 {
		t.Fatalf("Expected one destruction, got %d", destroyed.Load())
	}
}

func TestStrong_ReleaseClearsHandle(t *testing.T) {
	s, destroyed := makeCounted(t, nil, 1)
	s.Release()
	s.Release()
	if destroyed.Load() != 1 {
		t.Fatalf("Expected one destruction, got %d", destroyed.Load())
	}
	if s.Get() != nil || s.UseCount() != 0 {
		t.Fatal("Released handle still references the object")
	}
}

func TestStrong_DestroyZeroesObject(t *testing.T) {
	s, _ := makeCounted(t, nil, 42)
	w := s.Weak()
	defer w.Release()
	obj := s.Get()
	s.Release()
	if obj.value != 0 || obj.destroyed != nil {
		t.Fatalf("Expected zeroed object after destruction, got %+v", *obj)
	}
}

func TestStrong_Assign(t *testing.T) {
	a, da := makeCounted(t, nil, 1)
	b, db := makeCounted(t, nil, 2)

	a.Assign(a)
	if a.UseCount() != 1 || da.Load() != 0 {
		t.Fatalf("Self assignment changed state: count=%d destroyed=%d", a.UseCount(), da.Load())
	}

	a.Assign(b)
	if da.Load() != 1 {
		t.Fatal("Previous target not released on assignment")
	}
	if a.Get().value != 2 || b.UseCount() != 2 {
		t.Fatalf("Assignment did not share ownership: value=%d count=%d", a.Get().value, b.UseCount())
	}

	a.Release()
	b.Release()
	if db.Load() != 1 {
		t.Fatalf("Expected one destruction, got %d", db.Load())
	}
}

func TestStrong_SwapAndEquality(t *testing.T) {
	a, _ := makeCounted(t, nil, 1)
	b, _ := makeCounted(t, nil, 2)
	defer a.Release()
	defer b.Release()

	a2 := a.Clone()
	defer a2.Release()
	if !a.Equal(a2) || a.Equal(b) {
		t.Fatal("Equality must compare object addresses")
	}

	a.Swap(&b)
	if a.Get().value != 2 || b.Get().value != 1 {
		t.Fatal("Swap did not exchange targets")
	}
	if a.UseCount() != 1 || b.UseCount() != 2 {
		t.Fatalf("Swap changed counts: %d/%d", a.UseCount(), b.UseCount())
	}
	if !Same(b, a2) {
		t.Fatal("Same must compare object addresses")
	}
}

var staticCounted = counted{value: 99, destroyed: new(atomic.Int32)}

func TestStrong_AssumeStatic(t *testing.T) {
	s := AssumeStatic(&staticCounted)
	if s.UseCount() != 0 {
		t.Fatalf("Expected use count 0, got %d", s.UseCount())
	}
	c := s.Clone()
	if c.UseCount() != 0 || c.Get() != &staticCounted {
		t.Fatal("Copy of a static handle must stay uncounted")
	}

	w := s.Weak()
	if w.UseCount() != 0 || !w.Expired() {
		t.Fatal("Weak of a static handle must report 0 and expired")
	}
	o := Some(s)
	if !o.HasValue() {
		t.Fatal("Optional of a static handle must be engaged")
	}
	if v, _ := o.Value(); v.UseCount() != 0 {
		t.Fatal("Optional of a static handle must report 0")
	}

	alias, err := Alias(s, func(c *counted) *int { return &c.value })
	if err != nil {
		t.Fatalf("Alias: %v", err)
	}
	if *alias.Get() != 99 || alias.UseCount() != 0 {
		t.Fatal("Alias of a static handle must be uncounted")
	}

	alias.Release()
	o.Reset()
	w.Release()
	c.Release()
	s.Release()
	if staticCounted.destroyed.Load() != 0 || staticCounted.value != 99 {
		t.Fatal("Static object must never be destroyed")
	}
}

func TestStrong_AssumeStaticNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic for nil static pointer")
		}
	}()
	_ = AssumeStatic[counted](nil)
}

func TestStrong_OverReleasePanics(t *testing.T) {
	s, _ := makeCounted(t, nil, 1)
	dup := s // plain copy shares one reference
	s.Release()
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on over-release")
		}
	}()
	dup.Release()
}

func BenchmarkStrong_CloneRelease(b *testing.B) {
	s, _ := makeCounted(b, nil, 1)
	defer s.Release()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c := s.Clone()
			c.Release()
		}
	})
}
