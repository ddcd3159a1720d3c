package strongptr

import (
	"errors"
	"testing"
)

type session struct {
	EnableStrongFromThis[session]
	id int
}

func TestSelf_StrongFromThisTwice(t *testing.T) {
	s, err := Make[session](nil, func(x *session) error {
		x.id = 9
		return nil
	})
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if s.UseCount() != 1 {
		t.Fatalf("Expected baseline use count 1, got %d", s.UseCount())
	}

	a, err := s.Get().StrongFromThis()
	if err != nil {
		t.Fatalf("StrongFromThis: %v", err)
	}
	b, err := s.Get().StrongFromThis()
	if err != nil {
		t.Fatalf("StrongFromThis: %v", err)
	}
	if !a.Equal(b) || !a.Equal(s) {
		t.Fatal("Self references must point at the same object")
	}
	if s.UseCount() != 3 {
		t.Fatalf("Expected use count 3, got %d", s.UseCount())
	}

	a.Release()
	b.Release()
	s.Release()
}

func TestSelf_WeakFromThis(t *testing.T) {
	alloc := NewTracking(nil)
	s, err := New(alloc, session{id: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := s.Get().WeakFromThis()
	if w.Expired() || w.UseCount() != 1 {
		t.Fatal("WeakFromThis must observe the live object")
	}
	obj := s.Get()
	s.Release()
	if !w.Expired() {
		t.Fatal("WeakFromThis not expired after the last strong release")
	}
	if _, err := obj.StrongFromThis(); !errors.Is(err, ErrBadWeakPtr) {
		t.Fatalf("Expected ErrBadWeakPtr after destruction, got %v", err)
	}
	if alloc.Live() != 1 {
		t.Fatal("Record freed while a weak handle is alive")
	}
	w.Release()
	if err := alloc.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSelf_Unmanaged(t *testing.T) {
	var x session
	if _, err := x.StrongFromThis(); !errors.Is(err, ErrBadWeakPtr) {
		t.Fatalf("Expected ErrBadWeakPtr, got %v", err)
	}
	w := x.WeakFromThis()
	if !w.Expired() {
		t.Fatal("WeakFromThis of an unmanaged object must be expired")
	}
}

func TestSelf_CopiedValueIsRebound(t *testing.T) {
	alloc := NewTracking(nil)
	first, err := New(alloc, session{id: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	second, err := New(alloc, *first.Get())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	self, err := second.Get().StrongFromThis()
	if err != nil {
		t.Fatalf("StrongFromThis: %v", err)
	}
	if !self.Equal(second) || self.Equal(first) {
		t.Fatal("Copied object must refer to its own record")
	}
	if first.UseCount() != 1 || second.UseCount() != 2 {
		t.Fatalf("Unexpected counts %d/%d", first.UseCount(), second.UseCount())
	}

	self.Release()
	second.Release()
	first.Release()
	if err := alloc.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

type linkedSession struct {
	*EnableStrongFromThis[linkedSession]
	id int
}

func TestSelf_PointerMixinIsNotBound(t *testing.T) {
	alloc := NewTracking(nil)
	s, err := New(alloc, linkedSession{id: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Get().StrongFromThis(); !errors.Is(err, ErrBadWeakPtr) {
		t.Fatalf("Expected ErrBadWeakPtr from a nil mixin, got %v", err)
	}
	if w := s.Get().WeakFromThis(); !w.Expired() {
		t.Fatal("WeakFromThis of a nil mixin must be expired")
	}
	s.Release()

	shared := &EnableStrongFromThis[linkedSession]{}
	s, err = Make[linkedSession](alloc, func(x *linkedSession) error {
		x.EnableStrongFromThis = shared
		x.id = 2
		return nil
	})
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if w := shared.WeakFromThis(); !w.Expired() {
		t.Fatal("A mixin outside the record must not be bound")
	}
	if s.UseCount() != 1 {
		t.Fatalf("Expected use count 1, got %d", s.UseCount())
	}
	s.Release()
	if err := alloc.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
