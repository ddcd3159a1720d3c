package strongptr

import (
	"unsafe"

	"github.com/go-logr/logr"
	"github.com/llxisdsh/pb"
	"github.com/pkg/errors"
)

// TrackingConfig defines configurable Tracking options.
type TrackingConfig struct {
	logger logr.Logger
	name   string
}

// WithLogger sets the logger used by a Tracking allocator. Every allocation
// and deallocation is logged at V(1); rejected deallocations are logged as
// errors. The default discards everything.
func WithLogger(logger logr.Logger) func(*TrackingConfig) {
	return func(c *TrackingConfig) {
		c.logger = logger
	}
}

// WithName sets the name reported in log lines.
func WithName(name string) func(*TrackingConfig) {
	return func(c *TrackingConfig) {
		c.name = name
	}
}

// Tracking decorates an Allocator with a registry of live allocations.
//
// Every Deallocate is checked against the registry: freeing an unknown
// pointer, freeing twice, or freeing with a size that differs from the
// allocation is counted as a violation, logged, and not forwarded to the
// inner allocator. Stats can be read without blocking allocators.
type Tracking struct {
	inner  Allocator
	logger logr.Logger

	// live maps each outstanding pointer to its allocation size.
	live *pb.MapOf[unsafe.Pointer, uintptr]

	stats seqValue[AllocStats]
}

// NewTracking returns a Tracking allocator forwarding to inner. A nil inner
// selects DefaultAllocator.
func NewTracking(inner Allocator, options ...func(*TrackingConfig)) *Tracking {
	if inner == nil {
		inner = DefaultAllocator
	}
	c := &TrackingConfig{logger: logr.Discard(), name: "strongptr"}
	for _, o := range options {
		o(c)
	}
	return &Tracking{
		inner:  inner,
		logger: c.logger.WithName(c.name),
		live:   pb.NewMapOf[unsafe.Pointer, uintptr](),
	}
}

func (t *Tracking) Allocate(l Layout) (unsafe.Pointer, error) {
	p, err := t.inner.Allocate(l)
	if err != nil {
		t.logger.V(1).Info("allocation failed", "size", l.Size, "align", l.Align, "error", err.Error())
		return nil, err
	}

	t.live.Store(p, l.Size)
	t.stats.Update(func(s *AllocStats) { s.recordAlloc(l.Size) })

	if v := t.logger.V(1); v.Enabled() {
		v.Info("allocate", "ptr", uintptr(p), "size", l.Size, "align", l.Align, "type", typeName(l))
	}
	return p, nil
}

func (t *Tracking) Deallocate(p unsafe.Pointer, size uintptr) {
	var want uintptr
	var ok bool
	t.live.Compute(p, func(allocated uintptr, loaded bool) (uintptr, pb.ComputeOp) {
		want, ok = allocated, loaded
		if loaded && allocated == size {
			return 0, pb.DeleteOp
		}
		return allocated, pb.CancelOp
	})

	if !ok || want != size {
		t.stats.Update(func(s *AllocStats) { s.Violations++ })
		err := errors.WithStack(ErrInvalidDeallocation)
		if !ok {
			t.logger.Error(err, "deallocate of unknown or already freed pointer", "ptr", uintptr(p), "size", size)
		} else {
			t.logger.Error(err, "deallocate size mismatch", "ptr", uintptr(p), "size", size, "allocated", want)
		}
		return
	}

	t.stats.Update(func(s *AllocStats) { s.recordDealloc(size) })
	t.logger.V(1).Info("deallocate", "ptr", uintptr(p), "size", size)
	t.inner.Deallocate(p, size)
}

// Stats returns a snapshot of the allocator activity.
func (t *Tracking) Stats() AllocStats {
	return t.stats.Load()
}

// Live returns the number of allocations not yet deallocated.
func (t *Tracking) Live() int {
	return t.live.Size()
}

// Verify returns ErrInvalidDeallocation if any deallocation was rejected,
// or ErrOutstandingAllocations if any allocation is still live.
func (t *Tracking) Verify() error {
	s := t.Stats()
	if s.Violations != 0 {
		return errors.Wrapf(ErrInvalidDeallocation, "%d rejected deallocations", s.Violations)
	}
	if n := t.Live(); n != 0 {
		return errors.Wrapf(ErrOutstandingAllocations, "%d live", n)
	}
	return nil
}

func typeName(l Layout) string {
	if l.Type == nil {
		return "[]byte"
	}
	return l.Type.String()
}
