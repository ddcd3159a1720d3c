package strongptr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadOptionalAccess is returned when a disengaged Optional is
	// dereferenced or converted to a Strong.
	ErrBadOptionalAccess = errors.New("strongptr: bad optional pointer access")

	// ErrBadWeakPtr is returned by StrongFromThis when the object is not,
	// or is no longer, owned by a Strong pointer.
	ErrBadWeakPtr = errors.New("strongptr: object is not managed by a strong pointer")

	// ErrNotMember is returned when an aliasing accessor yields a pointer
	// that does not address memory inside the parent object.
	ErrNotMember = errors.New("strongptr: aliased pointer is not a member of its parent")

	// ErrTokenRequired is returned by Token.Check for a token that was not
	// issued by the factory.
	ErrTokenRequired = errors.New("strongptr: construction token not issued by the factory")

	// ErrOutOfMemory is returned by bounded allocators that cannot satisfy a
	// request.
	ErrOutOfMemory = errors.New("strongptr: allocator out of memory")

	// ErrOutstandingAllocations is returned when an allocator is closed or
	// verified while allocations are still live.
	ErrOutstandingAllocations = errors.New("strongptr: allocations still outstanding")

	// ErrInvalidDeallocation is reported for deallocations of unknown
	// pointers or with a size that differs from the allocation.
	ErrInvalidDeallocation = errors.New("strongptr: invalid deallocation")
)

// OutOfRangeError reports an indexed alias outside its sequence.
type OutOfRangeError struct {
	Index    int
	Capacity int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("strongptr: index %d out of range [0, %d)", e.Index, e.Capacity)
}
