//go:build strongptr_opt_enablepadding

package strongptr

import (
	"sync/atomic"
	"unsafe"
)

// enablePadding is true, the counters of every control block are padded so
// that the managed object following them in the record starts on the next
// cache line. This mitigates false sharing between goroutines that clone and
// release handles and goroutines that write the object. If turned on, each
// record grows by up to CacheLineSize bytes. By default, it is turned off.
const enablePadding = true

// refCounts holds the strong and weak counters of a control block.
type refCounts struct {
	strong atomic.Int32
	weak   atomic.Int32
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		strong, weak int32
	}{})%CacheLineSize) % CacheLineSize]byte
}
