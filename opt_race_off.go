//go:build !race

package strongptr

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Detect TSO architectures; on TSO, plain reads of an aligned int32 are
// never torn and observe some value previously stored
const isTSO = runtime.GOARCH == "amd64" ||
	runtime.GOARCH == "386" ||
	runtime.GOARCH == "s390x"

// loadCountRelaxed reads a reference counter for reporting only
// (UseCount, Expired). The result never gates a lifetime decision.
//
//go:nosplit
func loadCountRelaxed(c *atomic.Int32) int32 {
	//goland:noinspection ALL
	if isTSO {
		return *(*int32)(unsafe.Pointer(c))
	} else {
		return c.Load()
	}
}
