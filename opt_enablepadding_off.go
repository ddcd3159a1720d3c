//go:build !strongptr_opt_enablepadding

package strongptr

import "sync/atomic"

// enablePadding reports whether refCounts is padded to a cache line.
const enablePadding = false

// refCounts holds the strong and weak counters of a control block.
type refCounts struct {
	strong atomic.Int32
	weak   atomic.Int32
}
