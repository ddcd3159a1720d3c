//go:build race

package strongptr

import "sync/atomic"

// Under race detector, disable TSO optimizations and use conservative
// atomic loads
const isTSO = false

// Conservative: atomic counter load to satisfy race detector
//
//go:nosplit
func loadCountRelaxed(c *atomic.Int32) int32 {
	return c.Load()
}
