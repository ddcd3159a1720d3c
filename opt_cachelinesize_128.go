//go:build strongptr_opt_cachelinesize_128

package strongptr

// CacheLineSize is fixed at build time with the
// strongptr_opt_cachelinesize_128 tag (Apple M-series, some POWER parts).
const CacheLineSize = 128
