//go:build strongptr_opt_cachelinesize_64

package strongptr

// CacheLineSize is fixed at build time with the
// strongptr_opt_cachelinesize_64 tag.
const CacheLineSize = 64
