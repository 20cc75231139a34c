package scope

// requestCache memoizes the per-request lookups of the assertion engine so
// repeated assertions within one request cost one database round-trip per
// distinct id. Grants are assumed immutable within a request; nothing is
// invalidated mid-request.
type requestCache struct {
	shouldLimit  map[int64]bool
	grantedSites map[int64][]int64
	itemSites    map[int64][]int64
	mediaSites   map[int64][]int64
}

func newRequestCache() *requestCache {
	return &requestCache{
		shouldLimit:  make(map[int64]bool),
		grantedSites: make(map[int64][]int64),
		itemSites:    make(map[int64][]int64),
		mediaSites:   make(map[int64][]int64),
	}
}
