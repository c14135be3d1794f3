package query

import lru "github.com/hashicorp/golang-lru/v2"

// lookupCache bounds memory for repeat callsign/FRN lookups. Point
// lookups dominate read traffic and the underlying dataset changes at
// most daily, so a modest LRU meaningfully cuts repeat-query latency.
// Entries are invalidated wholesale by
// Engine.InvalidateCache after a successful import rather than aged out,
// since there is no cheaper way to know a row changed.
type lookupCache struct {
	callsigns *lru.Cache[string, *License] // nil value caches a negative lookup
	frns      *lru.Cache[string, []License]
}

func newLookupCache(size int) *lookupCache {
	callsigns, _ := lru.New[string, *License](size)
	frns, _ := lru.New[string, []License](size)
	return &lookupCache{callsigns: callsigns, frns: frns}
}

func (c *lookupCache) purge() {
	c.callsigns.Purge()
	c.frns.Purge()
}
