package metrics

import "sync/atomic"

// ResolutionCounters tracks which source satisfied each resolution call.
// Exposed on the health endpoint so an operator can see whether a display
// is living off its cache or hammering upstream sources.
type ResolutionCounters struct {
	cacheHits atomic.Int64
	derived   atomic.Int64
	fetched   atomic.Int64
	fallbacks atomic.Int64
}

func (c *ResolutionCounters) CacheHit() { c.cacheHits.Add(1) }
func (c *ResolutionCounters) Derived()  { c.derived.Add(1) }
func (c *ResolutionCounters) Fetched()  { c.fetched.Add(1) }
func (c *ResolutionCounters) Fallback() { c.fallbacks.Add(1) }

// Snapshot is a point-in-time copy suitable for JSON serialization.
type Snapshot struct {
	CacheHits int64 `json:"cacheHits"`
	Derived   int64 `json:"derived"`
	Fetched   int64 `json:"fetched"`
	Fallbacks int64 `json:"fallbacks"`
}

// Read returns the current counter values.
func (c *ResolutionCounters) Read() Snapshot {
	return Snapshot{
		CacheHits: c.cacheHits.Load(),
		Derived:   c.derived.Load(),
		Fetched:   c.fetched.Load(),
		Fallbacks: c.fallbacks.Load(),
	}
}
