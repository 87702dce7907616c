package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/clock"
)

// DefaultTTL matches the product list/detail cache observed in production.
const DefaultTTL = 5 * time.Minute

type entry struct {
	result   catalog.Result
	inserted time.Time
}

// ResultCache is a read-through cache for Result envelopes with in-flight
// request de-duplication: concurrent callers asking for the same key before
// the first producer resolves all share one producer invocation. The clock is
// injected so expiry is testable.
type ResultCache struct {
	ttl time.Duration
	clk clock.Clock

	mu      sync.Mutex
	entries map[string]entry
	group   *singleflight.Group
	gen     uint64
}

// New creates a cache with the given TTL.
func New(ttl time.Duration, clk clock.Clock) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		clk:     clk,
		entries: make(map[string]entry),
		group:   new(singleflight.Group),
	}
}

// Get returns the cached result for key if present and not expired.
func (c *ResultCache) Get(key string) (catalog.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return catalog.Result{}, false
	}
	if c.clk.Now().Sub(e.inserted) >= c.ttl {
		delete(c.entries, key)
		return catalog.Result{}, false
	}
	return e.result, true
}

// set stores a produced result unless Clear ran after the producer started;
// a fetch that raced an invalidation carries pre-mutation data and must not
// outlive it.
func (c *ResultCache) set(key string, r catalog.Result, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = entry{result: r, inserted: c.clk.Now()}
}

// GetOrFetch returns the cached result for key, or invokes producer at most
// once across all concurrent callers. Only successful results carrying data
// are cached; a failed result reaches every waiter uncached.
func (c *ResultCache) GetOrFetch(key string, producer func() catalog.Result) catalog.Result {
	if r, ok := c.Get(key); ok {
		return r
	}

	c.mu.Lock()
	group := c.group
	gen := c.gen
	c.mu.Unlock()

	v, _, _ := group.Do(key, func() (any, error) {
		// Re-check after winning the flight: another caller may have
		// populated the entry between our miss and now.
		if r, ok := c.Get(key); ok {
			return r, nil
		}
		r := producer()
		if r.Success && r.Data != nil {
			c.set(key, r, gen)
		}
		return r, nil
	})
	return v.(catalog.Result)
}

// Clear drops every cached entry and detaches pending flights so fresh
// callers trigger an uncached refetch; the generation bump keeps producers
// already in flight from writing their stale result into the fresh map.
// Invoked on any successful mutation.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.group = new(singleflight.Group)
	c.gen++
}
