package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultCacheTTL = 30 * time.Second

// cacheEntry pairs a cached value with its expiry instant (§3).
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func (e cacheEntry) valid(now time.Time) bool { return now.Before(e.expiresAt) || now.Equal(e.expiresAt) }

// CacheStats are monotone counters; Clear never resets them (§4.2).
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Sets      uint64
	Evictions uint64
}

// RouteCache is a string-keyed TTL map shared by the graph, pathfinder and
// aggregator. Grounded on the teacher's read-model snapshot pattern in
// core/liquidity_views.go, generalized from pool snapshots to arbitrary
// cached values.
type RouteCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	stats CacheStats
}

// NewRouteCache returns an empty cache.
func NewRouteCache() *RouteCache {
	return &RouteCache{items: make(map[string]cacheEntry)}
}

// Get returns the cached value for k if present and unexpired. Expired
// entries are lazily evicted on access.
func (c *RouteCache) Get(k string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[k]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	now := time.Now()
	if !e.valid(now) {
		delete(c.items, k)
		c.stats.Evictions++
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.value, true
}

// Set stores v under k with the given TTL (defaultCacheTTL if ttl <= 0).
func (c *RouteCache) Set(k string, v any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[k] = cacheEntry{value: v, expiresAt: time.Now().Add(ttl)}
	c.stats.Sets++
}

// Has reports presence without counting a hit/miss.
func (c *RouteCache) Has(k string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[k]
	return ok && e.valid(time.Now())
}

// Delete removes k unconditionally.
func (c *RouteCache) Delete(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, k)
}

// Clear empties the cache without touching the statistics counters.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheEntry)
}

// EvictExpired removes all expired entries and returns the count removed.
func (c *RouteCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	n := 0
	for k, e := range c.items {
		if !e.valid(now) {
			delete(c.items, k)
			n++
		}
	}
	c.stats.Evictions += uint64(n)
	return n
}

// Stats returns a copy of the current monotone counters.
func (c *RouteCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Key builders (§4.2).

func RouteCacheKey(sell, buy AID) string {
	return fmt.Sprintf("route:%s:%s", sell, buy)
}

func QuoteCacheKey(sell, buy AID, amountBaseUnit string) string {
	return fmt.Sprintf("quote:%s:%s:%s", sell, buy, amountBaseUnit)
}

func PathCacheKey(sell, buy AID, maxHops, maxXChain int, allowed, excluded []ProviderID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "path:%s:%s:h%d:x%d", sell, buy, maxHops, maxXChain)
	if len(allowed) > 0 {
		b.WriteString(":a")
		b.WriteString(sortedProviderList(allowed))
	}
	if len(excluded) > 0 {
		b.WriteString(":e")
		b.WriteString(sortedProviderList(excluded))
	}
	return b.String()
}

func sortedProviderList(ps []ProviderID) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
