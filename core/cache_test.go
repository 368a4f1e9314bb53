package core

import (
	"testing"
	"time"
)

func TestRouteCacheGetSetMiss(t *testing.T) {
	c := NewRouteCache()
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Set("k", "v", time.Minute)
	v, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if v.(string) != "v" {
		t.Fatalf("expected v, got %v", v)
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRouteCacheExpiry(t *testing.T) {
	c := NewRouteCache()
	c.Set("k", "v", time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Stats().Evictions != 1 {
		t.Fatalf("expected lazy eviction on expired access")
	}
}

func TestRouteCacheClearPreservesStats(t *testing.T) {
	c := NewRouteCache()
	c.Set("k", "v", time.Minute)
	c.Get("k")
	c.Clear()
	if c.Has("k") {
		t.Fatalf("expected cache to be empty after Clear")
	}
	if c.Stats().Hits != 1 {
		t.Fatalf("expected Clear to preserve accumulated stats")
	}
}

func TestPathCacheKeyVariesWithConstraints(t *testing.T) {
	sell, buy := AID("a"), AID("b")
	k1 := PathCacheKey(sell, buy, 4, 2, nil, nil)
	k2 := PathCacheKey(sell, buy, 4, 2, []ProviderID{ProviderThorchain}, nil)
	if k1 == k2 {
		t.Fatalf("expected different allowed-provider lists to produce distinct keys")
	}
}
