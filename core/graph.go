package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GraphStats records the observable bookkeeping named in §4.4.
type GraphStats struct {
	EdgesByProvider  map[ProviderID]int
	CrossChainEdges  int
	BuildDuration    time.Duration
	LastBuildAt      time.Time
}

// assetGraph is the immutable snapshot swapped in atomically by rebuild().
type assetGraph struct {
	// edges preserves global insertion order for the pathfinder's
	// stable tie-breaking rule (§4.5).
	edges   []RouteEdge
	seen    map[[3]string]struct{}
	out     map[AID][]int // asset -> indices into edges, in insertion order
	nodes   map[AID]struct{}
	stats   GraphStats
}

func newAssetGraph() *assetGraph {
	return &assetGraph{
		seen:  make(map[[3]string]struct{}),
		out:   make(map[AID][]int),
		nodes: make(map[AID]struct{}),
	}
}

func (g *assetGraph) insert(e RouteEdge) {
	t := e.triple()
	if _, dup := g.seen[t]; dup {
		return
	}
	g.seen[t] = struct{}{}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.SellAID] = append(g.out[e.SellAID], idx)
	g.nodes[e.SellAID] = struct{}{}
	g.nodes[e.BuyAID] = struct{}{}
	g.stats.EdgesByProvider[e.Provider]++
	if e.IsCrossChain() {
		g.stats.CrossChainEdges++
	}
}

// RouteGraph is the singleton directed multigraph of assets and provider
// edges (C4). Grounded on the teacher's core/liquidity_pools.go AMM
// singleton (sync.Once init, RWMutex-guarded map, Manager() accessor)
// generalized from a pool map to an edge adjacency map.
type RouteGraph struct {
	mu       sync.RWMutex
	current  *assetGraph
	registry *AdapterRegistry
	cache    *RouteCache
	logger   *zap.SugaredLogger
}

// NewRouteGraph wires a graph to the adapter registry it rebuilds from and
// the cache it clears on every successful swap.
func NewRouteGraph(registry *AdapterRegistry, cache *RouteCache) *RouteGraph {
	g := &RouteGraph{
		registry: registry,
		cache:    cache,
		logger:   zap.L().Sugar(),
	}
	empty := newAssetGraph()
	empty.stats.EdgesByProvider = make(map[ProviderID]int)
	g.current = empty
	return g
}

func (g *RouteGraph) snapshot() *assetGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// HasAsset reports whether a appears in the current graph.
func (g *RouteGraph) HasAsset(a AID) bool {
	s := g.snapshot()
	_, ok := s.nodes[a]
	return ok
}

// HasRoutesFrom reports whether any edge originates at a.
func (g *RouteGraph) HasRoutesFrom(a AID) bool {
	s := g.snapshot()
	return len(s.out[a]) > 0
}

// HasRoutesTo reports whether any edge terminates at b.
func (g *RouteGraph) HasRoutesTo(b AID) bool {
	s := g.snapshot()
	for _, e := range s.edges {
		if e.BuyAID == b {
			return true
		}
	}
	return false
}

// DirectRoutes returns every edge a->b, in insertion order.
func (g *RouteGraph) DirectRoutes(a, b AID) []RouteEdge {
	s := g.snapshot()
	var out []RouteEdge
	for _, idx := range s.out[a] {
		if s.edges[idx].BuyAID == b {
			out = append(out, s.edges[idx])
		}
	}
	return out
}

// Outgoing returns every edge leaving a, in insertion order.
func (g *RouteGraph) Outgoing(a AID) []RouteEdge {
	s := g.snapshot()
	out := make([]RouteEdge, 0, len(s.out[a]))
	for _, idx := range s.out[a] {
		out = append(out, s.edges[idx])
	}
	return out
}

// Stats returns the current graph's build bookkeeping.
func (g *RouteGraph) Stats() GraphStats {
	return g.snapshot().stats
}

// Rebuild invokes every adapter's ListPairs concurrently (per-adapter
// failure isolation), assembles a fresh graph off to the side, and
// atomically swaps it in. A failing initial build leaves the graph empty
// but never aborts the process (§4.4).
func (g *RouteGraph) Rebuild(ctx context.Context) error {
	start := time.Now()
	adapters := g.registry.All()
	sort.Slice(adapters, func(i, j int) bool { return adapters[i].Provider() < adapters[j].Provider() })

	type result struct {
		edges []RouteEdge
		err   error
	}
	results := make([]result, len(adapters))
	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a CatalogAdapter) {
			defer wg.Done()
			edges, err := a.ListPairs(ctx)
			results[i] = result{edges: edges, err: err}
		}(i, a)
	}
	wg.Wait()

	fresh := newAssetGraph()
	fresh.stats.EdgesByProvider = make(map[ProviderID]int)
	for i, a := range adapters {
		r := results[i]
		if r.err != nil {
			g.logger.Warnf("adapter %s listPairs failed: %v", a.Provider(), r.err)
			continue
		}
		for _, e := range r.edges {
			fresh.insert(e)
		}
	}
	fresh.stats.BuildDuration = time.Since(start)
	fresh.stats.LastBuildAt = time.Now().UTC()

	g.mu.Lock()
	g.current = fresh
	g.mu.Unlock()

	g.cache.Clear()
	g.logger.Infof("route graph rebuilt: %d edges, %d cross-chain, took %s",
		len(fresh.edges), fresh.stats.CrossChainEdges, fresh.stats.BuildDuration)
	return nil
}
