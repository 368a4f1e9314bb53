package core

import (
	"container/heap"
)

// Constraints bounds a pathfinding request (§4.5).
type Constraints struct {
	MaxHops           int
	MaxCrossChainHops int
	AllowedProviders  []ProviderID
	ExcludedProviders []ProviderID
}

// DefaultConstraints mirrors the spec's defaults.
func DefaultConstraints() Constraints {
	return Constraints{MaxHops: 4, MaxCrossChainHops: 2}
}

// FoundPath is a simple sequence of assets and the edges connecting them
// (§3). Invariant P1 is enforced by construction in every code path below.
type FoundPath struct {
	AssetIDs           []AID
	Edges              []RouteEdge
	HopCount           int
	CrossChainHopCount int
}

func buildFoundPath(edges []RouteEdge) FoundPath {
	ids := make([]AID, 0, len(edges)+1)
	ids = append(ids, edges[0].SellAID)
	xchain := 0
	for _, e := range edges {
		ids = append(ids, e.BuyAID)
		if e.IsCrossChain() {
			xchain++
		}
	}
	return FoundPath{AssetIDs: ids, Edges: edges, HopCount: len(edges), CrossChainHopCount: xchain}
}

func isSimple(ids []AID) bool {
	seen := make(map[AID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

func allowSet(list []ProviderID) map[ProviderID]struct{} {
	if len(list) == 0 {
		return nil
	}
	m := make(map[ProviderID]struct{}, len(list))
	for _, p := range list {
		m[p] = struct{}{}
	}
	return m
}

// edgeWeight implements the weight function of §4.5. blocked additionally
// infinites-out edges removed for alternative-route discovery.
func edgeWeight(e RouteEdge, allowed, excluded map[ProviderID]struct{}, blocked map[[3]string]struct{}) (float64, bool) {
	if _, ok := blocked[e.triple()]; ok {
		return 0, false
	}
	if _, ok := excluded[e.Provider]; ok {
		return 0, false
	}
	if allowed != nil {
		if _, ok := allowed[e.Provider]; !ok {
			return 0, false
		}
	}
	w := 1.0
	if e.IsCrossChain() {
		w += 2
	}
	return w, true
}

type pqItem struct {
	asset AID
	dist  float64
	seq   int // insertion order of the edge that reached this node, for stable tie-breaking
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// Pathfinder runs weighted shortest-path searches over a RouteGraph (C5).
// Grounded on the standard container/heap priority-search idiom the corpus
// uses elsewhere for scheduling; the graph itself is an adjacency map
// rather than a dedicated graph library, per §9's own design note.
type Pathfinder struct {
	graph *RouteGraph
	cache *RouteCache
}

// NewPathfinder wires a pathfinder to the graph it searches and the cache
// it stores results in.
func NewPathfinder(graph *RouteGraph, cache *RouteCache) *Pathfinder {
	return &Pathfinder{graph: graph, cache: cache}
}

// Find resolves (sell, buy, constraints) to a FoundPath, or a typed error
// from §4.5's failure-kind set.
func (pf *Pathfinder) Find(sell, buy AID, c Constraints) (FoundPath, error) {
	if c.MaxHops <= 0 {
		c.MaxHops = 4
	}
	if c.MaxCrossChainHops < 0 {
		c.MaxCrossChainHops = 2
	}

	key := PathCacheKey(sell, buy, c.MaxHops, c.MaxCrossChainHops, c.AllowedProviders, c.ExcludedProviders)
	if cached, ok := pf.cache.Get(key); ok {
		return cached.(FoundPath), nil
	}

	if !pf.graph.HasAsset(sell) || !pf.graph.HasAsset(buy) {
		return FoundPath{}, NewError(KindAssetUnknown, string(sell)+" or "+string(buy))
	}

	if fp, ok := pf.fastPath(sell, buy, c); ok {
		pf.cache.Set(key, fp, defaultCacheTTL)
		return fp, nil
	}

	fp, err := pf.shortestPath(sell, buy, c, nil)
	if err != nil {
		return FoundPath{}, err
	}
	if err := pf.postValidate(fp, c); err != nil {
		return FoundPath{}, err
	}
	pf.cache.Set(key, fp, defaultCacheTTL)
	return fp, nil
}

// fastPath implements §4.5's direct-edge shortcut: prefer a same-chain
// direct edge, then a cross-chain direct edge, both subject to constraints.
func (pf *Pathfinder) fastPath(sell, buy AID, c Constraints) (FoundPath, bool) {
	direct := pf.graph.DirectRoutes(sell, buy)
	if len(direct) == 0 {
		return FoundPath{}, false
	}
	allowed, excluded := allowSet(c.AllowedProviders), allowSet(c.ExcludedProviders)

	var crossChainCandidate *RouteEdge
	for i := range direct {
		e := direct[i]
		if _, ok := edgeWeight(e, allowed, excluded, nil); !ok {
			continue
		}
		if !e.IsCrossChain() {
			return buildFoundPath([]RouteEdge{e}), true
		}
		if crossChainCandidate == nil {
			crossChainCandidate = &direct[i]
		}
	}
	if crossChainCandidate != nil && c.MaxCrossChainHops >= 1 {
		return buildFoundPath([]RouteEdge{*crossChainCandidate}), true
	}
	return FoundPath{}, false
}

// shortestPath runs Dijkstra over the graph snapshot with the §4.5 weight
// function, honoring blocked edges for alternative-route discovery.
func (pf *Pathfinder) shortestPath(sell, buy AID, c Constraints, blocked map[[3]string]struct{}) (FoundPath, error) {
	g := pf.graph.snapshot()
	allowed, excluded := allowSet(c.AllowedProviders), allowSet(c.ExcludedProviders)

	dist := map[AID]float64{sell: 0}
	prevEdge := map[AID]int{} // asset -> edge index used to reach it
	hasPrev := map[AID]bool{}
	visited := map[AID]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{asset: sell, dist: 0, seq: -1})
	seq := 0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.asset] {
			continue
		}
		visited[cur.asset] = true
		if cur.asset == buy {
			break
		}
		for _, idx := range g.out[cur.asset] {
			e := g.edges[idx]
			w, ok := edgeWeight(e, allowed, excluded, blocked)
			if !ok {
				continue
			}
			nd := cur.dist + w
			if d, seen := dist[e.BuyAID]; !seen || nd < d {
				dist[e.BuyAID] = nd
				prevEdge[e.BuyAID] = idx
				hasPrev[e.BuyAID] = true
				seq++
				heap.Push(pq, &pqItem{asset: e.BuyAID, dist: nd, seq: seq})
			}
		}
	}

	if !hasPrev[buy] && sell != buy {
		return FoundPath{}, NewError(KindNoRoute, string(sell)+"->"+string(buy))
	}

	// walk back from buy to sell collecting edges, then reverse.
	var edges []RouteEdge
	node := buy
	for node != sell {
		idx, ok := prevEdge[node]
		if !ok {
			return FoundPath{}, NewError(KindNoRoute, string(sell)+"->"+string(buy))
		}
		e := g.edges[idx]
		edges = append(edges, e)
		node = e.SellAID
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	if len(edges) == 0 {
		return FoundPath{}, NewError(KindNoRoute, string(sell)+"->"+string(buy))
	}
	return buildFoundPath(edges), nil
}

func (pf *Pathfinder) postValidate(fp FoundPath, c Constraints) error {
	if fp.HopCount > c.MaxHops {
		return NewError(KindMaxHopsExceeded, "hop count exceeds limit")
	}
	if fp.CrossChainHopCount > c.MaxCrossChainHops {
		return NewError(KindMaxXChainExceeded, "cross-chain hop count exceeds limit")
	}
	excluded := allowSet(c.ExcludedProviders)
	allowed := allowSet(c.AllowedProviders)
	for _, e := range fp.Edges {
		if _, ok := excluded[e.Provider]; ok {
			return NewError(KindProviderDisallowed, string(e.Provider))
		}
		if allowed != nil {
			if _, ok := allowed[e.Provider]; !ok {
				return NewError(KindProviderDisallowed, string(e.Provider))
			}
		}
	}
	if !isSimple(fp.AssetIDs) {
		return NewError(KindCircular, "path revisits an asset")
	}
	return nil
}

// pathSignature is the uniqueness key for alternative routes: asset
// sequence concatenated with provider sequence (§4.5).
func pathSignature(fp FoundPath) string {
	s := ""
	for _, id := range fp.AssetIDs {
		s += string(id) + ">"
	}
	s += "|"
	for _, e := range fp.Edges {
		s += string(e.Provider) + ">"
	}
	return s
}

// FindAlternatives iteratively blocks edges of previously found paths and
// re-runs the search, collecting up to k distinct paths sorted by hop
// count then cross-chain hop count (§4.5).
func (pf *Pathfinder) FindAlternatives(sell, buy AID, c Constraints, k int) []FoundPath {
	primary, err := pf.Find(sell, buy, c)
	if err != nil {
		return nil
	}
	seen := map[string]struct{}{pathSignature(primary): {}}
	alternatives := []FoundPath{primary}
	blocked := map[[3]string]struct{}{}

	for len(alternatives) < k+1 {
		last := alternatives[len(alternatives)-1]
		if len(last.Edges) == 0 {
			break
		}
		for _, e := range last.Edges {
			blocked[e.triple()] = struct{}{}
		}
		fp, err := pf.shortestPath(sell, buy, c, blocked)
		if err != nil {
			break
		}
		if err := pf.postValidate(fp, c); err != nil {
			break
		}
		sig := pathSignature(fp)
		if _, dup := seen[sig]; dup {
			break
		}
		seen[sig] = struct{}{}
		alternatives = append(alternatives, fp)
	}

	out := alternatives[1:]
	sortPaths(out)
	return out
}

func sortPaths(paths []FoundPath) {
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0; j-- {
			a, b := paths[j-1], paths[j]
			if a.HopCount > b.HopCount || (a.HopCount == b.HopCount && a.CrossChainHopCount > b.CrossChainHopCount) {
				paths[j-1], paths[j] = paths[j], paths[j-1]
			} else {
				break
			}
		}
	}
}
