package core

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRouteGraphRebuildStatsAndClearsCache(t *testing.T) {
	zerox := &fakeAdapter{
		id:   ProviderZeroX,
		rate: decimal.NewFromFloat(0.5),
		edges: []RouteEdge{
			{Provider: ProviderZeroX, SellAID: aidETH, BuyAID: aidUSDT, SellChainID: "eip155:1", BuyChainID: "eip155:1"},
		},
	}
	thor := &fakeAdapter{
		id:   ProviderThorchain,
		rate: decimal.NewFromFloat(0.2),
		edges: []RouteEdge{
			{Provider: ProviderThorchain, SellAID: aidUSDT, BuyAID: aidBTC, SellChainID: "eip155:1", BuyChainID: "bip122:000000000019d6689c085ae165831e93"},
		},
	}
	registry := NewAdapterRegistry()
	registry.Register(zerox)
	registry.Register(thor)
	cache := NewRouteCache()
	cache.Set("stale", "value", 0)

	graph := NewRouteGraph(registry, cache)
	if err := graph.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if !graph.HasAsset(aidETH) || !graph.HasAsset(aidBTC) {
		t.Fatalf("expected both endpoints to be present in the graph")
	}
	if !graph.HasRoutesFrom(aidETH) {
		t.Fatalf("expected an outgoing route from aidETH")
	}
	if !graph.HasRoutesTo(aidBTC) {
		t.Fatalf("expected an incoming route to aidBTC")
	}
	if cache.Has("stale") {
		t.Fatalf("expected Rebuild to clear the shared cache")
	}

	stats := graph.Stats()
	if stats.CrossChainEdges != 1 {
		t.Fatalf("expected 1 cross-chain edge, got %d", stats.CrossChainEdges)
	}
	if stats.EdgesByProvider[ProviderZeroX] != 1 || stats.EdgesByProvider[ProviderThorchain] != 1 {
		t.Fatalf("expected 1 edge per provider, got %+v", stats.EdgesByProvider)
	}
}

func TestRouteGraphIgnoresDuplicateEdges(t *testing.T) {
	edge := RouteEdge{Provider: ProviderZeroX, SellAID: aidETH, BuyAID: aidUSDT, SellChainID: "eip155:1", BuyChainID: "eip155:1"}
	dup := &fakeAdapter{id: ProviderZeroX, edges: []RouteEdge{edge, edge}}
	registry := NewAdapterRegistry()
	registry.Register(dup)
	cache := NewRouteCache()
	graph := NewRouteGraph(registry, cache)
	if err := graph.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if len(graph.Outgoing(aidETH)) != 1 {
		t.Fatalf("expected duplicate edges to be deduplicated, got %d", len(graph.Outgoing(aidETH)))
	}
}
