package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// StepQuote is the result of a single provider hop (§3).
type StepQuote struct {
	Success              bool
	SellBaseUnit         decimal.Decimal
	ExpectedBuyBaseUnit  decimal.Decimal
	FeeUSD               decimal.Decimal
	SlippagePercent      decimal.Decimal
	EstimatedTimeSeconds int
	Error                string
}

// CatalogAdapter is implemented once per provider (§4.3). Concrete
// implementations live in the providers package to keep the core package
// free of HTTP/transport concerns; this interface is their contract.
type CatalogAdapter interface {
	// Provider returns the adapter's static identifier.
	Provider() ProviderID
	// ListPairs returns the provider's current set of supported ordered
	// pairs as directed route edges.
	ListPairs(ctx context.Context) ([]RouteEdge, error)
	// QuoteStep performs one HTTP round trip to price a single hop.
	QuoteStep(ctx context.Context, edge RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (StepQuote, error)
}

// AdapterRegistry maps a ProviderID to its adapter (§9: registry over
// switch-by-name). Grounded on the teacher's
// core/cross_chain_agnostic_protocols.go RegisterProtocol/GetProtocol
// pattern, repurposed from a persisted record to an in-memory singleton
// map since adapters are process-local collaborators, not stored data.
type AdapterRegistry struct {
	adapters map[ProviderID]CatalogAdapter
}

// NewAdapterRegistry returns an empty registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[ProviderID]CatalogAdapter)}
}

// Register wires an adapter into the registry, keyed by its own Provider().
func (r *AdapterRegistry) Register(a CatalogAdapter) {
	r.adapters[a.Provider()] = a
}

// Get returns the adapter for p, or false if unregistered.
func (r *AdapterRegistry) Get(p ProviderID) (CatalogAdapter, bool) {
	a, ok := r.adapters[p]
	return a, ok
}

// All returns every registered adapter in Go map iteration order, which is
// randomized; callers requiring determinism sort on ProviderID, as the
// route graph does before assigning edge insertion order.
func (r *AdapterRegistry) All() []CatalogAdapter {
	out := make([]CatalogAdapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}
