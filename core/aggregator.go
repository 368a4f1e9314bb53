package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	priceImpactWarnPercent = 2
	priceImpactFlagPercent = 5
	aggregatorQuoteTTL     = 30 * time.Second
	maxAlternatives        = 3
)

// MultiStepRoute is the aggregated result of chaining a FoundPath's edges
// (§3/§4.6).
type MultiStepRoute struct {
	TotalSteps               int
	EstimatedOutputBaseUnit  string
	EstimatedOutputPrecision string
	TotalFeesUSD             decimal.Decimal
	TotalSlippagePercent     decimal.Decimal
	EstimatedTimeSeconds     int
	Steps                    []StepQuote
	PriceImpactPercent       *decimal.Decimal
	Warning                  string
}

// Aggregator implements C6: sequential per-step quote chaining, price
// impact, and the top-level getMultiStepQuote composition. Grounded on the
// teacher's core/liquidity_pools.go Swap method: a single sequential
// compute-and-accumulate body, adapted from one AMM swap step to a chain
// of adapter calls.
type Aggregator struct {
	registry *AdapterRegistry
	oracle   PriceOracle
	cache    *RouteCache
}

// NewAggregator wires the adapters, price oracle, and cache the aggregator
// depends on.
func NewAggregator(registry *AdapterRegistry, oracle PriceOracle, cache *RouteCache) *Aggregator {
	return &Aggregator{registry: registry, oracle: oracle, cache: cache}
}

// Aggregate composes a FoundPath into a priced MultiStepRoute by chaining
// per-hop quotes strictly sequentially (chaining invariant, §4.6/§5).
func (a *Aggregator) Aggregate(ctx context.Context, path FoundPath, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (*MultiStepRoute, error) {
	if sellBaseUnit.Sign() <= 0 {
		return nil, NewError(KindValidation, "sellBaseUnit must be positive")
	}
	if len(path.Edges) == 0 {
		return nil, NewError(KindValidation, "path has no edges")
	}

	current := sellBaseUnit
	steps := make([]StepQuote, 0, len(path.Edges))
	totalFees := decimal.Zero
	totalSlippage := decimal.Zero
	totalTime := 0

	for i, edge := range path.Edges {
		adapter, ok := a.registry.Get(edge.Provider)
		if !ok {
			return nil, WrapError(KindQuoteFailed, "no adapter registered for provider "+string(edge.Provider), nil)
		}
		recv := userAddr
		if i == len(path.Edges)-1 {
			recv = receiveAddr
		}
		sq, err := adapter.QuoteStep(ctx, edge, current, userAddr, recv)
		if err != nil || !sq.Success || sq.ExpectedBuyBaseUnit.Sign() == 0 {
			return nil, NewError(KindQuoteFailed, "step "+string(edge.Provider)+" failed")
		}
		steps = append(steps, sq)
		current = sq.ExpectedBuyBaseUnit
		totalFees = totalFees.Add(sq.FeeUSD)
		totalSlippage = totalSlippage.Add(sq.SlippagePercent)
		totalTime += sq.EstimatedTimeSeconds
	}

	finalBuy := path.Edges[len(path.Edges)-1].BuyAID
	precision := Precision(finalBuy)
	precisionAmount := current.Shift(int32(-precision))

	route := &MultiStepRoute{
		TotalSteps:               len(steps),
		EstimatedOutputBaseUnit:  current.String(),
		EstimatedOutputPrecision: precisionAmount.String(),
		TotalFeesUSD:             totalFees,
		TotalSlippagePercent:     totalSlippage,
		EstimatedTimeSeconds:     totalTime,
		Steps:                    steps,
	}

	a.applyPriceImpact(route, path.Edges[0].SellAID, finalBuy, sellBaseUnit, current)

	key := QuoteCacheKey(path.Edges[0].SellAID, finalBuy, sellBaseUnit.String())
	a.cache.Set(key, route, aggregatorQuoteTTL)
	return route, nil
}

// applyPriceImpact computes the route-level price impact via the price
// oracle (§4.6 step 4). An unavailable price never fails the route.
func (a *Aggregator) applyPriceImpact(route *MultiStepRoute, sellAID, buyAID AID, sellAmount, buyAmount decimal.Decimal) {
	if a.oracle == nil {
		return
	}
	sellPrice, ok1 := a.oracle.Price(sellAID)
	buyPrice, ok2 := a.oracle.Price(buyAID)
	if !ok1 || !ok2 {
		return
	}
	inputUSD := sellAmount.Mul(sellPrice)
	outputUSD := buyAmount.Mul(buyPrice)
	if inputUSD.Sign() == 0 {
		return
	}
	impact := inputUSD.Sub(outputUSD).Div(inputUSD).Mul(decimal.NewFromInt(100))
	route.PriceImpactPercent = &impact
	if impact.GreaterThan(decimal.NewFromInt(priceImpactFlagPercent)) {
		route.Warning = "high price impact"
	} else if impact.GreaterThan(decimal.NewFromInt(priceImpactWarnPercent)) {
		route.Warning = "elevated price impact"
	}
}

// MultiStepQuoteResult is the top-level response of getMultiStepQuote.
type MultiStepQuoteResult struct {
	Success           bool
	Route             *MultiStepRoute
	AlternativeRoutes []*MultiStepRoute
	ExpiresAt         time.Time
	Error             string
}

// GetMultiStepQuote composes pathfinder -> aggregator -> alternatives
// (§4.6). Failures discovering alternatives never fail the primary route.
func GetMultiStepQuote(ctx context.Context, pf *Pathfinder, agg *Aggregator, sell, buy AID, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string, c Constraints) MultiStepQuoteResult {
	path, err := pf.Find(sell, buy, c)
	if err != nil {
		kind, _ := KindOf(err)
		return MultiStepQuoteResult{Success: false, Error: string(kind)}
	}

	route, err := agg.Aggregate(ctx, path, sellBaseUnit, userAddr, receiveAddr)
	if err != nil {
		kind, _ := KindOf(err)
		return MultiStepQuoteResult{Success: false, Error: string(kind)}
	}

	result := MultiStepQuoteResult{
		Success:   true,
		Route:     route,
		ExpiresAt: time.Now().Add(aggregatorQuoteTTL),
	}

	for _, altPath := range pf.FindAlternatives(sell, buy, c, maxAlternatives) {
		altRoute, err := agg.Aggregate(ctx, altPath, sellBaseUnit, userAddr, receiveAddr)
		if err != nil {
			continue
		}
		result.AlternativeRoutes = append(result.AlternativeRoutes, altRoute)
	}
	return result
}
