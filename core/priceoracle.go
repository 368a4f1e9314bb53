package core

import "github.com/shopspring/decimal"

// PriceOracle maps an asset identifier to its USD price (C1). Out of scope
// per §1 ("asset USD price feed… an injected interface"); the aggregator
// treats its absence as informational, never fatal (§7).
type PriceOracle interface {
	// Price returns the current USD price of aid, or false if unknown.
	Price(aid AID) (decimal.Decimal, bool)
}

// StaticPriceOracle is a fixed-table stub useful for tests and local
// development where no live price feed is wired.
type StaticPriceOracle struct {
	prices map[AID]decimal.Decimal
}

// NewStaticPriceOracle returns an oracle backed by the given fixed table.
func NewStaticPriceOracle(prices map[AID]decimal.Decimal) *StaticPriceOracle {
	return &StaticPriceOracle{prices: prices}
}

func (o *StaticPriceOracle) Price(aid AID) (decimal.Decimal, bool) {
	p, ok := o.prices[aid]
	return p, ok
}
