package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// zrxChains maps a chainId to the 0x API's chainId query parameter and is
// the closed set of networks this adapter quotes.
var zrxChains = map[string]int{
	"eip155:1":     1,
	"eip155:137":   137,
	"eip155:8453":  8453,
	"eip155:42161": 42161,
	"eip155:10":    10,
}

var zrxTokens = map[core.AID]string{
	"eip155:1/slip44:60":                                       "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
}

type zrxQuoteResponse struct {
	BuyAmount string `json:"buyAmount"`
	EstimatedPriceImpact string `json:"estimatedPriceImpact"`
}

// ZeroX implements CatalogAdapter for 0x's mesh-aggregated same-chain EVM
// swap API (§4.3).
type ZeroX struct {
	baseURL string
}

func NewZeroX(baseURL string) *ZeroX {
	return &ZeroX{baseURL: baseURL}
}

func (z *ZeroX) Provider() core.ProviderID { return core.ProviderZeroX }

func (z *ZeroX) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range zrxTokens {
		for buy := range zrxTokens {
			if sell == buy || sell.ChainID() != buy.ChainID() {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderZeroX,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (z *ZeroX) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if edge.IsCrossChain() {
		return failedStep(fmt.Errorf("zerox: cross-chain edge unsupported"))
	}
	chainID, ok := zrxChains[edge.SellChainID]
	if !ok {
		return failedStep(fmt.Errorf("zerox: unsupported chain %s", edge.SellChainID))
	}
	sellToken, ok := zrxTokens[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("zerox: unmappable sell asset %s", edge.SellAID))
	}
	buyToken, ok := zrxTokens[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("zerox: unmappable buy asset %s", edge.BuyAID))
	}

	q := url.Values{}
	q.Set("chainId", fmt.Sprintf("%d", chainID))
	q.Set("sellToken", sellToken)
	q.Set("buyToken", buyToken)
	q.Set("sellAmount", sellBaseUnit.String())
	q.Set("taker", userAddr)

	var resp zrxQuoteResponse
	if err := getJSON(ctx, defaultTimeout, z.baseURL+"/swap/v1/quote?"+q.Encode(), nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.BuyAmount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("zerox: invalid buyAmount %q", resp.BuyAmount))
	}
	impact := decimal.Zero
	if resp.EstimatedPriceImpact != "" {
		if d, err := decimal.NewFromString(resp.EstimatedPriceImpact); err == nil {
			impact = d
		}
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      impact,
		EstimatedTimeSeconds: 60,
	}, nil
}
