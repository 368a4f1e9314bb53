package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

var portalsNetworks = map[string]string{
	"eip155:1":     "ethereum",
	"eip155:137":   "polygon",
	"eip155:56":    "bsc",
	"eip155:42161": "arbitrum",
	"eip155:10":    "optimism",
	"eip155:8453":  "base",
}

var portalsTokens = map[core.AID]string{
	"eip155:1/slip44:60":                                       "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
}

type portalsQuoteResponse struct {
	OutputAmount string `json:"outputAmount"`
	MinOutputAmount string `json:"minOutputAmount"`
}

// Portals implements CatalogAdapter for Portals' mesh-based same-chain EVM
// token-to-token conversion API (§4.3).
type Portals struct {
	baseURL string
}

func NewPortals(baseURL string) *Portals {
	return &Portals{baseURL: baseURL}
}

func (p *Portals) Provider() core.ProviderID { return core.ProviderPortals }

func (p *Portals) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range portalsTokens {
		for buy := range portalsTokens {
			if sell == buy || sell.ChainID() != buy.ChainID() {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderPortals,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (p *Portals) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if edge.IsCrossChain() {
		return failedStep(fmt.Errorf("portals: cross-chain edge unsupported"))
	}
	network, ok := portalsNetworks[edge.SellChainID]
	if !ok {
		return failedStep(fmt.Errorf("portals: unsupported network %s", edge.SellChainID))
	}
	sellToken, ok := portalsTokens[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("portals: unmappable sell asset %s", edge.SellAID))
	}
	buyToken, ok := portalsTokens[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("portals: unmappable buy asset %s", edge.BuyAID))
	}

	q := url.Values{}
	q.Set("network", network)
	q.Set("inputToken", network+":"+sellToken)
	q.Set("outputToken", network+":"+buyToken)
	q.Set("inputAmount", sellBaseUnit.String())
	q.Set("sender", userAddr)

	var resp portalsQuoteResponse
	if err := getJSON(ctx, defaultTimeout, p.baseURL+"/v2/portal?"+q.Encode(), nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.OutputAmount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("portals: invalid outputAmount %q", resp.OutputAmount))
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      decimal.Zero,
		EstimatedTimeSeconds: 60,
	}, nil
}
