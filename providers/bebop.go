package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// bebopChains is the closed set of EVM chains Bebop's RFQ market makers
// quote on (§4.3); edges are same-chain only.
var bebopChains = map[string]string{
	"eip155:1":     "ethereum",
	"eip155:42161": "arbitrum",
	"eip155:8453":  "base",
}

var bebopTokens = map[core.AID]string{
	"eip155:1/slip44:60":                                       "ETH",
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": "USDT",
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "USDC",
}

type bebopQuoteResponse struct {
	BuyTokens map[string]struct {
		Amount string `json:"amount"`
	} `json:"buyTokens"`
	SettlementAddress string `json:"settlementAddress"`
}

// Bebop implements CatalogAdapter for Bebop's RFQ market-maker aggregation
// API, settled through a provider-controlled deposit address (§4.3,
// ServiceCustody).
type Bebop struct {
	baseURL string
}

func NewBebop() *Bebop {
	return &Bebop{baseURL: "https://api.bebop.xyz"}
}

func (b *Bebop) Provider() core.ProviderID { return core.ProviderBebop }

func (b *Bebop) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range bebopTokens {
		for buy := range bebopTokens {
			if sell == buy || sell.ChainID() != buy.ChainID() {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderBebop,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (b *Bebop) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if edge.IsCrossChain() {
		return failedStep(fmt.Errorf("bebop: cross-chain edge unsupported"))
	}
	network, ok := bebopChains[edge.SellChainID]
	if !ok {
		return failedStep(fmt.Errorf("bebop: unsupported network %s", edge.SellChainID))
	}
	sellToken, ok := bebopTokens[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("bebop: unmappable sell asset %s", edge.SellAID))
	}
	buyToken, ok := bebopTokens[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("bebop: unmappable buy asset %s", edge.BuyAID))
	}

	q := url.Values{}
	q.Set("sell_tokens", sellToken)
	q.Set("buy_tokens", buyToken)
	q.Set("sell_amounts", sellBaseUnit.String())
	q.Set("taker_address", userAddr)
	q.Set("receiver_address", receiveAddr)

	var resp bebopQuoteResponse
	if err := getJSON(ctx, defaultTimeout, b.baseURL+"/router/"+network+"/v1/quote?"+q.Encode(), nil, &resp); err != nil {
		return failedStep(err)
	}
	buyResult, ok := resp.BuyTokens[buyToken]
	if !ok {
		return failedStep(fmt.Errorf("bebop: no quote for buy token %s", buyToken))
	}
	out, err := decimal.NewFromString(buyResult.Amount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("bebop: invalid buy amount %q", buyResult.Amount))
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      decimal.Zero,
		EstimatedTimeSeconds: 30,
	}, nil
}
