package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// chainflipAssetMap pairs every asset Chainflip's broker quotes with its AID,
// mirroring the small fixed asset set the protocol supports (§4.3: mesh
// protocols advertise a static, API-declared pair list rather than pools).
var chainflipAssetMap = map[core.AID]chainflipAsset{
	"eip155:1/slip44:60":                                       {Chain: "Ethereum", Asset: "ETH"},
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": {Chain: "Ethereum", Asset: "USDT"},
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {Chain: "Ethereum", Asset: "USDC"},
	"bip122:000000000019d6689c085ae165831e93/slip44:0":         {Chain: "Bitcoin", Asset: "BTC"},
	thorchainNativeAID:                                          {Chain: "Thorchain", Asset: "RUNE"},
	"solana:101/slip44:501":                                     {Chain: "Solana", Asset: "SOL"},
}

type chainflipAsset struct {
	Chain string
	Asset string
}

type chainflipQuoteRequest struct {
	SourceAsset      string `json:"sourceAsset"`
	SourceChain      string `json:"sourceChain"`
	DestinationAsset string `json:"destinationAsset"`
	DestinationChain string `json:"destinationChain"`
	Amount           string `json:"amount"`
}

type chainflipQuoteResponse struct {
	EgressAmount     string `json:"egressAmount"`
	EstimatedOutput  string `json:"estimatedOutput"`
	EstimatedTime    int    `json:"estimatedDurationSeconds"`
	RecommendedSlippageTolerancePercent float64 `json:"recommendedSlippageTolerancePercent"`
}

// Chainflip implements CatalogAdapter for the mesh-based Chainflip broker
// API (§4.3). The catalog is the fixed asset map above rather than a
// fetched pool list; ListPairs emits every ordered, distinct pair.
type Chainflip struct {
	apiURL string
	apiKey string
}

func NewChainflip(apiURL, apiKey string) *Chainflip {
	return &Chainflip{apiURL: apiURL, apiKey: apiKey}
}

func (c *Chainflip) Provider() core.ProviderID { return core.ProviderChainflip }

func (c *Chainflip) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range chainflipAssetMap {
		for buy := range chainflipAssetMap {
			if sell == buy {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderChainflip,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (c *Chainflip) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	from, ok := chainflipAssetMap[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("chainflip: unmappable sell asset %s", edge.SellAID))
	}
	to, ok := chainflipAssetMap[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("chainflip: unmappable buy asset %s", edge.BuyAID))
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp chainflipQuoteResponse
	req := chainflipQuoteRequest{
		SourceAsset:      from.Asset,
		SourceChain:      from.Chain,
		DestinationAsset: to.Asset,
		DestinationChain: to.Chain,
		Amount:           sellBaseUnit.String(),
	}
	if err := postJSON(ctx, defaultTimeout, c.apiURL+"/quote", headers, req, &resp); err != nil {
		return failedStep(err)
	}

	outStr := resp.EgressAmount
	if outStr == "" {
		outStr = resp.EstimatedOutput
	}
	out, err := decimal.NewFromString(outStr)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("chainflip: invalid output amount %q", outStr))
	}

	estimatedTime := resp.EstimatedTime
	if estimatedTime == 0 {
		estimatedTime = 600
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      decimal.NewFromFloat(resp.RecommendedSlippageTolerancePercent),
		EstimatedTimeSeconds: estimatedTime,
	}, nil
}
