package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// cowSwapNetworks maps a chainId to the network slug CowSwap's API expects
// in its URL path, and is also the closed set of chains the adapter quotes.
var cowSwapNetworks = map[string]string{
	"eip155:1":     "mainnet",
	"eip155:100":   "xdai",
	"eip155:42161": "arbitrum_one",
}

// cowSwapTokens enumerates the tokens CowSwap quotes per chain, keyed by
// AID, since CowSwap has no public pool-list endpoint to fetch from.
var cowSwapTokens = map[core.AID]string{
	"eip155:1/slip44:60":                                       "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
}

type cowSwapQuoteRequest struct {
	SellToken     string `json:"sellToken"`
	BuyToken      string `json:"buyToken"`
	SellAmountBeforeFee string `json:"sellAmountBeforeFee"`
	From          string `json:"from"`
	Receiver      string `json:"receiver"`
	Kind          string `json:"kind"`
}

type cowSwapQuoteResponse struct {
	Quote struct {
		BuyAmount  string `json:"buyAmount"`
		FeeAmount  string `json:"feeAmount"`
	} `json:"quote"`
}

// CowSwap implements CatalogAdapter for the mesh-based CowSwap batch-auction
// API (§4.3), which trades same-chain EVM assets only.
type CowSwap struct {
	baseURL string
}

func NewCowSwap(baseURL string) *CowSwap {
	return &CowSwap{baseURL: baseURL}
}

func (c *CowSwap) Provider() core.ProviderID { return core.ProviderCowSwap }

func (c *CowSwap) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range cowSwapTokens {
		for buy := range cowSwapTokens {
			if sell == buy || sell.ChainID() != buy.ChainID() {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderCowSwap,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (c *CowSwap) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if edge.IsCrossChain() {
		return failedStep(fmt.Errorf("cowswap: cross-chain edge unsupported"))
	}
	network, ok := cowSwapNetworks[edge.SellChainID]
	if !ok {
		return failedStep(fmt.Errorf("cowswap: unsupported network %s", edge.SellChainID))
	}
	sellToken, ok := cowSwapTokens[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("cowswap: unmappable sell asset %s", edge.SellAID))
	}
	buyToken, ok := cowSwapTokens[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("cowswap: unmappable buy asset %s", edge.BuyAID))
	}

	req := cowSwapQuoteRequest{
		SellToken:           sellToken,
		BuyToken:            buyToken,
		SellAmountBeforeFee: sellBaseUnit.String(),
		From:                userAddr,
		Receiver:            receiveAddr,
		Kind:                "sell",
	}
	url := fmt.Sprintf("%s/%s/api/v1/quote", c.baseURL, network)
	var resp cowSwapQuoteResponse
	if err := postJSON(ctx, cowSwapTimeout, url, nil, req, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.Quote.BuyAmount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("cowswap: invalid buyAmount %q", resp.Quote.BuyAmount))
	}
	feeToken := decimal.Zero
	if f, err := decimal.NewFromString(resp.Quote.FeeAmount); err == nil {
		feeToken = f
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               feeToken,
		SlippagePercent:      decimal.Zero,
		EstimatedTimeSeconds: 120,
	}, nil
}
