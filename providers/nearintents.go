package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// nearIntentsTokenIDs maps an AID to the one-click token identifier Near
// Intents' solver network addresses liquidity under. Grounded on the
// AssetToTokenID/SourceTokenID lookup pattern of a one-click SDK integration
// in the example pack.
var nearIntentsTokenIDs = map[core.AID]string{
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48":  "nep141:eth.usdc",
	"eip155:43114/erc20:0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e": "nep141:avax.usdc",
	"eip155:8453/erc20:0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": "nep141:base.usdc",
	"solana:101/spl:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v":  "nep141:sol.usdc",
}

type nearIntentsQuoteRequest struct {
	Dry                bool   `json:"dry"`
	SwapType           string `json:"swapType"`
	SlippageTolerance  int    `json:"slippageTolerance"`
	OriginAsset        string `json:"originAsset"`
	DepositType        string `json:"depositType"`
	DestinationAsset   string `json:"destinationAsset"`
	Amount             string `json:"amount"`
	Recipient          string `json:"recipient"`
	RecipientType      string `json:"recipientType"`
}

type nearIntentsQuoteResponse struct {
	Quote struct {
		AmountOut      string `json:"amountOut"`
		DepositAddress string `json:"depositAddress"`
		TimeEstimate   int    `json:"timeEstimate"`
	} `json:"quote"`
}

// NearIntents implements CatalogAdapter for Near's solver-network, deposit-
// address-based intent settlement (§4.3, ServiceCustody per §4.6): the user
// sends funds to a quote-specific deposit address rather than interacting
// with the destination chain directly.
type NearIntents struct {
	apiURL string
}

func NewNearIntents() *NearIntents {
	return &NearIntents{apiURL: "https://1click.chaindefuser.com/v0"}
}

func (n *NearIntents) Provider() core.ProviderID { return core.ProviderNearIntents }

func (n *NearIntents) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range nearIntentsTokenIDs {
		for buy := range nearIntentsTokenIDs {
			if sell == buy {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderNearIntents,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (n *NearIntents) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	originAsset, ok := nearIntentsTokenIDs[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("nearintents: unsupported origin asset %s", edge.SellAID))
	}
	destAsset, ok := nearIntentsTokenIDs[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("nearintents: unsupported destination asset %s", edge.BuyAID))
	}

	req := nearIntentsQuoteRequest{
		Dry:               false,
		SwapType:          "EXACT_INPUT",
		SlippageTolerance: 100,
		OriginAsset:       originAsset,
		DepositType:       "ORIGIN_CHAIN",
		DestinationAsset:  destAsset,
		Amount:            sellBaseUnit.String(),
		Recipient:         receiveAddr,
		RecipientType:     "DESTINATION_CHAIN",
	}

	var resp nearIntentsQuoteResponse
	if err := postJSON(ctx, defaultTimeout, n.apiURL+"/quote", nil, req, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.Quote.AmountOut)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("nearintents: invalid amountOut %q", resp.Quote.AmountOut))
	}
	if resp.Quote.DepositAddress == "" {
		return failedStep(fmt.Errorf("nearintents: no deposit address returned"))
	}

	timeEstimate := resp.Quote.TimeEstimate
	if timeEstimate == 0 {
		timeEstimate = 900
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      decimal.NewFromInt(1),
		EstimatedTimeSeconds: timeEstimate,
	}, nil
}
