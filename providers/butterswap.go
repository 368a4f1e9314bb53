package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// butterSwapAssets is the closed set of assets ButterSwap's relay network
// bridges, keyed by AID to its internal chain/token identifiers.
var butterSwapAssets = map[core.AID]butterSwapAsset{
	"eip155:1/slip44:60":     {ChainID: "1", Token: "0x0000000000000000000000000000000000000000"},
	"eip155:56/slip44:60":    {ChainID: "56", Token: "0x0000000000000000000000000000000000000000"},
	"eip155:137/slip44:60":   {ChainID: "137", Token: "0x0000000000000000000000000000000000000000"},
	"eip155:42161/slip44:60": {ChainID: "42161", Token: "0x0000000000000000000000000000000000000000"},
}

type butterSwapAsset struct {
	ChainID string
	Token   string
}

type butterSwapQuoteResponse struct {
	Data struct {
		ReceivedAmount string `json:"receivedAmount"`
		RouteFeeUSD    string `json:"routeFeeUsd"`
		DepositAddress string `json:"depositAddress"`
	} `json:"data"`
}

// ButterSwap implements CatalogAdapter for ButterSwap's relay-based,
// deposit-address-settled cross-chain swaps (§4.3, ServiceCustody).
type ButterSwap struct {
	baseURL string
}

func NewButterSwap() *ButterSwap {
	return &ButterSwap{baseURL: "https://bs-routeapi.butternetwork.io/api"}
}

func (b *ButterSwap) Provider() core.ProviderID { return core.ProviderButterSwap }

func (b *ButterSwap) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range butterSwapAssets {
		for buy := range butterSwapAssets {
			if sell == buy {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderButterSwap,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (b *ButterSwap) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	from, ok := butterSwapAssets[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("butterswap: unmappable sell asset %s", edge.SellAID))
	}
	to, ok := butterSwapAssets[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("butterswap: unmappable buy asset %s", edge.BuyAID))
	}

	q := url.Values{}
	q.Set("fromChainId", from.ChainID)
	q.Set("toChainId", to.ChainID)
	q.Set("fromTokenAddress", from.Token)
	q.Set("toTokenAddress", to.Token)
	q.Set("amount", sellBaseUnit.String())
	q.Set("receiver", receiveAddr)

	var resp butterSwapQuoteResponse
	if err := getJSON(ctx, defaultTimeout, b.baseURL+"/route?"+q.Encode(), nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.Data.ReceivedAmount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("butterswap: invalid receivedAmount %q", resp.Data.ReceivedAmount))
	}
	feeUSD := decimal.Zero
	if f, err := decimal.NewFromString(resp.Data.RouteFeeUSD); err == nil {
		feeUSD = f
	}

	estimatedTime := 60
	if edge.IsCrossChain() {
		estimatedTime = 900
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               feeUSD,
		SlippagePercent:      decimal.Zero,
		EstimatedTimeSeconds: estimatedTime,
	}, nil
}
