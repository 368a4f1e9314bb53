package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// relayNatives is the closed set of native assets Relay bridges between
// chains; the adapter only ever quotes cross-chain edges among these (§4.3).
var relayNatives = map[core.AID]relayAsset{
	"eip155:1/slip44:60":     {ChainID: 1, Currency: "eth"},
	"eip155:137/slip44:60":   {ChainID: 137, Currency: "pol"},
	"eip155:42161/slip44:60": {ChainID: 42161, Currency: "eth"},
	"eip155:10/slip44:60":    {ChainID: 10, Currency: "eth"},
	"eip155:8453/slip44:60":  {ChainID: 8453, Currency: "eth"},
}

type relayAsset struct {
	ChainID  int
	Currency string
}

type relayQuoteRequest struct {
	User            string `json:"user"`
	Recipient       string `json:"recipient"`
	OriginChainId   int    `json:"originChainId"`
	DestinationChainId int `json:"destinationChainId"`
	OriginCurrency  string `json:"originCurrency"`
	DestinationCurrency string `json:"destinationCurrency"`
	Amount          string `json:"amount"`
	TradeType       string `json:"tradeType"`
}

type relayQuoteResponse struct {
	Details struct {
		CurrencyOut struct {
			Amount string `json:"amount"`
		} `json:"currencyOut"`
	} `json:"details"`
	Fees struct {
		Relayer struct {
			AmountUsd string `json:"amountUsd"`
		} `json:"relayer"`
	} `json:"fees"`
}

// Relay implements CatalogAdapter for Relay's cross-chain native-asset
// bridging API (§4.3).
type Relay struct {
	apiURL string
}

func NewRelay(apiURL string) *Relay {
	return &Relay{apiURL: apiURL}
}

func (r *Relay) Provider() core.ProviderID { return core.ProviderRelay }

func (r *Relay) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range relayNatives {
		for buy := range relayNatives {
			if sell == buy || sell.ChainID() == buy.ChainID() {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderRelay,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (r *Relay) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if !edge.IsCrossChain() {
		return failedStep(fmt.Errorf("relay: same-chain edge unsupported"))
	}
	from, ok := relayNatives[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("relay: unmappable sell asset %s", edge.SellAID))
	}
	to, ok := relayNatives[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("relay: unmappable buy asset %s", edge.BuyAID))
	}

	req := relayQuoteRequest{
		User:                userAddr,
		Recipient:           receiveAddr,
		OriginChainId:       from.ChainID,
		DestinationChainId:  to.ChainID,
		OriginCurrency:      from.Currency,
		DestinationCurrency: to.Currency,
		Amount:              sellBaseUnit.String(),
		TradeType:           "EXACT_INPUT",
	}
	var resp relayQuoteResponse
	if err := postJSON(ctx, defaultTimeout, r.apiURL+"/quote", nil, req, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.Details.CurrencyOut.Amount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("relay: invalid currencyOut amount %q", resp.Details.CurrencyOut.Amount))
	}
	feeUSD := decimal.Zero
	if f, err := decimal.NewFromString(resp.Fees.Relayer.AmountUsd); err == nil {
		feeUSD = f
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               feeUSD,
		SlippagePercent:      decimal.Zero,
		EstimatedTimeSeconds: 600,
	}, nil
}
