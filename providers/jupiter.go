package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// wrappedSolMint is the canonical wrapped-SOL mint address. Jupiter's quote
// API has no notion of the native lamport asset; native SOL (slip44:501) is
// mapped to this mint per the Open Question decision recorded in DESIGN.md.
const wrappedSolMint = "So11111111111111111111111111111111111111112"

var jupiterTokens = map[core.AID]string{
	"solana:101/slip44:501":                                         wrappedSolMint,
	"solana:101/spl:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v":    "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"solana:101/spl:Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB":    "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
}

type jupiterQuoteResponse struct {
	OutAmount   string `json:"outAmount"`
	SlippageBps int    `json:"slippageBps"`
}

// Jupiter implements CatalogAdapter for Jupiter's mesh-based Solana-local
// aggregator API (§4.3).
type Jupiter struct {
	baseURL string
}

func NewJupiter(baseURL string) *Jupiter {
	return &Jupiter{baseURL: baseURL}
}

func (j *Jupiter) Provider() core.ProviderID { return core.ProviderJupiter }

func (j *Jupiter) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var edges []core.RouteEdge
	for sell := range jupiterTokens {
		for buy := range jupiterTokens {
			if sell == buy {
				continue
			}
			edges = append(edges, core.RouteEdge{
				Provider:    core.ProviderJupiter,
				SellAID:     sell,
				BuyAID:      buy,
				SellChainID: sell.ChainID(),
				BuyChainID:  buy.ChainID(),
			})
		}
	}
	return edges, nil
}

func (j *Jupiter) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	if edge.IsCrossChain() {
		return failedStep(fmt.Errorf("jupiter: cross-chain edge unsupported"))
	}
	sellMint, ok := jupiterTokens[edge.SellAID]
	if !ok {
		return failedStep(fmt.Errorf("jupiter: unmappable sell asset %s", edge.SellAID))
	}
	buyMint, ok := jupiterTokens[edge.BuyAID]
	if !ok {
		return failedStep(fmt.Errorf("jupiter: unmappable buy asset %s", edge.BuyAID))
	}

	q := url.Values{}
	q.Set("inputMint", sellMint)
	q.Set("outputMint", buyMint)
	q.Set("amount", sellBaseUnit.String())
	q.Set("swapMode", "ExactIn")

	var resp jupiterQuoteResponse
	if err := getJSON(ctx, defaultTimeout, j.baseURL+"/v6/quote?"+q.Encode(), nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.OutAmount)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("jupiter: invalid outAmount %q", resp.OutAmount))
	}

	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               decimal.Zero,
		SlippagePercent:      decimal.NewFromInt(int64(resp.SlippageBps)).Div(decimal.NewFromInt(100)),
		EstimatedTimeSeconds: 30,
	}, nil
}
