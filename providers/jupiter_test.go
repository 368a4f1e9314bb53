package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestJupiterListPairsExcludesSelfPairs(t *testing.T) {
	j := NewJupiter("https://quote-api.jup.ag")
	edges, err := j.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	for _, e := range edges {
		if e.SellAID == e.BuyAID {
			t.Fatalf("expected no self-pair edges, got %+v", e)
		}
	}
}

func TestJupiterQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"outAmount":"499000000","slippageBps":50}`))
	}))
	defer srv.Close()

	j := &Jupiter{baseURL: srv.URL}
	edge := core.RouteEdge{
		Provider: core.ProviderJupiter,
		SellAID:  "solana:101/slip44:501",
		BuyAID:   "solana:101/spl:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	}
	sq, err := j.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000000), "sol-user", "sol-receive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if !sq.SlippagePercent.Equal(decimal.NewFromFloat(0.5)) {
		t.Fatalf("expected slippageBps converted to percent, got %s", sq.SlippagePercent.String())
	}
}

func TestJupiterQuoteStepRejectsUnmappableMint(t *testing.T) {
	j := NewJupiter("https://quote-api.jup.ag")
	edge := core.RouteEdge{
		Provider: core.ProviderJupiter,
		SellAID:  "solana:101/spl:unknownmint",
		BuyAID:   "solana:101/slip44:501",
	}
	sq, err := j.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "a", "b")
	if err != nil {
		t.Fatalf("expected failure isolated into step quote: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected failure for an unmappable sell asset")
	}
}
