package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestCowSwapListPairsOnlySameChain(t *testing.T) {
	c := NewCowSwap("https://api.cow.fi")
	edges, err := c.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	for _, e := range edges {
		if e.IsCrossChain() {
			t.Fatalf("expected only same-chain edges, got %+v", e)
		}
	}
}

func TestCowSwapQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quote":{"buyAmount":"995000","feeAmount":"5000"}}`))
	}))
	defer srv.Close()

	c := &CowSwap{baseURL: srv.URL}
	edge := core.RouteEdge{
		Provider:    core.ProviderCowSwap,
		SellAID:     "eip155:1/slip44:60",
		BuyAID:      "eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7",
		SellChainID: "eip155:1",
		BuyChainID:  "eip155:1",
	}
	sq, err := c.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "0xuser", "0xreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if !sq.ExpectedBuyBaseUnit.Equal(decimal.NewFromInt(995000)) {
		t.Fatalf("expected buyAmount parsed, got %s", sq.ExpectedBuyBaseUnit.String())
	}
}

func TestCowSwapQuoteStepRejectsCrossChain(t *testing.T) {
	c := NewCowSwap("https://api.cow.fi")
	edge := core.RouteEdge{
		Provider:    core.ProviderCowSwap,
		SellAID:     "eip155:1/slip44:60",
		BuyAID:      "eip155:100/slip44:60",
		SellChainID: "eip155:1",
		BuyChainID:  "eip155:100",
	}
	sq, err := c.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "a", "b")
	if err != nil {
		t.Fatalf("expected failure isolated into step quote: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected failure for a cross-chain edge")
	}
}
