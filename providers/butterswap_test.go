package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestButterSwapListPairsIncludesCrossChainEdges(t *testing.T) {
	b := NewButterSwap()
	edges, err := b.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	foundCrossChain := false
	for _, e := range edges {
		if e.IsCrossChain() {
			foundCrossChain = true
			break
		}
	}
	if !foundCrossChain {
		t.Fatalf("expected at least one cross-chain edge among ButterSwap pairs")
	}
}

func TestButterSwapQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"receivedAmount":"940000","routeFeeUsd":"2.1","depositAddress":"0xdepositaddr"}}`))
	}))
	defer srv.Close()

	b := &ButterSwap{baseURL: srv.URL}
	edge := core.RouteEdge{
		Provider:    core.ProviderButterSwap,
		SellAID:     "eip155:1/slip44:60",
		BuyAID:      "eip155:56/slip44:60",
		SellChainID: "eip155:1",
		BuyChainID:  "eip155:56",
	}
	sq, err := b.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "0xuser", "0xreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if sq.EstimatedTimeSeconds != 900 {
		t.Fatalf("expected cross-chain estimate of 900s, got %d", sq.EstimatedTimeSeconds)
	}
}

func TestButterSwapQuoteStepRejectsUnmappableAsset(t *testing.T) {
	b := NewButterSwap()
	edge := core.RouteEdge{Provider: core.ProviderButterSwap, SellAID: core.AID("not-a-butterswap-asset"), BuyAID: "eip155:1/slip44:60"}
	sq, err := b.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "a", "b")
	if err != nil {
		t.Fatalf("expected failure isolated into step quote: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected failure for an unmappable sell asset")
	}
}
