package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestChainflipListPairsEmitsEveryOrderedPair(t *testing.T) {
	cf := NewChainflip("https://broker.invalid", "")
	edges, err := cf.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	n := len(chainflipAssetMap)
	want := n * (n - 1)
	if len(edges) != want {
		t.Fatalf("expected every ordered distinct pair (%d), got %d", want, len(edges))
	}
}

func TestChainflipQuoteStepAddsAuthHeaderWhenKeySet(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"egressAmount":"990000","estimatedDurationSeconds":120,"recommendedSlippageTolerancePercent":0.3}`))
	}))
	defer srv.Close()

	cf := NewChainflip(srv.URL, "secret-key")
	edge := core.RouteEdge{
		Provider: core.ProviderChainflip,
		SellAID:  "eip155:1/slip44:60",
		BuyAID:   "bip122:000000000019d6689c085ae165831e93/slip44:0",
	}
	sq, err := cf.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "0xuser", "bc1qreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestChainflipQuoteStepFallsBackToEstimatedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"estimatedOutput":"500000"}`))
	}))
	defer srv.Close()

	cf := NewChainflip(srv.URL, "")
	edge := core.RouteEdge{
		Provider: core.ProviderChainflip,
		SellAID:  "eip155:1/slip44:60",
		BuyAID:   "bip122:000000000019d6689c085ae165831e93/slip44:0",
	}
	sq, err := cf.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "0xuser", "bc1qreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success || !sq.ExpectedBuyBaseUnit.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected fallback to estimatedOutput, got %+v", sq)
	}
	if sq.EstimatedTimeSeconds != 600 {
		t.Fatalf("expected default 600s estimate when duration omitted, got %d", sq.EstimatedTimeSeconds)
	}
}
