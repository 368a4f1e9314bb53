package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestNearIntentsQuoteStepRequiresDepositAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quote":{"amountOut":"1000000","depositAddress":""}}`))
	}))
	defer srv.Close()

	n := &NearIntents{apiURL: srv.URL}
	var sell, buy core.AID
	for aid := range nearIntentsTokenIDs {
		if sell == "" {
			sell = aid
			continue
		}
		buy = aid
		break
	}
	edge := core.RouteEdge{Provider: core.ProviderNearIntents, SellAID: sell, BuyAID: buy}
	sq, err := n.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "user.near", "receiver.near")
	if err != nil {
		t.Fatalf("expected failure isolated into step quote: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected failure when no deposit address is returned")
	}
}

func TestNearIntentsQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quote":{"amountOut":"998000","depositAddress":"near-deposit.near","timeEstimate":45}}`))
	}))
	defer srv.Close()

	n := &NearIntents{apiURL: srv.URL}
	var sell, buy core.AID
	for aid := range nearIntentsTokenIDs {
		if sell == "" {
			sell = aid
			continue
		}
		buy = aid
		break
	}
	edge := core.RouteEdge{Provider: core.ProviderNearIntents, SellAID: sell, BuyAID: buy}
	sq, err := n.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "user.near", "receiver.near")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if sq.EstimatedTimeSeconds != 45 {
		t.Fatalf("expected the provider's own time estimate to be used, got %d", sq.EstimatedTimeSeconds)
	}
}

func TestNearIntentsListPairsExcludesSelfPairs(t *testing.T) {
	n := NewNearIntents()
	edges, err := n.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	for _, e := range edges {
		if e.SellAID == e.BuyAID {
			t.Fatalf("expected no self-pair edges, got %+v", e)
		}
	}
}
