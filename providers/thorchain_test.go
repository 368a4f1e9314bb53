package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

func TestThorchainListPairsSkipsUnavailablePools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"asset":"ETH.ETH","status":"available"},
			{"asset":"BTC.BTC","status":"staged"},
			{"asset":"NOTACHAIN.FOO","status":"available"}
		]`))
	}))
	defer srv.Close()

	th := NewThorchain("https://node.invalid", srv.URL)
	edges, err := th.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	// only ETH.ETH is available and chain-mappable: RUNE<->ETH in both directions
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges (RUNE<->ETH both directions), got %d: %+v", len(edges), edges)
	}
}

func TestThorchainQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expected_amount_out":"4200000000","slippage_bps":25,"fees":{"affiliate":"0","outbound":"100000","liquidity":"50000"}}`))
	}))
	defer srv.Close()

	th := NewThorchain(srv.URL, "https://midgard.invalid")
	edge := core.RouteEdge{
		Provider:    core.ProviderThorchain,
		SellAID:     thorchainNativeAID,
		BuyAID:      core.AID("eip155:1/thorasset:ETH"),
		SellChainID: thorchainNativeAID.ChainID(),
		BuyChainID:  "eip155:1",
	}
	sq, err := th.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000), "thor1user", "0xreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected success, got error %q", sq.Error)
	}
	if !sq.FeeUSD.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected fees to be summed, got %s", sq.FeeUSD.String())
	}
	if sq.EstimatedTimeSeconds != 1200 {
		t.Fatalf("expected cross-chain hop to estimate 1200s, got %d", sq.EstimatedTimeSeconds)
	}
}

func TestThorchainQuoteStepRejectsUnmappableAsset(t *testing.T) {
	th := NewThorchain("https://node.invalid", "https://midgard.invalid")
	edge := core.RouteEdge{Provider: core.ProviderThorchain, SellAID: core.AID("not-a-thorchain-asset"), BuyAID: thorchainNativeAID}
	sq, err := th.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "a", "b")
	if err != nil {
		t.Fatalf("expected failure to be isolated into the step quote: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected failure for an unmappable sell asset")
	}
}
