package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

const ethAID = core.AID("eip155:1/slip44:60")
const usdtAID = core.AID("eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7")

func TestZeroXListPairsOnlySameChain(t *testing.T) {
	z := NewZeroX("https://example.invalid")
	edges, err := z.ListPairs(context.Background())
	if err != nil {
		t.Fatalf("ListPairs failed: %v", err)
	}
	if len(edges) == 0 {
		t.Fatalf("expected at least one edge from the static token map")
	}
	for _, e := range edges {
		if e.IsCrossChain() {
			t.Fatalf("expected zerox to only emit same-chain edges, got %+v", e)
		}
	}
}

func TestZeroXQuoteStepSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"buyAmount":"2500000000","estimatedPriceImpact":"0.15"}`))
	}))
	defer srv.Close()

	z := NewZeroX(srv.URL)
	edge := core.RouteEdge{Provider: core.ProviderZeroX, SellAID: ethAID, BuyAID: usdtAID, SellChainID: "eip155:1", BuyChainID: "eip155:1"}
	sq, err := z.QuoteStep(context.Background(), edge, decimal.NewFromInt(1000000000000000000), "0xuser", "0xreceive")
	if err != nil {
		t.Fatalf("QuoteStep returned a transport error: %v", err)
	}
	if !sq.Success {
		t.Fatalf("expected a successful step quote, got error %q", sq.Error)
	}
	want := decimal.NewFromInt(2500000000)
	if !sq.ExpectedBuyBaseUnit.Equal(want) {
		t.Fatalf("expected %s, got %s", want.String(), sq.ExpectedBuyBaseUnit.String())
	}
}

func TestZeroXQuoteStepRejectsCrossChain(t *testing.T) {
	z := NewZeroX("https://example.invalid")
	edge := core.RouteEdge{Provider: core.ProviderZeroX, SellAID: ethAID, BuyAID: usdtAID, SellChainID: "eip155:1", BuyChainID: "eip155:137"}
	sq, err := z.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "0xuser", "0xreceive")
	if err != nil {
		t.Fatalf("expected the adapter failure to be isolated into StepQuote, got transport error: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected cross-chain edge to fail")
	}
}

func TestZeroXQuoteStepIsolatesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	z := NewZeroX(srv.URL)
	edge := core.RouteEdge{Provider: core.ProviderZeroX, SellAID: ethAID, BuyAID: usdtAID, SellChainID: "eip155:1", BuyChainID: "eip155:1"}
	sq, err := z.QuoteStep(context.Background(), edge, decimal.NewFromInt(1), "0xuser", "0xreceive")
	if err != nil {
		t.Fatalf("expected a non-2xx response to be isolated, not propagated: %v", err)
	}
	if sq.Success {
		t.Fatalf("expected the step quote to report failure")
	}
	if sq.Error == "" {
		t.Fatalf("expected a populated error message on failure")
	}
}
