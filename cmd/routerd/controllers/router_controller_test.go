package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

type fakeAdapter struct {
	id    core.ProviderID
	edges []core.RouteEdge
	rate  decimal.Decimal
}

func (f *fakeAdapter) Provider() core.ProviderID { return f.id }

func (f *fakeAdapter) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	return f.edges, nil
}

func (f *fakeAdapter) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  sellBaseUnit.Mul(f.rate),
		FeeUSD:               decimal.NewFromFloat(0.5),
		SlippagePercent:      decimal.NewFromFloat(0.1),
		EstimatedTimeSeconds: 60,
	}, nil
}

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestController(t *testing.T) *RouterController {
	t.Helper()
	aidETH := core.AID("eip155:1/slip44:60")
	aidUSDT := core.AID("eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7")

	zerox := &fakeAdapter{
		id:   core.ProviderZeroX,
		rate: decimal.NewFromFloat(0.0003),
		edges: []core.RouteEdge{
			{Provider: core.ProviderZeroX, SellAID: aidETH, BuyAID: aidUSDT, SellChainID: "eip155:1", BuyChainID: "eip155:1"},
		},
	}
	registry := core.NewAdapterRegistry()
	registry.Register(zerox)
	cache := core.NewRouteCache()
	graph := core.NewRouteGraph(registry, cache)
	if err := graph.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	pathfinder := core.NewPathfinder(graph, cache)
	aggregator := core.NewAggregator(registry, nil, cache)

	store := core.NewInMemoryStore()
	classifier := core.NewClassifier()
	derivation, err := core.NewDerivation(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewDerivation failed: %v", err)
	}
	lifecycle := core.NewLifecycleManager(store, classifier, derivation)

	return NewRouterController(pathfinder, aggregator, lifecycle)
}

func TestHealthReturnsOK(t *testing.T) {
	rc := newTestController(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	rc.Health(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateQuoteAndGetQuoteRoundTrip(t *testing.T) {
	rc := newTestController(t)
	body := `{
		"sellAssetId":"eip155:1/slip44:60",
		"buyAssetId":"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7",
		"sellAmountCryptoBaseUnit":"1000000000000000000",
		"expectedBuyAmountCryptoBaseUnit":"300000000",
		"receiveAddress":"0xreceiver",
		"swapperName":"ZEROX"
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	rc.CreateQuote(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created quoteDTO
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode CreateQuote response: %v", err)
	}
	if created.QuoteID == "" {
		t.Fatalf("expected a populated quote id")
	}

	router := mux.NewRouter()
	router.HandleFunc("/quotes/{quoteId}", rc.GetQuote).Methods(http.MethodGet)
	getReq := httptest.NewRequest(http.MethodGet, "/quotes/"+created.QuoteID, nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching the created quote, got %d: %s", getW.Code, getW.Body.String())
	}
}

func TestCreateQuoteRejectsMalformedAmount(t *testing.T) {
	rc := newTestController(t)
	body := `{"sellAssetId":"eip155:1/slip44:60","buyAssetId":"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7","sellAmountCryptoBaseUnit":"not-a-number","expectedBuyAmountCryptoBaseUnit":"1","receiveAddress":"0xreceiver","swapperName":"ZEROX"}`
	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	rc.CreateQuote(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed sell amount, got %d", w.Code)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	rc := newTestController(t)
	router := mux.NewRouter()
	router.HandleFunc("/quotes/{quoteId}", rc.GetQuote).Methods(http.MethodGet)
	req := httptest.NewRequest(http.MethodGet, "/quotes/does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown quote id, got %d", w.Code)
	}
}

func TestMultiStepQuoteSuccess(t *testing.T) {
	rc := newTestController(t)
	body := `{
		"sellAssetId":"eip155:1/slip44:60",
		"buyAssetId":"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7",
		"sellAmountCryptoBaseUnit":"1000000000000000000",
		"userAddress":"0xuser",
		"receiveAddress":"0xreceiver"
	}`
	req := httptest.NewRequest(http.MethodPost, "/swaps/multi-step-quote", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	rc.MultiStepQuote(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var result core.MultiStepQuoteResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode MultiStepQuote response: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected a successful multi-step quote, got error %q", result.Error)
	}
}
