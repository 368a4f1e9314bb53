package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// RouterController implements the §6.1 HTTP contracts. Grounded on the
// teacher's walletserver/controllers.WalletController shape: a thin
// decode-call-encode body per handler, collaborators injected at
// construction.
type RouterController struct {
	pathfinder *core.Pathfinder
	aggregator *core.Aggregator
	lifecycle  *core.LifecycleManager
}

// NewRouterController wires the controller to its core collaborators.
func NewRouterController(pf *core.Pathfinder, agg *core.Aggregator, lc *core.LifecycleManager) *RouterController {
	return &RouterController{pathfinder: pf, aggregator: agg, lifecycle: lc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	kind, _ := core.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindNoRoute, core.KindQuoteFailed, core.KindInsufficientLiq, core.KindHighPriceImpact, core.KindNetwork:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": string(kind)})
}

// Health handles GET /health.
func (rc *RouterController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createQuoteRequest struct {
	SellAssetID                     string `json:"sellAssetId"`
	BuyAssetID                      string `json:"buyAssetId"`
	SellAmountCryptoBaseUnit        string `json:"sellAmountCryptoBaseUnit"`
	ExpectedBuyAmountCryptoBaseUnit string `json:"expectedBuyAmountCryptoBaseUnit"`
	ReceiveAddress                  string `json:"receiveAddress"`
	SwapperName                     string `json:"swapperName"`
}

type quoteDTO struct {
	*core.SendSwapQuote
	QRData string `json:"qrData"`
}

// CreateQuote handles POST /quotes.
func (rc *RouterController) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewError(core.KindValidation, "malformed request body"))
		return
	}
	sellAmount, err := decimal.NewFromString(req.SellAmountCryptoBaseUnit)
	if err != nil {
		writeError(w, core.NewError(core.KindValidation, "invalid sellAmountCryptoBaseUnit"))
		return
	}
	expectedBuy, err := decimal.NewFromString(req.ExpectedBuyAmountCryptoBaseUnit)
	if err != nil {
		writeError(w, core.NewError(core.KindValidation, "invalid expectedBuyAmountCryptoBaseUnit"))
		return
	}

	q, err := rc.lifecycle.Create(core.CreateQuoteRequest{
		SellAID:                   core.AID(req.SellAssetID),
		BuyAID:                    core.AID(req.BuyAssetID),
		SellAmountBaseUnit:        sellAmount,
		ExpectedBuyAmountBaseUnit: expectedBuy,
		ReceiveAddress:            req.ReceiveAddress,
		Provider:                  core.ProviderID(req.SwapperName),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	qr, err := core.EncodePaymentURI(q.SellAID.ChainID(), q.DepositAddress, q.SellAmountBaseUnit)
	if err != nil {
		qr = ""
	}
	writeJSON(w, http.StatusCreated, quoteDTO{SendSwapQuote: q, QRData: qr})
}

// GetQuote handles GET /quotes/:quoteId.
func (rc *RouterController) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["quoteId"]
	q, err := rc.lifecycle.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type multiStepQuoteRequest struct {
	SellAssetID               string   `json:"sellAssetId"`
	BuyAssetID                string   `json:"buyAssetId"`
	SellAmountCryptoBaseUnit  string   `json:"sellAmountCryptoBaseUnit"`
	UserAddress               string   `json:"userAddress"`
	ReceiveAddress            string   `json:"receiveAddress"`
	MaxHops                   int      `json:"maxHops,omitempty"`
	MaxCrossChainHops         int      `json:"maxCrossChainHops,omitempty"`
	AllowedProviders          []string `json:"allowedProviders,omitempty"`
	ExcludedProviders         []string `json:"excludedProviders,omitempty"`
}

// MultiStepQuote handles POST /swaps/multi-step-quote.
func (rc *RouterController) MultiStepQuote(w http.ResponseWriter, r *http.Request) {
	var req multiStepQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, core.MultiStepQuoteResult{Success: false, Error: string(core.KindValidation)})
		return
	}
	sellAmount, err := decimal.NewFromString(req.SellAmountCryptoBaseUnit)
	if err != nil {
		writeJSON(w, http.StatusOK, core.MultiStepQuoteResult{Success: false, Error: string(core.KindValidation)})
		return
	}

	c := core.DefaultConstraints()
	if req.MaxHops > 0 {
		c.MaxHops = req.MaxHops
	}
	if req.MaxCrossChainHops > 0 {
		c.MaxCrossChainHops = req.MaxCrossChainHops
	}
	for _, p := range req.AllowedProviders {
		c.AllowedProviders = append(c.AllowedProviders, core.ProviderID(p))
	}
	for _, p := range req.ExcludedProviders {
		c.ExcludedProviders = append(c.ExcludedProviders, core.ProviderID(p))
	}

	result := core.GetMultiStepQuote(context.Background(), rc.pathfinder, rc.aggregator,
		core.AID(req.SellAssetID), core.AID(req.BuyAssetID), sellAmount, req.UserAddress, req.ReceiveAddress, c)
	writeJSON(w, http.StatusOK, result)
}
