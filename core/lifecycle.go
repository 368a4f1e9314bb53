package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteStatus is the send-swap quote state machine of §3/§4.9.
type QuoteStatus string

const (
	StatusActive           QuoteStatus = "ACTIVE"
	StatusDepositReceived  QuoteStatus = "DEPOSIT_RECEIVED"
	StatusExecuting        QuoteStatus = "EXECUTING"
	StatusCompleted        QuoteStatus = "COMPLETED"
	StatusExpired          QuoteStatus = "EXPIRED"
	StatusFailed           QuoteStatus = "FAILED"
)

// allowedTransitions enumerates the edges of the §4.9 state machine.
var allowedTransitions = map[QuoteStatus]map[QuoteStatus]bool{
	StatusActive:          {StatusDepositReceived: true, StatusExpired: true, StatusFailed: true},
	StatusDepositReceived: {StatusExecuting: true, StatusFailed: true},
	StatusExecuting:       {StatusCompleted: true, StatusFailed: true},
}

func isTerminal(s QuoteStatus) bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusFailed
}

// SendSwapQuote is the persisted record of §3.
type SendSwapQuote struct {
	QuoteID                   string          `json:"quoteId"`
	Status                    QuoteStatus     `json:"status"`
	SellAID                   AID             `json:"sellAid"`
	BuyAID                    AID             `json:"buyAid"`
	SellAmountBaseUnit        decimal.Decimal `json:"sellAmountBaseUnit"`
	ExpectedBuyAmountBaseUnit decimal.Decimal `json:"expectedBuyAmountBaseUnit"`
	DepositAddress            string          `json:"depositAddress"`
	ReceiveAddress            string          `json:"receiveAddress"`
	Provider                  ProviderID      `json:"provider"`
	ProviderType              ProviderType    `json:"providerType"`
	GasOverheadBaseUnit       *decimal.Decimal `json:"gasOverheadBaseUnit,omitempty"`
	DepositTxHash             string          `json:"depositTxHash,omitempty"`
	ExecutionTxHash           string          `json:"executionTxHash,omitempty"`
	CreatedAt                 time.Time      `json:"createdAt"`
	ExpiresAt                 time.Time      `json:"expiresAt"`
	ExecutedAt                 *time.Time     `json:"executedAt,omitempty"`
}

const sendSwapQuoteTTL = 30 * time.Minute

// LifecycleManager owns every SendSwapQuote row (C10). Grounded on the
// teacher's core/wallet_management.go manager-wraps-store shape
// (WalletManager wrapping *Ledger), generalized to wrap a KVStore instead
// of a chain ledger, and on core/cross_chain_bridge.go's
// persisted-record-with-status-transition pattern.
type LifecycleManager struct {
	store      KVStore
	classifier *Classifier
	derivation *Derivation
	logger     *zap.SugaredLogger
}

// NewLifecycleManager wires the manager to its persistence, classifier,
// and derivation collaborators.
func NewLifecycleManager(store KVStore, classifier *Classifier, derivation *Derivation) *LifecycleManager {
	return &LifecycleManager{store: store, classifier: classifier, derivation: derivation, logger: zap.L().Sugar()}
}

func quoteKey(id string) []byte { return []byte("quote:" + id) }

func depositIndexKey(addr string) []byte { return []byte("quote:byaddr:" + addr) }

const quotePrefix = "quote:"

// CreateQuoteRequest is the input to Create.
type CreateQuoteRequest struct {
	SellAID                   AID
	BuyAID                    AID
	SellAmountBaseUnit        decimal.Decimal
	ExpectedBuyAmountBaseUnit decimal.Decimal
	ReceiveAddress            string
	Provider                  ProviderID
}

// Create issues a new send-swap quote following the five steps of §4.9.
func (m *LifecycleManager) Create(req CreateQuoteRequest) (*SendSwapQuote, error) {
	if valid, reason := m.classifier.ValidateForQuote(req.Provider); !valid {
		return nil, NewError(KindInvalidState, reason)
	}
	chainID := req.SellAID.ChainID()
	if FamilyOf(chainID) == FamilyUnknown {
		return nil, NewError(KindUnsupportedAssetChn, chainID)
	}

	count, err := m.countQuotes()
	if err != nil {
		return nil, err
	}
	addressIndex := uint32(count)
	depositAddress, err := m.derivation.DeriveAddress(chainID, 0, addressIndex)
	if err != nil {
		return nil, err
	}

	classification := m.classifier.TypeOf(req.Provider)
	var overhead *decimal.Decimal
	if classification.Type == ServiceCustody {
		o := GasOverhead(chainID, classification.Type)
		overhead = &o
	}

	now := time.Now().UTC()
	q := &SendSwapQuote{
		QuoteID:                   uuid.New().String(),
		Status:                    StatusActive,
		SellAID:                   req.SellAID,
		BuyAID:                    req.BuyAID,
		SellAmountBaseUnit:        req.SellAmountBaseUnit,
		ExpectedBuyAmountBaseUnit: req.ExpectedBuyAmountBaseUnit,
		DepositAddress:            depositAddress,
		ReceiveAddress:            req.ReceiveAddress,
		Provider:                  req.Provider,
		ProviderType:              classification.Type,
		GasOverheadBaseUnit:       overhead,
		CreatedAt:                 now,
		ExpiresAt:                 now.Add(sendSwapQuoteTTL),
	}

	if err := m.persist(q); err != nil {
		return nil, err
	}
	if err := m.store.Set(depositIndexKey(depositAddress), []byte(q.QuoteID)); err != nil {
		return nil, err
	}
	m.logger.Infof("quote %s created: %s -> %s via %s", q.QuoteID, q.SellAID, q.BuyAID, q.Provider)
	return q, nil
}

func (m *LifecycleManager) persist(q *SendSwapQuote) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return m.store.Set(quoteKey(q.QuoteID), raw)
}

func (m *LifecycleManager) load(id string) (*SendSwapQuote, error) {
	raw, err := m.store.Get(quoteKey(id))
	if err != nil {
		return nil, NewError(KindNotFound, id)
	}
	var q SendSwapQuote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// applyLazyExpiry transitions q to EXPIRED in place if it is ACTIVE and
// past its expiresAt (§4.9, P8), persisting the transition.
func (m *LifecycleManager) applyLazyExpiry(q *SendSwapQuote) error {
	if q.Status == StatusActive && time.Now().After(q.ExpiresAt) {
		q.Status = StatusExpired
		return m.persist(q)
	}
	return nil
}

// Get fetches a quote, performing lazy expiration on read.
func (m *LifecycleManager) Get(id string) (*SendSwapQuote, error) {
	q, err := m.load(id)
	if err != nil {
		return nil, err
	}
	if err := m.applyLazyExpiry(q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByDepositAddress resolves a quote by its deposit address.
func (m *LifecycleManager) GetByDepositAddress(addr string) (*SendSwapQuote, error) {
	raw, err := m.store.Get(depositIndexKey(addr))
	if err != nil {
		return nil, NewError(KindNotFound, addr)
	}
	return m.Get(string(raw))
}

func (m *LifecycleManager) countQuotes() (int, error) {
	it := m.store.Iterator([]byte(quotePrefix))
	defer it.Close()
	n := 0
	for it.Next() {
		if len(it.Key()) > len("quote:byaddr:") && string(it.Key()[:len("quote:byaddr:")]) == "quote:byaddr:" {
			continue
		}
		n++
	}
	return n, it.Error()
}

func (m *LifecycleManager) all() ([]*SendSwapQuote, error) {
	it := m.store.Iterator([]byte(quotePrefix))
	defer it.Close()
	var out []*SendSwapQuote
	for it.Next() {
		key := string(it.Key())
		if len(key) >= len("quote:byaddr:") && key[:len("quote:byaddr:")] == "quote:byaddr:" {
			continue
		}
		var q SendSwapQuote
		if err := json.Unmarshal(it.Value(), &q); err != nil {
			return nil, err
		}
		out = append(out, &q)
	}
	return out, it.Error()
}

// ListActive returns every quote whose status is ACTIVE after lazy expiry.
func (m *LifecycleManager) ListActive() ([]*SendSwapQuote, error) {
	all, err := m.all()
	if err != nil {
		return nil, err
	}
	var out []*SendSwapQuote
	for _, q := range all {
		if err := m.applyLazyExpiry(q); err != nil {
			return nil, err
		}
		if q.Status == StatusActive {
			out = append(out, q)
		}
	}
	return out, nil
}

// ListToMonitor returns quotes the deposit monitor should scan: status in
// {ACTIVE, DEPOSIT_RECEIVED} and not expired.
func (m *LifecycleManager) ListToMonitor() ([]*SendSwapQuote, error) {
	all, err := m.all()
	if err != nil {
		return nil, err
	}
	var out []*SendSwapQuote
	for _, q := range all {
		if err := m.applyLazyExpiry(q); err != nil {
			return nil, err
		}
		if q.Status == StatusActive || q.Status == StatusDepositReceived {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *LifecycleManager) transition(id string, to QuoteStatus, mutate func(*SendSwapQuote)) (*SendSwapQuote, error) {
	q, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if q.Status == to {
		// Idempotence law (§8): re-requesting the current state is a no-op.
		return q, nil
	}
	if isTerminal(q.Status) {
		return nil, NewError(KindInvalidState, fmt.Sprintf("quote %s is terminal (%s)", id, q.Status))
	}
	if !allowedTransitions[q.Status][to] {
		return nil, NewError(KindInvalidState, fmt.Sprintf("cannot transition %s -> %s", q.Status, to))
	}
	q.Status = to
	if mutate != nil {
		mutate(q)
	}
	if err := m.persist(q); err != nil {
		return nil, err
	}
	return q, nil
}

// MarkDepositReceived transitions a quote to DEPOSIT_RECEIVED. Idempotent
// when the quote is already in that state (§8 law).
func (m *LifecycleManager) MarkDepositReceived(id, txHash string) (*SendSwapQuote, error) {
	return m.transition(id, StatusDepositReceived, func(q *SendSwapQuote) {
		q.DepositTxHash = txHash
	})
}

// MarkExecuting transitions a quote to EXECUTING.
func (m *LifecycleManager) MarkExecuting(id string) (*SendSwapQuote, error) {
	return m.transition(id, StatusExecuting, nil)
}

// MarkCompleted transitions a quote to COMPLETED.
func (m *LifecycleManager) MarkCompleted(id, txHash string) (*SendSwapQuote, error) {
	return m.transition(id, StatusCompleted, func(q *SendSwapQuote) {
		q.ExecutionTxHash = txHash
		now := time.Now().UTC()
		q.ExecutedAt = &now
	})
}

// MarkFailed transitions a quote to FAILED from any non-terminal state.
func (m *LifecycleManager) MarkFailed(id string) (*SendSwapQuote, error) {
	q, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if isTerminal(q.Status) {
		return nil, NewError(KindInvalidState, fmt.Sprintf("quote %s is terminal (%s)", id, q.Status))
	}
	q.Status = StatusFailed
	if err := m.persist(q); err != nil {
		return nil, err
	}
	return q, nil
}

// ExpireStale transitions every ACTIVE-but-overdue quote to EXPIRED in
// batch and returns the count transitioned.
func (m *LifecycleManager) ExpireStale() (int, error) {
	all, err := m.all()
	if err != nil {
		return 0, err
	}
	n := 0
	now := time.Now()
	for _, q := range all {
		if q.Status == StatusActive && now.After(q.ExpiresAt) {
			q.Status = StatusExpired
			if err := m.persist(q); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
