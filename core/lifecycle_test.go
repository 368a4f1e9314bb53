package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestLifecycle(t *testing.T) *LifecycleManager {
	t.Helper()
	store := NewInMemoryStore()
	classifier := NewClassifier()
	derivation, err := NewDerivation(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewDerivation failed: %v", err)
	}
	return NewLifecycleManager(store, classifier, derivation)
}

func TestLifecycleCreateRejectsExcludedProvider(t *testing.T) {
	lc := newTestLifecycle(t)
	_, err := lc.Create(CreateQuoteRequest{
		SellAID:                   "eip155:1/slip44:60",
		BuyAID:                    "eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7",
		SellAmountBaseUnit:        decimal.NewFromInt(1),
		ExpectedBuyAmountBaseUnit: decimal.NewFromInt(1),
		ReceiveAddress:            "0xreceiver",
		Provider:                  ProviderID("NOT_A_REAL_PROVIDER"),
	})
	if err == nil {
		t.Fatalf("expected error for an unclassified/excluded provider")
	}
}

func TestLifecycleCreateAndStateMachine(t *testing.T) {
	lc := newTestLifecycle(t)
	q, err := lc.Create(CreateQuoteRequest{
		SellAID:                   "eip155:1/slip44:60",
		BuyAID:                    "bip122:000000000019d6689c085ae165831e93/slip44:0",
		SellAmountBaseUnit:        decimal.NewFromInt(1000000000000000000),
		ExpectedBuyAmountBaseUnit: decimal.NewFromInt(5000000),
		ReceiveAddress:            "bc1qreceiver",
		Provider:                  ProviderThorchain,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.Status != StatusActive {
		t.Fatalf("expected new quote to be ACTIVE, got %s", q.Status)
	}
	if q.DepositAddress == "" {
		t.Fatalf("expected a derived deposit address")
	}
	if q.ProviderType != Direct {
		t.Fatalf("expected thorchain to classify as DIRECT")
	}
	if q.GasOverheadBaseUnit != nil {
		t.Fatalf("expected no gas overhead for a DIRECT provider")
	}

	got, err := lc.Get(q.QuoteID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.QuoteID != q.QuoteID {
		t.Fatalf("expected same quote id back")
	}

	if _, err := lc.MarkDepositReceived(q.QuoteID, "0xtxhash"); err != nil {
		t.Fatalf("MarkDepositReceived failed: %v", err)
	}
	if _, err := lc.MarkExecuting(q.QuoteID); err != nil {
		t.Fatalf("MarkExecuting failed: %v", err)
	}
	completed, err := lc.MarkCompleted(q.QuoteID, "0xexectx")
	if err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}
	if completed.ExecutedAt == nil {
		t.Fatalf("expected ExecutedAt to be set on completion")
	}

	if _, err := lc.MarkFailed(q.QuoteID); err == nil {
		t.Fatalf("expected error transitioning out of a terminal state")
	}
}

// TestMarkDepositReceivedIdempotent verifies the idempotence law: calling
// MarkDepositReceived again on a quote already in DEPOSIT_RECEIVED is a
// no-op, not an invalid-transition error.
func TestMarkDepositReceivedIdempotent(t *testing.T) {
	lc := newTestLifecycle(t)
	q, err := lc.Create(CreateQuoteRequest{
		SellAID:                   "eip155:1/slip44:60",
		BuyAID:                    "eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7",
		SellAmountBaseUnit:        decimal.NewFromInt(1000000000000000000),
		ExpectedBuyAmountBaseUnit: decimal.NewFromInt(1000000000),
		ReceiveAddress:            "0xreceiver",
		Provider:                  ProviderZeroX,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	first, err := lc.MarkDepositReceived(q.QuoteID, "0xfirsthash")
	if err != nil {
		t.Fatalf("first MarkDepositReceived failed: %v", err)
	}
	second, err := lc.MarkDepositReceived(q.QuoteID, "0xfirsthash")
	if err != nil {
		t.Fatalf("second MarkDepositReceived failed: %v", err)
	}
	if first.Status != second.Status || second.Status != StatusDepositReceived {
		t.Fatalf("expected repeated call to remain DEPOSIT_RECEIVED, got %s", second.Status)
	}
}

func TestLifecycleServiceCustodyCarriesGasOverhead(t *testing.T) {
	lc := newTestLifecycle(t)
	q, err := lc.Create(CreateQuoteRequest{
		SellAID:                   "eip155:1/slip44:60",
		BuyAID:                    "near:mainnet/nep141:usdc",
		SellAmountBaseUnit:        decimal.NewFromInt(1000000000000000000),
		ExpectedBuyAmountBaseUnit: decimal.NewFromInt(1000000000),
		ReceiveAddress:            "receiver.near",
		Provider:                  ProviderNearIntents,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.ProviderType != ServiceCustody {
		t.Fatalf("expected NearIntents to classify as SERVICE_CUSTODY")
	}
	if q.GasOverheadBaseUnit == nil || q.GasOverheadBaseUnit.IsZero() {
		t.Fatalf("expected non-zero gas overhead for a SERVICE_CUSTODY provider")
	}
}
