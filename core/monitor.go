package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const depositMonitorPeriod = 30 * time.Second

// DepositLookup is the result of a chain-appropriate indexer query keyed on
// a deposit address.
type DepositLookup struct {
	Found         bool
	TxHash        string
	Confirmations int
}

// ChainIndexer is the sole reader of external blockchain state (§4.10).
// The concrete indexer is out of scope per §1; this interface is its
// contract, with an in-memory stub backing tests.
type ChainIndexer interface {
	LookupDeposit(ctx context.Context, chainID, address string, minAmountBaseUnit decimal.Decimal) (DepositLookup, error)
}

const requiredConfirmations = 1

// depositTolerance is subtracted from sellAmountBaseUnit to derive the
// monitor's minimum-match threshold (§4.10 step 2).
var depositTolerance = decimal.NewFromInt(0)

// DepositMonitor periodically scans active quotes for on-chain deposits
// (C11). Grounded on the teacher's core/cross_chain_connection.go
// persisted-registry-plus-polling shape, replacing connection bookkeeping
// with deposit-address lookups.
type DepositMonitor struct {
	lifecycle *LifecycleManager
	indexer   ChainIndexer
	logger    *zap.SugaredLogger
}

// NewDepositMonitor wires the monitor to the lifecycle manager it reads
// from and the indexer it queries.
func NewDepositMonitor(lifecycle *LifecycleManager, indexer ChainIndexer) *DepositMonitor {
	return &DepositMonitor{lifecycle: lifecycle, indexer: indexer, logger: zap.L().Sugar()}
}

// ScanOnce performs a single pass over listToMonitor(), matching the body
// of the periodic task described by §4.10. Individual lookup failures are
// logged and never abort the scan.
func (m *DepositMonitor) ScanOnce(ctx context.Context) {
	quotes, err := m.lifecycle.ListToMonitor()
	if err != nil {
		m.logger.Errorf("deposit monitor: list to monitor: %v", err)
		return
	}
	for _, q := range quotes {
		if q.Status != StatusActive {
			continue // already advanced; re-detection is a no-op by construction
		}
		minAmount := q.SellAmountBaseUnit.Sub(depositTolerance)
		lookup, err := m.indexer.LookupDeposit(ctx, q.SellAID.ChainID(), q.DepositAddress, minAmount)
		if err != nil {
			m.logger.Warnf("deposit monitor: lookup %s: %v", q.QuoteID, err)
			continue
		}
		if !lookup.Found || lookup.Confirmations < requiredConfirmations {
			continue
		}
		if _, err := m.lifecycle.MarkDepositReceived(q.QuoteID, lookup.TxHash); err != nil {
			m.logger.Warnf("deposit monitor: mark received %s: %v", q.QuoteID, err)
		}
	}
}

// Run blocks, scanning every depositMonitorPeriod until ctx is cancelled.
func (m *DepositMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(depositMonitorPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ScanOnce(ctx)
		}
	}
}

// StubChainIndexer is an in-memory ChainIndexer backing tests and local
// development, where manually registering a deposit simulates a confirmed
// on-chain transfer.
type StubChainIndexer struct {
	deposits map[string]DepositLookup
}

// NewStubChainIndexer returns an empty stub indexer.
func NewStubChainIndexer() *StubChainIndexer {
	return &StubChainIndexer{deposits: make(map[string]DepositLookup)}
}

// RegisterDeposit simulates a confirmed deposit at address.
func (s *StubChainIndexer) RegisterDeposit(address, txHash string, confirmations int) {
	s.deposits[address] = DepositLookup{Found: true, TxHash: txHash, Confirmations: confirmations}
}

func (s *StubChainIndexer) LookupDeposit(ctx context.Context, chainID, address string, minAmountBaseUnit decimal.Decimal) (DepositLookup, error) {
	if d, ok := s.deposits[address]; ok {
		return d, nil
	}
	return DepositLookup{}, nil
}
