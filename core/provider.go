package core

import (
	"sync"

	"go.uber.org/zap"
)

// ProviderType is the classification axis of §3/§4.1: DIRECT providers
// supply their own deposit address and execute onward natively;
// SERVICE_CUSTODY providers require the service to receive funds and
// execute onward (gas overhead applies, see C9).
type ProviderType string

const (
	Direct         ProviderType = "DIRECT"
	ServiceCustody ProviderType = "SERVICE_CUSTODY"
)

// Classification is the static, closed record the classifier maintains per
// provider.
type Classification struct {
	Type                      ProviderType
	SupportsDestinationAddress bool
	Description               string
}

// classificationTable is the compile-time registry described by §4.1.
// Grounded on the teacher's core/idwallet_registration.go singleton
// registry shape, repurposed from a ledger-backed wallet registry to a
// static lookup table — nothing here performs I/O.
var classificationTable = map[ProviderID]Classification{
	ProviderThorchain:   {Type: Direct, SupportsDestinationAddress: true, Description: "Thorchain native cross-chain liquidity network"},
	ProviderMayachain:   {Type: Direct, SupportsDestinationAddress: true, Description: "Mayachain native cross-chain liquidity network"},
	ProviderChainflip:   {Type: Direct, SupportsDestinationAddress: true, Description: "Chainflip JIT cross-chain broker"},
	ProviderCowSwap:     {Type: Direct, SupportsDestinationAddress: true, Description: "CowSwap batch auction on Ethereum"},
	ProviderZeroX:       {Type: Direct, SupportsDestinationAddress: true, Description: "0x same-chain EVM aggregator"},
	ProviderRelay:       {Type: Direct, SupportsDestinationAddress: true, Description: "Relay cross-chain native bridge"},
	ProviderPortals:     {Type: Direct, SupportsDestinationAddress: true, Description: "Portals same-chain EVM aggregator"},
	ProviderJupiter:     {Type: Direct, SupportsDestinationAddress: true, Description: "Jupiter Solana-local aggregator"},
	ProviderNearIntents: {Type: ServiceCustody, SupportsDestinationAddress: true, Description: "NEAR intents solver network"},
	ProviderButterSwap:  {Type: ServiceCustody, SupportsDestinationAddress: true, Description: "ButterSwap custodial relay"},
	ProviderBebop:       {Type: ServiceCustody, SupportsDestinationAddress: true, Description: "Bebop custodial RFQ settlement"},
}

var classifierWarnOnce sync.Map // providerID -> struct{}

// Classifier exposes the §4.1 operations over classificationTable.
type Classifier struct{}

// NewClassifier returns a stateless classifier bound to classificationTable.
func NewClassifier() *Classifier { return &Classifier{} }

// TypeOf returns p's classification, defaulting unknown providers to
// SERVICE_CUSTODY with supportsDestinationAddress=false (effectively
// excluded) and warning once per unknown identifier.
func (c *Classifier) TypeOf(p ProviderID) Classification {
	if cl, ok := classificationTable[p]; ok {
		return cl
	}
	if _, loaded := classifierWarnOnce.LoadOrStore(p, struct{}{}); !loaded {
		zap.L().Sugar().Warnf("unknown provider %q classified as excluded service-custody", p)
	}
	return Classification{Type: ServiceCustody, SupportsDestinationAddress: false, Description: "unknown provider"}
}

// IsExcluded reports whether p must never participate in routing or
// send-swap operations.
func (c *Classifier) IsExcluded(p ProviderID) bool {
	return !c.TypeOf(p).SupportsDestinationAddress
}

// FilterValid returns the subset of list that is not excluded.
func (c *Classifier) FilterValid(list []ProviderID) []ProviderID {
	out := make([]ProviderID, 0, len(list))
	for _, p := range list {
		if !c.IsExcluded(p) {
			out = append(out, p)
		}
	}
	return out
}

// ValidateForQuote checks p is usable for a send-swap quote request.
func (c *Classifier) ValidateForQuote(p ProviderID) (valid bool, reason string) {
	if c.IsExcluded(p) {
		return false, "provider excluded or does not support a destination address"
	}
	return true, ""
}
