package core

import "strings"

// AID is an opaque canonical asset identifier of the form
// "<chain-namespace>:<chain-reference>/<asset-namespace>:<asset-reference>".
// Two AIDs are equal iff byte-equal.
type AID string

// ChainID returns the prefix of the AID before the "/" separator.
func (a AID) ChainID() string {
	s := string(a)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// ChainFamily classifies an AID's chain into a derivation family (§4.8).
type ChainFamily string

const (
	FamilyEVM    ChainFamily = "evm"
	FamilyUTXO   ChainFamily = "utxo"
	FamilyCosmos ChainFamily = "cosmos"
	FamilySolana ChainFamily = "solana"
	FamilyUnknown ChainFamily = "unknown"
)

// chainFamilies maps a chainId prefix to its derivation family. Populated
// with the chains named throughout the spec; unlisted chains resolve to
// FamilyUnknown and are rejected by Derivation.DeriveAddress and
// LifecycleManager.Create.
var chainFamilies = map[string]ChainFamily{
	"eip155:1":     FamilyEVM,
	"eip155:43114": FamilyEVM,
	"eip155:56":    FamilyEVM,
	"eip155:137":   FamilyEVM,
	"eip155:10":    FamilyEVM,
	"eip155:42161": FamilyEVM,
	"eip155:8453":  FamilyEVM,
	"eip155:100":   FamilyEVM,

	"bip122:000000000019d6689c085ae165831e93": FamilyUTXO, // BTC
	"bip122:12a765e31ffd4059bada1e25190f6e98": FamilyUTXO, // LTC
	"bip122:1a91e3dace36e2be3bf030a65679fe82": FamilyUTXO, // BCH
	"bip122:1a2a2cbbdbeaa0c3e87f2d2dba13f9a7": FamilyUTXO, // DOGE

	"cosmos:cosmoshub-4": FamilyCosmos,
	"cosmos:osmosis-1":   FamilyCosmos,

	"solana:101": FamilySolana,
}

// FamilyOf resolves a chainId to its derivation family.
func FamilyOf(chainID string) ChainFamily {
	if f, ok := chainFamilies[chainID]; ok {
		return f
	}
	return FamilyUnknown
}

// slip44 coin types per chainId, used for UTXO/Cosmos BIP44 paths.
var slip44 = map[string]uint32{
	"bip122:000000000019d6689c085ae165831e93": 0,   // BTC
	"bip122:12a765e31ffd4059bada1e25190f6e98": 2,   // LTC
	"bip122:1a91e3dace36e2be3bf030a65679fe82": 145, // BCH
	"bip122:1a2a2cbbdbeaa0c3e87f2d2dba13f9a7": 3,   // DOGE
	"cosmos:cosmoshub-4":                      118,
	"cosmos:osmosis-1":                        118,
}

// precisionTable resolves an AID's decimal precision. Lookups fall back by
// chain family, then to the documented defaults in §3.
var precisionTable = map[AID]int{
	"eip155:1/erc20:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": 6, // USDC
	"eip155:1/erc20:0xdac17f958d2ee523a2206206994597c13d831ec7": 6, // USDT
}

// Precision resolves the decimal precision for an AID per the deterministic
// rule in §3: explicit overrides first, then chain-family defaults, then 18.
func Precision(aid AID) int {
	if p, ok := precisionTable[aid]; ok {
		return p
	}
	switch FamilyOf(aid.ChainID()) {
	case FamilyUTXO:
		return 8
	case FamilySolana:
		return 9
	case FamilyCosmos:
		return 6
	default:
		return 18
	}
}

// ProviderID is a member of the closed enumeration of supported swap
// protocols.
type ProviderID string

const (
	ProviderThorchain   ProviderID = "THORCHAIN"
	ProviderMayachain   ProviderID = "MAYACHAIN"
	ProviderChainflip   ProviderID = "CHAINFLIP"
	ProviderCowSwap     ProviderID = "COWSWAP"
	ProviderZeroX       ProviderID = "ZEROX"
	ProviderRelay       ProviderID = "RELAY"
	ProviderPortals     ProviderID = "PORTALS"
	ProviderJupiter     ProviderID = "JUPITER"
	ProviderNearIntents ProviderID = "NEARINTENTS"
	ProviderButterSwap  ProviderID = "BUTTERSWAP"
	ProviderBebop       ProviderID = "BEBOP"
)

// RouteEdge is a single directed provider-backed hop between two assets.
type RouteEdge struct {
	Provider    ProviderID
	SellAID     AID
	BuyAID      AID
	SellChainID string
	BuyChainID  string
}

// IsCrossChain reports whether the edge's endpoints live on different chains.
func (e RouteEdge) IsCrossChain() bool { return e.SellChainID != e.BuyChainID }

// triple returns the edge identity used for deduplication: (sell, buy, provider).
func (e RouteEdge) triple() [3]string {
	return [3]string{string(e.SellAID), string(e.BuyAID), string(e.Provider)}
}
