package core

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GasProfile is one row of the static overhead table (§4.7).
type GasProfile struct {
	BaseOverheadBaseUnits decimal.Decimal
	VolatilityMultiplier  decimal.Decimal // in [1.0, 1.3]
}

// gasTable holds per-chain overhead profiles. Grounded on the constant
// package-level fee tables in the teacher's core/liquidity_pools.go
// (defaultFeeBps, loanPoolFeeShareBps) generalized from two bps constants
// to a per-chain map.
var gasTable = map[string]GasProfile{
	"eip155:1":     {BaseOverheadBaseUnits: decimal.NewFromInt(5000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.10)}, // 0.005 ETH
	"eip155:43114": {BaseOverheadBaseUnits: decimal.NewFromInt(10000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},
	"eip155:56":    {BaseOverheadBaseUnits: decimal.NewFromInt(3000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},
	"eip155:137":   {BaseOverheadBaseUnits: decimal.NewFromInt(100000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.15)},
	"eip155:10":    {BaseOverheadBaseUnits: decimal.NewFromInt(1000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},
	"eip155:42161": {BaseOverheadBaseUnits: decimal.NewFromInt(1000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},
	"eip155:8453":  {BaseOverheadBaseUnits: decimal.NewFromInt(1000000000000000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},

	"bip122:000000000019d6689c085ae165831e93": {BaseOverheadBaseUnits: decimal.NewFromInt(3000), VolatilityMultiplier: decimal.NewFromFloat(1.20)},
	"bip122:12a765e31ffd4059bada1e25190f6e98": {BaseOverheadBaseUnits: decimal.NewFromInt(2000), VolatilityMultiplier: decimal.NewFromFloat(1.10)},

	"cosmos:cosmoshub-4": {BaseOverheadBaseUnits: decimal.NewFromInt(5000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},
	"cosmos:osmosis-1":   {BaseOverheadBaseUnits: decimal.NewFromInt(5000), VolatilityMultiplier: decimal.NewFromFloat(1.05)},

	"solana:101": {BaseOverheadBaseUnits: decimal.NewFromInt(5000), VolatilityMultiplier: decimal.NewFromFloat(1.0)},
}

var defaultGasProfile = GasProfile{
	BaseOverheadBaseUnits: decimal.NewFromInt(5000000000000000), // 0.005 ETH-equivalent
	VolatilityMultiplier:  decimal.NewFromFloat(1.25),
}

var gasWarnOnce sync.Map

// GasOverhead computes the gas overhead applied to service-custody quotes
// (§4.7). DIRECT providers never carry overhead; SERVICE_CUSTODY providers
// pay base * round(multiplier*100)/100, computed with arbitrary-precision
// decimal arithmetic to avoid floating-point drift.
func GasOverhead(chainID string, providerType ProviderType) decimal.Decimal {
	if providerType == Direct {
		return decimal.Zero
	}
	profile, ok := gasTable[chainID]
	if !ok {
		if _, loaded := gasWarnOnce.LoadOrStore(chainID, struct{}{}); !loaded {
			zap.L().Sugar().Warnf("unknown chain %q for gas overhead, using conservative default", chainID)
		}
		profile = defaultGasProfile
	}
	scaled := profile.VolatilityMultiplier.Mul(decimal.NewFromInt(100)).Round(0)
	return profile.BaseOverheadBaseUnits.Mul(scaled).Div(decimal.NewFromInt(100)).Floor()
}
