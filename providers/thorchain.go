package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// thorchainNativeAID is RUNE, the hub asset every pool trades against.
const thorchainNativeAID = core.AID("cosmos:thorchain-mainnet-v1/slip44:931")

type thorchainPoolsResponse []struct {
	Asset  string `json:"asset"`
	Status string `json:"status"`
}

type thorchainQuoteResponse struct {
	ExpectedAmountOut string `json:"expected_amount_out"`
	SlippageBps       int    `json:"slippage_bps"`
	Fees              struct {
		Affiliate string `json:"affiliate"`
		Outbound  string `json:"outbound"`
		Liquidity string `json:"liquidity"`
	} `json:"fees"`
}

// Thorchain implements CatalogAdapter for the pool-based Thorchain network
// (§4.3). Grounded on the wire shapes of §6.2.
type Thorchain struct {
	nodeURL    string
	midgardURL string
}

func NewThorchain(nodeURL, midgardURL string) *Thorchain {
	return &Thorchain{nodeURL: nodeURL, midgardURL: midgardURL}
}

func (t *Thorchain) Provider() core.ProviderID { return core.ProviderThorchain }

func (t *Thorchain) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var pools thorchainPoolsResponse
	if err := getJSON(ctx, defaultTimeout, t.midgardURL+"/v2/pools", nil, &pools); err != nil {
		return nil, err
	}
	var edges []core.RouteEdge
	for _, p := range pools {
		if p.Status != "available" {
			continue
		}
		aid, chainID, ok := thorchainAssetToAID(p.Asset)
		if !ok {
			continue
		}
		edges = append(edges,
			core.RouteEdge{Provider: core.ProviderThorchain, SellAID: thorchainNativeAID, BuyAID: aid, SellChainID: thorchainNativeAID.ChainID(), BuyChainID: chainID},
			core.RouteEdge{Provider: core.ProviderThorchain, SellAID: aid, BuyAID: thorchainNativeAID, SellChainID: chainID, BuyChainID: thorchainNativeAID.ChainID()},
		)
	}
	return edges, nil
}

func (t *Thorchain) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	fromAsset, ok := aidToThorchainAsset(edge.SellAID)
	if !ok {
		return failedStep(fmt.Errorf("thorchain: unmappable sell asset %s", edge.SellAID))
	}
	toAsset, ok := aidToThorchainAsset(edge.BuyAID)
	if !ok {
		return failedStep(fmt.Errorf("thorchain: unmappable buy asset %s", edge.BuyAID))
	}

	url := fmt.Sprintf("%s/thorchain/quote/swap?from_asset=%s&to_asset=%s&amount=%s&destination=%s",
		t.nodeURL, fromAsset, toAsset, sellBaseUnit.String(), receiveAddr)

	var resp thorchainQuoteResponse
	if err := getJSON(ctx, defaultTimeout, url, nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.ExpectedAmountOut)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("thorchain: invalid expected_amount_out %q", resp.ExpectedAmountOut))
	}
	feeUSD := sumDecimalStrings(resp.Fees.Affiliate, resp.Fees.Outbound, resp.Fees.Liquidity)

	estimatedTime := 60
	if edge.IsCrossChain() {
		estimatedTime = 1200
	}
	return core.StepQuote{
		Success:              true,
		SellBaseUnit:         sellBaseUnit,
		ExpectedBuyBaseUnit:  out,
		FeeUSD:               feeUSD,
		SlippagePercent:      decimal.NewFromInt(int64(resp.SlippageBps)).Div(decimal.NewFromInt(100)),
		EstimatedTimeSeconds: estimatedTime,
	}, nil
}

func sumDecimalStrings(vals ...string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		if d, err := decimal.NewFromString(v); err == nil {
			total = total.Add(d)
		}
	}
	return total
}

// thorchainAssetToAID translates a "CHAIN.SYMBOL-CONTRACT" pool asset
// string to an AID and its chainId.
func thorchainAssetToAID(asset string) (core.AID, string, bool) {
	parts := strings.SplitN(asset, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	chainID, ok := thorchainChainID(parts[0])
	if !ok {
		return "", "", false
	}
	return core.AID(chainID + "/thorasset:" + parts[1]), chainID, true
}

func aidToThorchainAsset(aid core.AID) (string, bool) {
	if aid == thorchainNativeAID {
		return "THOR.RUNE", true
	}
	s := string(aid)
	i := strings.Index(s, "/thorasset:")
	if i < 0 {
		return "", false
	}
	chainID := s[:i]
	symbol := s[i+len("/thorasset:"):]
	prefix, ok := thorchainChainPrefix(chainID)
	if !ok {
		return "", false
	}
	return prefix + "." + symbol, true
}

func thorchainChainID(prefix string) (string, bool) {
	m := map[string]string{
		"ETH": "eip155:1",
		"AVAX": "eip155:43114",
		"BSC":  "eip155:56",
		"BTC":  "bip122:000000000019d6689c085ae165831e93",
		"LTC":  "bip122:12a765e31ffd4059bada1e25190f6e98",
		"GAIA": "cosmos:cosmoshub-4",
	}
	v, ok := m[prefix]
	return v, ok
}

func thorchainChainPrefix(chainID string) (string, bool) {
	m := map[string]string{
		"eip155:1":     "ETH",
		"eip155:43114": "AVAX",
		"eip155:56":    "BSC",
		"bip122:000000000019d6689c085ae165831e93": "BTC",
		"bip122:12a765e31ffd4059bada1e25190f6e98":  "LTC",
		"cosmos:cosmoshub-4":                       "GAIA",
	}
	v, ok := m[chainID]
	return v, ok
}
