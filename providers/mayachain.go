package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/synnergy-network/swaprouter/core"
)

// mayachainNativeAID is CACAO, Mayachain's hub asset.
const mayachainNativeAID = core.AID("cosmos:mayachain-mainnet-v1/slip44:932")

// Mayachain implements CatalogAdapter for the pool-based Mayachain network,
// a sibling protocol to Thorchain sharing the same wire shapes (§6.2).
type Mayachain struct {
	nodeURL    string
	midgardURL string
}

func NewMayachain(nodeURL, midgardURL string) *Mayachain {
	return &Mayachain{nodeURL: nodeURL, midgardURL: midgardURL}
}

func (m *Mayachain) Provider() core.ProviderID { return core.ProviderMayachain }

func (m *Mayachain) ListPairs(ctx context.Context) ([]core.RouteEdge, error) {
	var pools thorchainPoolsResponse
	if err := getJSON(ctx, defaultTimeout, m.midgardURL+"/v2/pools", nil, &pools); err != nil {
		return nil, err
	}
	var edges []core.RouteEdge
	for _, p := range pools {
		if p.Status != "available" {
			continue
		}
		aid, chainID, ok := mayachainAssetToAID(p.Asset)
		if !ok {
			continue
		}
		edges = append(edges,
			core.RouteEdge{Provider: core.ProviderMayachain, SellAID: mayachainNativeAID, BuyAID: aid, SellChainID: mayachainNativeAID.ChainID(), BuyChainID: chainID},
			core.RouteEdge{Provider: core.ProviderMayachain, SellAID: aid, BuyAID: mayachainNativeAID, SellChainID: chainID, BuyChainID: mayachainNativeAID.ChainID()},
		)
	}
	return edges, nil
}

func (m *Mayachain) QuoteStep(ctx context.Context, edge core.RouteEdge, sellBaseUnit decimal.Decimal, userAddr, receiveAddr string) (core.StepQuote, error) {
	fromAsset, ok := aidToMayachainAsset(edge.SellAID)
	if !ok {
		return failedStep(fmt.Errorf("mayachain: unmappable sell asset %s", edge.SellAID))
	}
	toAsset, ok := aidToMayachainAsset(edge.BuyAID)
	if !ok {
		return failedStep(fmt.Errorf("mayachain: unmappable buy asset %s", edge.BuyAID))
	}

	url := fmt.Sprintf("%s/mayachain/quote/swap?from_asset=%s&to_asset=%s&amount=%s&destination=%s",
		m.nodeURL, fromAsset, toAsset, sellBaseUnit.String(), receiveAddr)

	var resp thorchainQuoteResponse
	if err := getJSON(ctx, defaultTimeout, url, nil, &resp); err != nil {
		return failedStep(err)
	}
	out, err := decimal.NewFromString(resp.ExpectedAmountOut)
	if err != nil || out.Sign() <= 0 {
		return failedStep(fmt.Errorf("mayachain: invalid expected_amount_out %q", resp.ExpectedAmountOut))
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

func mayachainAssetToAID(asset string) (core.AID, string, bool) {
	parts := strings.SplitN(asset, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	chainID, ok := thorchainChainID(parts[0])
	if !ok {
		return "", "", false
	}
	return core.AID(chainID + "/mayaasset:" + parts[1]), chainID, true
}

func aidToMayachainAsset(aid core.AID) (string, bool) {
	if aid == mayachainNativeAID {
		return "MAYA.CACAO", true
	}
	s := string(aid)
	i := strings.Index(s, "/mayaasset:")
	if i < 0 {
		return "", false
	}
	chainID := s[:i]
	symbol := s[i+len("/mayaasset:"):]
	prefix, ok := thorchainChainPrefix(chainID)
	if !ok {
		return "", false
	}
	return prefix + "." + symbol, true
}
