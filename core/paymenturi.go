package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// EncodePaymentURI builds a chain-prefixed payment URI for display (§4.9
// item 6). Grounded on the teacher's core/offchain_wallet.go
// StoreSignedTx/LoadSignedTx encode/decode-pair shape, repurposed from
// file I/O to URI string round-tripping (law in §8).
func EncodePaymentURI(chainID, depositAddress string, amountBaseUnit decimal.Decimal) (string, error) {
	scheme, ok := chainPrefix(chainID)
	if !ok {
		return "", NewError(KindUnsupportedAssetChn, chainID)
	}
	precision := precisionForChainPrefix(scheme)
	human := amountBaseUnit.Shift(int32(-precision))

	if scheme == "ethereum" {
		return fmt.Sprintf("%s:%s?value=%s", scheme, depositAddress, amountBaseUnit.String()), nil
	}
	v := url.Values{}
	v.Set("amount", human.String())
	return fmt.Sprintf("%s:%s?%s", scheme, depositAddress, v.Encode()), nil
}

func precisionForChainPrefix(scheme string) int {
	switch scheme {
	case "bitcoin", "litecoin", "dogecoin", "bitcoincash":
		return 8
	case "cosmos", "osmosis":
		return 6
	case "solana":
		return 9
	default:
		return 18
	}
}

// DecodePaymentURI parses a URI produced by EncodePaymentURI back into its
// deposit address and base-unit amount, satisfying the round-trip law of
// §8: decoding the encoding of {depositAddress, amount} returns the same
// pair.
func DecodePaymentURI(uri string) (depositAddress string, amountBaseUnit decimal.Decimal, err error) {
	schemeSplit := strings.SplitN(uri, ":", 2)
	if len(schemeSplit) != 2 {
		return "", decimal.Zero, NewError(KindValidation, "malformed payment uri")
	}
	scheme := schemeSplit[0]
	rest := schemeSplit[1]

	addrAndQuery := strings.SplitN(rest, "?", 2)
	addr := addrAndQuery[0]
	var query string
	if len(addrAndQuery) == 2 {
		query = addrAndQuery[1]
	}
	values, perr := url.ParseQuery(query)
	if perr != nil {
		return "", decimal.Zero, WrapError(KindValidation, "parse payment uri query", perr)
	}

	if scheme == "ethereum" {
		wei := values.Get("value")
		amt, derr := decimal.NewFromString(wei)
		if derr != nil {
			return "", decimal.Zero, WrapError(KindValidation, "parse wei amount", derr)
		}
		return addr, amt, nil
	}

	human := values.Get("amount")
	amt, derr := decimal.NewFromString(human)
	if derr != nil {
		return "", decimal.Zero, WrapError(KindValidation, "parse human amount", derr)
	}
	precision := precisionForChainPrefix(scheme)
	return addr, amt.Shift(int32(precision)), nil
}
