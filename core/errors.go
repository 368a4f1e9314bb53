package core

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a RouteError so HTTP boundaries can map
// it to a status code without string matching on the message.
type Kind string

const (
	KindValidation           Kind = "VALIDATION"
	KindAssetUnknown         Kind = "ASSET_UNKNOWN"
	KindNoRoute              Kind = "NO_ROUTE"
	KindMaxHopsExceeded      Kind = "MAX_HOPS_EXCEEDED"
	KindMaxXChainExceeded    Kind = "MAX_XCHAIN_EXCEEDED"
	KindProviderDisallowed   Kind = "PROVIDER_DISALLOWED"
	KindCircular             Kind = "CIRCULAR"
	KindQuoteFailed          Kind = "QUOTE_FAILED"
	KindNetwork              Kind = "NETWORK"
	KindInsufficientLiq      Kind = "INSUFFICIENT_LIQUIDITY"
	KindHighPriceImpact      Kind = "HIGH_PRICE_IMPACT"
	KindInvalidState         Kind = "INVALID_STATE"
	KindUnsupportedAssetChn  Kind = "UNSUPPORTED_ASSET_OR_CHAIN"
	KindNotFound             Kind = "NOT_FOUND"
)

// RouteError is the sole error type surfaced across component boundaries.
// Its Kind is a contract name from §7, not a Go type name.
type RouteError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *RouteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RouteError) Unwrap() error { return e.Err }

// NewError builds a RouteError with no wrapped cause.
func NewError(kind Kind, message string) *RouteError {
	return &RouteError{Kind: kind, Message: message}
}

// WrapError builds a RouteError that preserves an underlying cause.
func WrapError(kind Kind, message string, err error) *RouteError {
	return &RouteError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind of err if it is (or wraps) a *RouteError.
func KindOf(err error) (Kind, bool) {
	var re *RouteError
	if !errors.As(err, &re) {
		return "", false
	}
	return re.Kind, true
}
