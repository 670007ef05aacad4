package valuation

import "errors"

// Sentinel kinds for malformed inputs. They indicate a broken upstream
// contract and are never absorbed into a degenerate result.
var (
	ErrUnknownCategory   = errors.New("unknown stat category")
	ErrMalformedContract = errors.New("malformed reference contract")
	// ErrOutOfRange reports inputs whose inflation-adjusted baseline does
	// not fit in a float64.
	ErrOutOfRange = errors.New("valuation out of range")
)
