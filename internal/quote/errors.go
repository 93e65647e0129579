// =============================
// File: internal/quote/errors.go
// =============================
package quote

import "errors"

var (
	// ErrInvalidAmount rejects non-positive or unfillable trade sizes
	// before any math runs.
	ErrInvalidAmount = errors.New("quote: invalid amount")

	// ErrInsufficientSupply means a buy would exceed the curve's total
	// sellable supply.
	ErrInsufficientSupply = errors.New("quote: insufficient curve supply")

	// ErrInsufficientReserve means a sell exceeds what the curve or
	// pool can pay out.
	ErrInsufficientReserve = errors.New("quote: insufficient reserve")

	// ErrSuperseded marks a result whose request was overtaken by a
	// newer one for the same input stream; the result is dropped, never
	// applied. The underlying read may still have warmed the cache.
	ErrSuperseded = errors.New("quote: request superseded")
)
