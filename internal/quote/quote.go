// =============================
// File: internal/quote/quote.go
// =============================

// Package quote simulates buys and sells against the active pricing
// source and returns exact, immutable quotes.
package quote

import (
	"context"
	"math/big"

	"github.com/rovshanmuradov/launchpad-engine/internal/amm"
	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
)

// Direction of a trade relative to the token.
type Direction uint8

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Sell {
		return "sell"
	}
	return "buy"
}

// Request carries one quote's full input. Local calculation reads the
// state fields; the live service needs only mint, direction and amount.
// Status is resolved once before the request is built and never
// re-read mid-computation.
type Request struct {
	Mint      string
	Direction Direction
	// AmountIn is lamports for buys, raw token units for sells.
	AmountIn uint64

	Status graduation.Status
	Config *curve.Config
	State  curve.State
	Pool   amm.Pool
	// FeeBps is applied to graduated swaps only when supplied.
	FeeBps uint16
}

// Quote is a pure computation result. It never mutates curve or pool
// state, and for a fixed Request repeated computation is bit-identical.
type Quote struct {
	Direction      Direction
	AmountIn       uint64
	AmountOut      uint64
	PreTradePrice  curve.Price
	PostTradePrice curve.Price
	PriceImpactBps int64
	AvgPrice       curve.Price
	// Degraded is set when supply data fell back past its preferred
	// source; the quote is still usable, just flagged stale.
	Degraded bool
}

// Source is one strategy for obtaining a quote. The live off-chain
// service and the local calculator both conform to it; a single quote
// always comes from exactly one source.
type Source interface {
	Name() string
	Quote(ctx context.Context, req Request) (*Quote, error)
}

// MinOut returns the slippage floor for a quoted output.
func MinOut(amountOut uint64, slippageBps uint16) uint64 {
	out := new(big.Int).SetUint64(amountOut)
	out.Mul(out, big.NewInt(int64(10_000-slippageBps)))
	out.Quo(out, big.NewInt(10_000))
	return out.Uint64()
}

// priceImpactBps returns (post-pre)/pre in basis points, signed.
func priceImpactBps(pre, post curve.Price) int64 {
	if pre == 0 {
		return 0
	}
	diff := new(big.Int).Sub(new(big.Int).SetUint64(uint64(post)), new(big.Int).SetUint64(uint64(pre)))
	diff.Mul(diff, big.NewInt(10_000))
	diff.Quo(diff, new(big.Int).SetUint64(uint64(pre)))
	return diff.Int64()
}

// avgPrice converts a filled (lamports, raw tokens) pair into the
// fixed-point average fill price.
func avgPrice(lamports, tokens uint64, decimals uint8) curve.Price {
	if tokens == 0 {
		return 0
	}
	num := new(big.Int).SetUint64(lamports)
	num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	num.Mul(num, big.NewInt(curve.PriceScale))
	num.Quo(num, new(big.Int).SetUint64(tokens))
	if !num.IsUint64() {
		return curve.Price(^uint64(0))
	}
	return curve.Price(num.Uint64())
}
