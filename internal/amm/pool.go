// =============================
// File: internal/amm/pool.go
// =============================

// Package amm holds the constant-product math used once a launch has
// graduated out of its bonding curve into a pooled market.
package amm

import (
	"fmt"
	"math/big"

	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
)

// Pool is a snapshot of post-graduation reserves. Both sides must be
// strictly positive while the pool is live.
type Pool struct {
	SolReserves   uint64 // lamports
	TokenReserves uint64 // raw token units
}

// Validate rejects reserve snapshots that cannot price anything.
func (p Pool) Validate() error {
	if p.SolReserves == 0 || p.TokenReserves == 0 {
		return fmt.Errorf("amm: pool has empty reserves (sol=%d token=%d)", p.SolReserves, p.TokenReserves)
	}
	return nil
}

// SpotPrice returns the pool's instantaneous price as fixed-point
// lamports per whole token: solReserves * 10^decimals * PriceScale / tokenReserves.
func (p Pool) SpotPrice(decimals uint8) curve.Price {
	num := new(big.Int).SetUint64(p.SolReserves)
	num.Mul(num, unit(decimals))
	num.Mul(num, big.NewInt(curve.PriceScale))
	num.Quo(num, new(big.Int).SetUint64(p.TokenReserves))
	if !num.IsUint64() {
		return curve.Price(^uint64(0))
	}
	return curve.Price(num.Uint64())
}

// SwapOut computes the constant-product output for amountIn of the
// input side: out = y*a*(1-fee) / (x + a*(1-fee)), floor-rounded. Fee is
// in basis points and applied only when explicitly supplied; feeBps of 0
// means a feeless swap.
func SwapOut(inReserves, outReserves, amountIn uint64, feeBps uint16) uint64 {
	a := new(big.Int).SetUint64(amountIn)
	if feeBps > 0 {
		a.Mul(a, big.NewInt(int64(10_000-feeBps)))
		a.Quo(a, big.NewInt(10_000))
	}

	num := new(big.Int).Mul(new(big.Int).SetUint64(outReserves), a)
	den := new(big.Int).Add(new(big.Int).SetUint64(inReserves), a)
	num.Quo(num, den)
	if !num.IsUint64() {
		return ^uint64(0)
	}
	return num.Uint64()
}

// Apply returns the pool state after swapping amountIn lamports for
// tokensOut (buy) or tokensIn for lamportsOut (sell).
func (p Pool) Apply(solDelta int64, tokenDelta int64) Pool {
	next := p
	if solDelta >= 0 {
		next.SolReserves += uint64(solDelta)
	} else {
		next.SolReserves -= uint64(-solDelta)
	}
	if tokenDelta >= 0 {
		next.TokenReserves += uint64(tokenDelta)
	} else {
		next.TokenReserves -= uint64(-tokenDelta)
	}
	return next
}

func unit(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
