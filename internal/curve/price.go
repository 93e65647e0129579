// =============================
// File: internal/curve/price.go
// =============================
package curve

import "math/big"

const (
	// PriceScale is the fixed-point scale applied to all prices.
	// A Price of 1*PriceScale means one lamport per whole token.
	PriceScale = 1_000_000_000

	// LamportsPerSOL is the number of base units in one SOL.
	LamportsPerSOL = 1_000_000_000
)

// Price is a fixed-point price: lamports per whole token, scaled by
// PriceScale. All curve and pool math stays in this representation;
// floating point appears only in the display helpers below.
type Price uint64

// SOL converts the price to SOL per whole token for display.
func (p Price) SOL() float64 {
	return float64(p) / (PriceScale * LamportsPerSOL)
}

// Lamports converts the price to lamports per whole token for display.
func (p Price) Lamports() float64 {
	return float64(p) / PriceScale
}

func (p Price) bigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(p))
}

// clampUint64 collapses a non-negative big.Int into uint64 space.
// Values beyond uint64 saturate instead of wrapping.
func clampUint64(v *big.Int) uint64 {
	if v.Sign() <= 0 {
		return 0
	}
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}
