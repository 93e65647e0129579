// =============================
// File: internal/marketcap/snapshot.go
// =============================
package marketcap

import (
	"math/big"

	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/shopspring/decimal"
)

// Snapshot is one point-in-time valuation of a launch. It is an
// ephemeral value owned by the caller; stored history is copied out,
// never aliased.
type Snapshot struct {
	TimestampMs       int64
	Price             curve.Price
	PriceUSD          decimal.Decimal
	CirculatingSupply uint64 // raw units
	// MarketCap and FullyDiluted are lamport-exact: price times supply
	// in fixed-point, floored once.
	MarketCap        uint64 // lamports
	MarketCapUSD     decimal.Decimal
	FullyDiluted     uint64 // lamports
	FullyDilutedUSD  decimal.Decimal
	OracleDegraded   bool
	SupplyDegraded   bool
}

// capLamports computes price * supply exactly in lamports:
// price is scaled lamports per whole token, supply is raw units.
func capLamports(price curve.Price, supply uint64, decimals uint8) uint64 {
	num := new(big.Int).SetUint64(uint64(price))
	num.Mul(num, new(big.Int).SetUint64(supply))
	num.Quo(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	num.Quo(num, big.NewInt(curve.PriceScale))
	if !num.IsUint64() {
		return ^uint64(0)
	}
	return num.Uint64()
}

// usd converts a lamport amount to USD at the given rate, at display
// precision only.
func usd(lamports uint64, solUSD float64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).
		Div(decimal.NewFromInt(curve.LamportsPerSOL)).
		Mul(decimal.NewFromFloat(solUSD))
}

// priceUSD converts a fixed-point price to USD per whole token.
func priceUSD(price curve.Price, solUSD float64) decimal.Decimal {
	return decimal.NewFromUint64(uint64(price)).
		Div(decimal.NewFromInt(curve.PriceScale)).
		Div(decimal.NewFromInt(curve.LamportsPerSOL)).
		Mul(decimal.NewFromFloat(solUSD))
}
