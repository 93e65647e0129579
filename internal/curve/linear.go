// =============================
// File: internal/curve/linear.go
// =============================
package curve

import (
	"fmt"
	"math/big"
)

// Config describes one launch's bonding curve. It is immutable after
// NewConfig; the derived big.Int coefficients are cached on it so the
// hot pricing path never re-allocates them.
type Config struct {
	// TotalSupply is the curve's sellable supply in raw base units.
	TotalSupply uint64
	// Decimals is the token's mint precision (raw units per token = 10^Decimals).
	Decimals uint8
	// InitialPrice is price(0); TerminalPrice is price(TotalSupply).
	// The linear coefficients a, b are derived from these two targets:
	// b = InitialPrice, a = (TerminalPrice - InitialPrice) / TotalSupply.
	InitialPrice  Price
	TerminalPrice Price

	supply   *big.Int // TotalSupply
	span     *big.Int // TerminalPrice - InitialPrice, the "a" numerator
	initial  *big.Int // InitialPrice, the "b" term
	unit     *big.Int // 10^Decimals
	costDiv  *big.Int // 2 * TotalSupply * unit * PriceScale
	solScale *big.Int // 2 * TotalSupply * unit * PriceScale (alias kept for the inverse solve)
}

// State is a snapshot of a launch's curve progress. It is owned by the
// chain; quotes read it and never write it.
type State struct {
	TokensSold uint64
}

// NewConfig validates the price targets and caches the derived
// coefficients. A terminal price below the initial price would make the
// slope negative and the curve non-monotonic, so it is rejected here
// rather than trusted downstream.
func NewConfig(totalSupply uint64, decimals uint8, initial, terminal Price) (*Config, error) {
	if totalSupply == 0 {
		return nil, fmt.Errorf("curve: total supply must be positive")
	}
	if initial == 0 {
		return nil, fmt.Errorf("curve: initial price must be positive")
	}
	if terminal < initial {
		return nil, fmt.Errorf("curve: terminal price %d below initial price %d", terminal, initial)
	}

	c := &Config{
		TotalSupply:   totalSupply,
		Decimals:      decimals,
		InitialPrice:  initial,
		TerminalPrice: terminal,
	}

	c.supply = new(big.Int).SetUint64(totalSupply)
	c.span = new(big.Int).Sub(terminal.bigInt(), initial.bigInt())
	c.initial = initial.bigInt()
	c.unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	div := new(big.Int).Lsh(c.supply, 1) // 2 * TotalSupply
	div.Mul(div, c.unit)
	div.Mul(div, big.NewInt(PriceScale))
	c.costDiv = div
	c.solScale = div

	return c, nil
}

// PriceAt returns the spot price after tokensSold raw units have been
// sold: price(x) = b + a*x. Inputs beyond TotalSupply clamp to the
// terminal price.
func (c *Config) PriceAt(tokensSold uint64) Price {
	if tokensSold >= c.TotalSupply {
		return c.TerminalPrice
	}
	// initial + span * x / supply
	p := new(big.Int).SetUint64(tokensSold)
	p.Mul(p, c.span)
	p.Quo(p, c.supply)
	p.Add(p, c.initial)
	return Price(clampUint64(p))
}

// Initial returns price(0).
func (c *Config) Initial() Price {
	return c.InitialPrice
}

// CostBetween returns the exact lamport cost of the curve segment
// [from, to) in raw units: the definite integral of price(x), evaluated
// in integers and floor-rounded once at the end.
//
//	cost = (2*b*Ts*d + a_num*(2*from*d + d^2)) / (2*Ts*unit*PriceScale)
func (c *Config) CostBetween(from, to uint64) (uint64, error) {
	if to < from {
		return 0, fmt.Errorf("curve: inverted segment [%d, %d)", from, to)
	}
	if to > c.TotalSupply {
		return 0, fmt.Errorf("curve: segment end %d beyond total supply %d", to, c.TotalSupply)
	}

	d := new(big.Int).SetUint64(to - from)

	// 2*b*Ts*d
	base := new(big.Int).Lsh(c.initial, 1)
	base.Mul(base, c.supply)
	base.Mul(base, d)

	// a_num * (2*from*d + d^2)
	slope := new(big.Int).SetUint64(from)
	slope.Lsh(slope, 1)
	slope.Mul(slope, d)
	slope.Add(slope, new(big.Int).Mul(d, d))
	slope.Mul(slope, c.span)

	base.Add(base, slope)
	base.Quo(base, c.costDiv)
	return clampUint64(base), nil
}

// TokensForSol solves the buy inverse: the largest d (raw units) such
// that CostBetween(sold, sold+d) <= lamports. For the linear curve this
// is the non-negative root of a quadratic in d, taken with an integer
// square root so repeated calls are bit-identical.
func (c *Config) TokensForSol(sold, lamports uint64) uint64 {
	if lamports == 0 || sold >= c.TotalSupply {
		return 0
	}

	// A*d^2 + B*d = C  with
	// A = a_num, B = 2*(b*Ts + A*sold), C = 2*lamports*Ts*unit*PriceScale
	bTerm := new(big.Int).Mul(c.initial, c.supply)
	bTerm.Add(bTerm, new(big.Int).Mul(c.span, new(big.Int).SetUint64(sold)))
	bTerm.Lsh(bTerm, 1)

	cTerm := new(big.Int).SetUint64(lamports)
	cTerm.Mul(cTerm, c.solScale)

	var d *big.Int
	if c.span.Sign() == 0 {
		// Flat curve: d = C / B.
		d = cTerm.Quo(cTerm, bTerm)
	} else {
		// d = (-B + sqrt(B^2 + 4*A*C)) / (2*A)
		disc := new(big.Int).Mul(bTerm, bTerm)
		quad := new(big.Int).Lsh(new(big.Int).Mul(c.span, cTerm), 2)
		disc.Add(disc, quad)
		disc.Sqrt(disc)
		disc.Sub(disc, bTerm)
		d = disc.Quo(disc, new(big.Int).Lsh(c.span, 1))
	}

	out := clampUint64(d)
	if remaining := c.TotalSupply - sold; out > remaining {
		out = remaining
	}
	return out
}
