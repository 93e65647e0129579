// =============================
// File: internal/quote/calculator.go
// =============================
package quote

import (
	"context"
	"fmt"

	"github.com/rovshanmuradov/launchpad-engine/internal/amm"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
	"go.uber.org/zap"
)

// Calculator is the local deterministic quote source. All math is
// synchronous integer arithmetic over the state supplied in the
// request; it performs no I/O and is safe for concurrent use.
type Calculator struct {
	logger *zap.Logger
}

func NewCalculator(logger *zap.Logger) *Calculator {
	return &Calculator{logger: logger.Named("calc")}
}

func (c *Calculator) Name() string { return "local" }

// Quote implements Source.
func (c *Calculator) Quote(_ context.Context, req Request) (*Quote, error) {
	if req.AmountIn == 0 {
		return nil, ErrInvalidAmount
	}
	if req.Config == nil {
		return nil, fmt.Errorf("quote: missing curve config for %s", req.Mint)
	}

	var (
		q   *Quote
		err error
	)
	if req.Status == graduation.StatusGraduated {
		q, err = c.poolQuote(req)
	} else {
		q, err = c.curveQuote(req)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Computed local quote",
		zap.String("mint", req.Mint),
		zap.String("direction", req.Direction.String()),
		zap.String("status", req.Status.String()),
		zap.Uint64("amount_in", q.AmountIn),
		zap.Uint64("amount_out", q.AmountOut),
		zap.Int64("price_impact_bps", q.PriceImpactBps))

	return q, nil
}

// curveQuote prices against the bonding curve: the buy solves the
// integral inverse, the sell evaluates the integral directly.
func (c *Calculator) curveQuote(req Request) (*Quote, error) {
	cfg := req.Config
	sold := req.State.TokensSold
	pre := cfg.PriceAt(sold)

	if req.Direction == Buy {
		remainingCost, err := cfg.CostBetween(sold, cfg.TotalSupply)
		if err != nil {
			return nil, err
		}
		if req.AmountIn > remainingCost {
			return nil, fmt.Errorf("%w: %d lamports exceeds remaining curve cost %d",
				ErrInsufficientSupply, req.AmountIn, remainingCost)
		}

		tokensOut := cfg.TokensForSol(sold, req.AmountIn)
		if tokensOut == 0 {
			return nil, fmt.Errorf("%w: %d lamports buys no units", ErrInvalidAmount, req.AmountIn)
		}

		post := cfg.PriceAt(sold + tokensOut)
		return &Quote{
			Direction:      Buy,
			AmountIn:       req.AmountIn,
			AmountOut:      tokensOut,
			PreTradePrice:  pre,
			PostTradePrice: post,
			PriceImpactBps: priceImpactBps(pre, post),
			AvgPrice:       avgPrice(req.AmountIn, tokensOut, cfg.Decimals),
		}, nil
	}

	if req.AmountIn > sold {
		return nil, fmt.Errorf("%w: selling %d units with only %d sold",
			ErrInsufficientReserve, req.AmountIn, sold)
	}

	payout, err := cfg.CostBetween(sold-req.AmountIn, sold)
	if err != nil {
		return nil, err
	}
	if payout == 0 {
		return nil, fmt.Errorf("%w: %d units pay out no lamports", ErrInvalidAmount, req.AmountIn)
	}

	post := cfg.PriceAt(sold - req.AmountIn)
	return &Quote{
		Direction:      Sell,
		AmountIn:       req.AmountIn,
		AmountOut:      payout,
		PreTradePrice:  pre,
		PostTradePrice: post,
		PriceImpactBps: priceImpactBps(pre, post),
		AvgPrice:       avgPrice(payout, req.AmountIn, cfg.Decimals),
	}, nil
}

// poolQuote prices against the constant-product pool.
func (c *Calculator) poolQuote(req Request) (*Quote, error) {
	pool := req.Pool
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	pre := pool.SpotPrice(req.Config.Decimals)

	if req.Direction == Buy {
		tokensOut := amm.SwapOut(pool.SolReserves, pool.TokenReserves, req.AmountIn, req.FeeBps)
		if tokensOut == 0 {
			return nil, fmt.Errorf("%w: %d lamports buys no units", ErrInvalidAmount, req.AmountIn)
		}
		if tokensOut >= pool.TokenReserves {
			return nil, fmt.Errorf("%w: buy would drain pool", ErrInsufficientReserve)
		}

		next := pool.Apply(int64(req.AmountIn), -int64(tokensOut))
		post := next.SpotPrice(req.Config.Decimals)
		return &Quote{
			Direction:      Buy,
			AmountIn:       req.AmountIn,
			AmountOut:      tokensOut,
			PreTradePrice:  pre,
			PostTradePrice: post,
			PriceImpactBps: priceImpactBps(pre, post),
			AvgPrice:       avgPrice(req.AmountIn, tokensOut, req.Config.Decimals),
		}, nil
	}

	lamportsOut := amm.SwapOut(pool.TokenReserves, pool.SolReserves, req.AmountIn, req.FeeBps)
	if lamportsOut == 0 {
		return nil, fmt.Errorf("%w: %d units pay out no lamports", ErrInvalidAmount, req.AmountIn)
	}
	if lamportsOut >= pool.SolReserves {
		return nil, fmt.Errorf("%w: sell would drain pool", ErrInsufficientReserve)
	}

	next := pool.Apply(-int64(lamportsOut), int64(req.AmountIn))
	post := next.SpotPrice(req.Config.Decimals)
	return &Quote{
		Direction:      Sell,
		AmountIn:       req.AmountIn,
		AmountOut:      lamportsOut,
		PreTradePrice:  pre,
		PostTradePrice: post,
		PriceImpactBps: priceImpactBps(pre, post),
		AvgPrice:       avgPrice(lamportsOut, req.AmountIn, req.Config.Decimals),
	}, nil
}
