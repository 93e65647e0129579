// =============================
// File: internal/quote/engine.go
// =============================
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/rovshanmuradov/launchpad-engine/internal/amm"
	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
	"github.com/rovshanmuradov/launchpad-engine/internal/supply"
	"go.uber.org/zap"
)

// Engine is the quotation front door. It resolves the pricing source
// once per call, gathers the state snapshot, and obtains the quote from
// the live service when one is configured, falling back to the local
// calculator. A single quote never mixes the two.
type Engine struct {
	policy    *graduation.Policy
	tracker   *supply.Tracker
	reader    chain.Reader
	local     Source
	live      Source // nil when no live service is configured
	coalescer *coalescer
	logger    *zap.Logger
}

// Options tunes the engine; zero values select defaults.
type Options struct {
	// Live is the optional off-chain quoting service.
	Live Source
	// CoalesceWindow bounds identical-input deduplication.
	CoalesceWindow time.Duration
}

func NewEngine(policy *graduation.Policy, tracker *supply.Tracker, reader chain.Reader, logger *zap.Logger, opts Options) *Engine {
	return &Engine{
		policy:    policy,
		tracker:   tracker,
		reader:    reader,
		local:     NewCalculator(logger),
		live:      opts.Live,
		coalescer: newCoalescer(opts.CoalesceWindow),
		logger:    logger.Named("quote"),
	}
}

// BuyQuote prices solIn lamports of the mint.
func (e *Engine) BuyQuote(ctx context.Context, mint string, solIn uint64, cfg *curve.Config) (*Quote, error) {
	return e.quote(ctx, mint, Buy, solIn, cfg, 0)
}

// SellQuote prices tokensIn raw units of the mint.
func (e *Engine) SellQuote(ctx context.Context, mint string, tokensIn uint64, cfg *curve.Config) (*Quote, error) {
	return e.quote(ctx, mint, Sell, tokensIn, cfg, 0)
}

// QuoteWithFee is BuyQuote/SellQuote with an explicit graduated-swap
// fee. The bonding curve itself is always feeless.
func (e *Engine) QuoteWithFee(ctx context.Context, mint string, dir Direction, amountIn uint64, cfg *curve.Config, feeBps uint16) (*Quote, error) {
	return e.quote(ctx, mint, dir, amountIn, cfg, feeBps)
}

func (e *Engine) quote(ctx context.Context, mint string, dir Direction, amountIn uint64, cfg *curve.Config, feeBps uint16) (*Quote, error) {
	if amountIn == 0 {
		return nil, ErrInvalidAmount
	}
	if cfg == nil {
		return nil, fmt.Errorf("quote: missing curve config for %s", mint)
	}

	stream := fmt.Sprintf("%s/%s", mint, dir)
	key := fmt.Sprintf("%s/%d/%d", stream, amountIn, feeBps)

	return e.coalescer.do(ctx, stream, key, func(ctx context.Context) (*Quote, error) {
		return e.compute(ctx, mint, dir, amountIn, cfg, feeBps)
	})
}

func (e *Engine) compute(ctx context.Context, mint string, dir Direction, amountIn uint64, cfg *curve.Config, feeBps uint16) (*Quote, error) {
	req := Request{
		Mint:      mint,
		Direction: dir,
		AmountIn:  amountIn,
		Config:    cfg,
		FeeBps:    feeBps,
	}

	// Single authoritative source read per quote.
	status, err := e.policy.Status(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pricing source: %w", err)
	}
	req.Status = status

	var degraded bool
	if status == graduation.StatusGraduated {
		reserves, err := e.reader.PoolReserves(ctx, mint)
		if err != nil {
			return nil, fmt.Errorf("failed to read pool reserves: %w", err)
		}
		req.Pool = amm.Pool{SolReserves: reserves.Sol, TokenReserves: reserves.Token}
	} else {
		var sold uint64
		sold, degraded = e.tracker.TokensSold(ctx, mint)
		req.State = curve.State{TokensSold: sold}
	}

	q, err := e.fromSource(ctx, req)
	if err != nil {
		return nil, err
	}
	q.Degraded = q.Degraded || degraded
	return q, nil
}

// fromSource tries the live service first when available, then the
// local calculator. One source per quote; a live failure means the
// whole quote is recomputed locally, never patched.
func (e *Engine) fromSource(ctx context.Context, req Request) (*Quote, error) {
	if e.live != nil {
		q, err := e.live.Quote(ctx, req)
		if err == nil {
			return q, nil
		}
		e.logger.Warn("Live quote unavailable, computing locally",
			zap.String("mint", req.Mint),
			zap.Error(err))
	}
	return e.local.Quote(ctx, req)
}
