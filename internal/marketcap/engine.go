// =============================
// File: internal/marketcap/engine.go
// =============================

// Package marketcap composes curve/pool price, supply and the SOL/USD
// oracle into displayable valuation snapshots with bounded history.
package marketcap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rovshanmuradov/launchpad-engine/internal/amm"
	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
	"github.com/rovshanmuradov/launchpad-engine/internal/oracle"
	"github.com/rovshanmuradov/launchpad-engine/internal/supply"
	"go.uber.org/zap"
)

const (
	// DefaultTTL bounds external reads per mint.
	DefaultTTL = 15 * time.Second
	// DefaultHistoryLimit caps the per-mint snapshot ring.
	DefaultHistoryLimit = 1000
)

// Engine computes market-cap snapshots. Results are cached per mint for
// a fixed TTL, invalidated purely by time, and appended to a capped
// per-mint history.
type Engine struct {
	policy  *graduation.Policy
	tracker *supply.Tracker
	reader  chain.Reader
	store   supply.Store // optional cached-price fast path
	feed    oracle.Feed
	logger  *zap.Logger

	ttl   time.Duration
	limit int
	now   func() time.Time

	mu      sync.RWMutex
	cache   map[string]cached
	history map[string][]Snapshot
}

type cached struct {
	snap Snapshot
	at   time.Time
}

// Options tunes the engine; zero values select defaults.
type Options struct {
	TTL          time.Duration
	HistoryLimit int
	// Store enables the cached-price fast path while bonding.
	Store supply.Store
}

func NewEngine(policy *graduation.Policy, tracker *supply.Tracker, reader chain.Reader, feed oracle.Feed, logger *zap.Logger, opts Options) *Engine {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Engine{
		policy:  policy,
		tracker: tracker,
		reader:  reader,
		store:   opts.Store,
		feed:    feed,
		logger:  logger.Named("marketcap"),
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
		cache:   make(map[string]cached),
		history: make(map[string][]Snapshot),
	}
}

// MarketCap returns the mint's current valuation snapshot, from cache
// when fresh. A failure for one mint never affects others.
func (e *Engine) MarketCap(ctx context.Context, mint string, cfg *curve.Config) (*Snapshot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("marketcap: missing curve config for %s", mint)
	}

	e.mu.RLock()
	entry, ok := e.cache[mint]
	e.mu.RUnlock()
	if ok && e.now().Sub(entry.at) < e.ttl {
		snap := entry.snap
		return &snap, nil
	}

	snap, err := e.compute(ctx, mint, cfg)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[mint] = cached{snap: *snap, at: e.now()}
	e.append(mint, *snap)
	e.mu.Unlock()

	return snap, nil
}

func (e *Engine) compute(ctx context.Context, mint string, cfg *curve.Config) (*Snapshot, error) {
	// One authoritative source read, then branch; no blending.
	status, err := e.policy.Status(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pricing source: %w", err)
	}

	sold, supplyDegraded := e.tracker.TokensSold(ctx, mint)

	var price curve.Price
	if status == graduation.StatusGraduated {
		reserves, err := e.reader.PoolReserves(ctx, mint)
		if err != nil {
			return nil, fmt.Errorf("failed to read pool reserves: %w", err)
		}
		pool := amm.Pool{SolReserves: reserves.Sol, TokenReserves: reserves.Token}
		if err := pool.Validate(); err != nil {
			return nil, err
		}
		price = pool.SpotPrice(cfg.Decimals)
	} else {
		if e.store != nil {
			if cachedPrice, ok := e.store.CachedPrice(mint); ok && cachedPrice > 0 {
				price = cachedPrice
			}
		}
		if price == 0 {
			price = cfg.PriceAt(sold)
		}
	}

	solUSD, oracleErr := e.feed.SolUSD(ctx)
	oracleDegraded := false
	if oracleErr != nil {
		if !errors.Is(oracleErr, oracle.ErrUnavailable) {
			return nil, fmt.Errorf("oracle read failed: %w", oracleErr)
		}
		oracleDegraded = true
	}

	circulating := capLamports(price, sold, cfg.Decimals)
	diluted := capLamports(price, cfg.TotalSupply, cfg.Decimals)

	snap := &Snapshot{
		TimestampMs:       e.now().UnixMilli(),
		Price:             price,
		PriceUSD:          priceUSD(price, solUSD),
		CirculatingSupply: sold,
		MarketCap:         circulating,
		MarketCapUSD:      usd(circulating, solUSD),
		FullyDiluted:      diluted,
		FullyDilutedUSD:   usd(diluted, solUSD),
		OracleDegraded:    oracleDegraded,
		SupplyDegraded:    supplyDegraded,
	}

	e.logger.Debug("Computed market cap snapshot",
		zap.String("mint", mint),
		zap.String("status", status.String()),
		zap.Uint64("price", uint64(price)),
		zap.Uint64("market_cap_lamports", circulating),
		zap.Bool("oracle_degraded", oracleDegraded),
		zap.Bool("supply_degraded", supplyDegraded))

	return snap, nil
}

// append adds a snapshot to the mint's ring, dropping the oldest entry
// once the cap is reached. Caller holds e.mu.
func (e *Engine) append(mint string, snap Snapshot) {
	ring := e.history[mint]
	if len(ring) >= e.limit {
		ring = ring[1:]
	}
	e.history[mint] = append(ring, snap)
}

// History returns the mint's snapshots within the window, newest last.
// The stored ring is copied, never mutated or aliased.
func (e *Engine) History(mint string, window time.Duration) []Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cutoff := e.now().Add(-window).UnixMilli()
	ring := e.history[mint]

	result := make([]Snapshot, 0, len(ring))
	for _, snap := range ring {
		if window <= 0 || snap.TimestampMs >= cutoff {
			result = append(result, snap)
		}
	}
	return result
}

// ChangePct returns the market-cap percent change across the window:
// zero with fewer than two points or a zero oldest value.
func (e *Engine) ChangePct(mint string, window time.Duration) float64 {
	points := e.History(mint, window)
	if len(points) < 2 {
		return 0
	}
	oldest := points[0]
	newest := points[len(points)-1]
	if oldest.MarketCap == 0 {
		return 0
	}
	return (float64(newest.MarketCap) - float64(oldest.MarketCap)) / float64(oldest.MarketCap) * 100
}
