// =============================
// File: internal/supply/tracker.go
// =============================

// Package supply resolves how many tokens a launch has sold, preferring
// the off-chain ledger and falling back to chain reads.
package supply

import (
	"context"

	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"go.uber.org/zap"
)

// Tracker resolves tokens sold through a strict priority chain: store
// hint first, chain read second, zero floor last. The first satisfied
// source wins; the rest are skipped.
type Tracker struct {
	store  Store
	reader chain.Reader
	logger *zap.Logger
}

func NewTracker(store Store, reader chain.Reader, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:  store,
		reader: reader,
		logger: logger.Named("supply"),
	}
}

// TokensSold returns the cumulative raw units sold for a mint. The
// degraded flag is set whenever the preferred ledger source was not
// used, so callers can mark the result stale without failing it. A
// total source failure returns the zero floor, never an error into
// pricing math.
func (t *Tracker) TokensSold(ctx context.Context, mint string) (sold uint64, degraded bool) {
	if t.store != nil {
		if hint, ok := t.store.TokensSoldHint(mint); ok {
			return hint, false
		}
	}

	if t.reader != nil {
		chainSold, err := t.reader.TokensSold(ctx, mint)
		if err == nil {
			return chainSold, true
		}
		t.logger.Warn("Chain supply read failed, using zero floor",
			zap.String("mint", mint),
			zap.Error(err))
	}

	return 0, true
}

// TokensRemaining returns the unsold remainder, clamped at zero.
func (t *Tracker) TokensRemaining(ctx context.Context, mint string, totalSupply uint64) (uint64, bool) {
	sold, degraded := t.TokensSold(ctx, mint)
	if sold >= totalSupply {
		return 0, degraded
	}
	return totalSupply - sold, degraded
}
