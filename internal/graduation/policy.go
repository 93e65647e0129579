// =============================
// File: internal/graduation/policy.go
// =============================

// Package graduation decides which pricing source is authoritative for
// a launch: the bonding curve or the pooled market.
package graduation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"go.uber.org/zap"
)

// Status is the single authoritative pricing-source flag. It is read
// once per pricing operation; curve and pool math are never blended.
type Status uint8

const (
	StatusBonding Status = iota
	StatusGraduated
)

func (s Status) String() string {
	if s == StatusGraduated {
		return "graduated"
	}
	return "bonding"
}

// DefaultThresholdLamports is 30 SOL, the reserve level at which a
// launch leaves its curve.
const DefaultThresholdLamports = 30 * 1_000_000_000

// Policy resolves and remembers graduation per mint. The transition is
// one-way: once a mint is seen graduated it stays graduated regardless
// of later reads.
type Policy struct {
	reader    chain.Reader
	threshold uint64
	logger    *zap.Logger

	mu        sync.RWMutex
	graduated map[string]struct{}
}

// NewPolicy builds a Policy. A zero threshold selects the default.
func NewPolicy(reader chain.Reader, thresholdLamports uint64, logger *zap.Logger) *Policy {
	if thresholdLamports == 0 {
		thresholdLamports = DefaultThresholdLamports
	}
	return &Policy{
		reader:    reader,
		threshold: thresholdLamports,
		logger:    logger.Named("graduation"),
		graduated: make(map[string]struct{}),
	}
}

// Threshold returns the configured graduation threshold in lamports.
func (p *Policy) Threshold() uint64 {
	return p.threshold
}

// Status returns the mint's current pricing source. The chain flag is
// authoritative; reserves crossing the threshold also graduate the
// mint even if the flag read lagged behind.
func (p *Policy) Status(ctx context.Context, mint string) (Status, error) {
	p.mu.RLock()
	_, done := p.graduated[mint]
	p.mu.RUnlock()
	if done {
		return StatusGraduated, nil
	}

	flag, flagErr := p.reader.GraduationFlag(ctx, mint)
	if flagErr == nil && flag {
		p.markGraduated(mint, "chain flag")
		return StatusGraduated, nil
	}

	reserves, resErr := p.reader.PoolReserves(ctx, mint)
	if resErr == nil && reserves.Sol >= p.threshold {
		p.markGraduated(mint, "reserve threshold")
		return StatusGraduated, nil
	}

	if flagErr != nil && resErr != nil {
		return StatusBonding, fmt.Errorf("graduation status unavailable for %s: %w", mint, flagErr)
	}
	return StatusBonding, nil
}

func (p *Policy) markGraduated(mint, cause string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, done := p.graduated[mint]; done {
		return
	}
	p.graduated[mint] = struct{}{}
	p.logger.Info("Launch graduated to pooled pricing",
		zap.String("mint", mint),
		zap.String("cause", cause),
		zap.Uint64("threshold_lamports", p.threshold))
}
