// =============================
// File: internal/chain/reader.go
// =============================

// Package chain isolates every on-chain read behind a narrow interface
// so the pricing core never blocks on RPC itself.
package chain

import "context"

// Reserves is a point-in-time reserve snapshot for a launch: the curve
// vault while bonding, the pool vaults after graduation.
type Reserves struct {
	Sol   uint64 // lamports
	Token uint64 // raw token units
}

// Reader supplies the three chain facts the engine prices from. The
// chain is the source of truth; implementations return snapshots and
// never cache staleness away from the caller.
type Reader interface {
	// TokensSold returns cumulative raw units sold out of the launch curve.
	TokensSold(ctx context.Context, mint string) (uint64, error)
	// PoolReserves returns the live reserve snapshot for the mint.
	PoolReserves(ctx context.Context, mint string) (Reserves, error)
	// GraduationFlag reports whether the launch has completed its curve.
	GraduationFlag(ctx context.Context, mint string) (bool, error)
}
