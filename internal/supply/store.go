// =============================
// File: internal/supply/store.go
// =============================
package supply

import (
	"sync"

	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
)

// Store is the off-chain launch-record cache at its boundary: a fast
// authoritative hint for tokens sold and an optional cached price. The
// backing service (metadata DB, indexer) lives outside this module.
type Store interface {
	// TokensSoldHint returns the ledger's tokens-sold value if present.
	TokensSoldHint(mint string) (uint64, bool)
	// CachedPrice returns a recently stored price if present.
	CachedPrice(mint string) (curve.Price, bool)
}

// MemoryStore is a mutex-guarded in-memory Store, used when embedding
// the engine without an external record service and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	sold   map[string]uint64
	prices map[string]curve.Price
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sold:   make(map[string]uint64),
		prices: make(map[string]curve.Price),
	}
}

func (s *MemoryStore) TokensSoldHint(mint string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sold[mint]
	return v, ok
}

func (s *MemoryStore) CachedPrice(mint string) (curve.Price, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[mint]
	return p, ok
}

// SetTokensSold records a confirmed tokens-sold value for a mint.
func (s *MemoryStore) SetTokensSold(mint string, sold uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sold[mint] = sold
}

// SetPrice records a display price for a mint.
func (s *MemoryStore) SetPrice(mint string, price curve.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[mint] = price
}
