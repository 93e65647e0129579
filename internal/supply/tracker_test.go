package supply

import (
	"context"
	"errors"
	"testing"

	"github.com/rovshanmuradov/launchpad-engine/internal/chain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testMint = "MintLikeBase58StringForTests11111111111111"

type fakeReader struct {
	sold uint64
	err  error
}

func (f *fakeReader) TokensSold(context.Context, string) (uint64, error) {
	return f.sold, f.err
}

func (f *fakeReader) PoolReserves(context.Context, string) (chain.Reserves, error) {
	return chain.Reserves{}, nil
}

func (f *fakeReader) GraduationFlag(context.Context, string) (bool, error) {
	return false, nil
}

func TestTokensSold_StoreHintWins(t *testing.T) {
	store := NewMemoryStore()
	store.SetTokensSold(testMint, 5_000)
	tracker := NewTracker(store, &fakeReader{sold: 9_999}, zap.NewNop())

	sold, degraded := tracker.TokensSold(context.Background(), testMint)
	assert.Equal(t, uint64(5_000), sold, "the ledger hint is the preferred source")
	assert.False(t, degraded)
}

func TestTokensSold_ChainFallbackIsDegraded(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), &fakeReader{sold: 9_999}, zap.NewNop())

	sold, degraded := tracker.TokensSold(context.Background(), testMint)
	assert.Equal(t, uint64(9_999), sold)
	assert.True(t, degraded, "falling past the preferred source must be flagged")
}

func TestTokensSold_ZeroFloorOnTotalFailure(t *testing.T) {
	tracker := NewTracker(nil, &fakeReader{err: errors.New("rpc down")}, zap.NewNop())

	sold, degraded := tracker.TokensSold(context.Background(), testMint)
	assert.Zero(t, sold, "failure floors at zero, never errors into pricing math")
	assert.True(t, degraded)
}

func TestTokensRemaining(t *testing.T) {
	store := NewMemoryStore()
	store.SetTokensSold(testMint, 400)
	tracker := NewTracker(store, nil, zap.NewNop())

	remaining, degraded := tracker.TokensRemaining(context.Background(), testMint, 1_000)
	assert.Equal(t, uint64(600), remaining)
	assert.False(t, degraded)

	store.SetTokensSold(testMint, 2_000)
	remaining, _ = tracker.TokensRemaining(context.Background(), testMint, 1_000)
	assert.Zero(t, remaining, "remaining clamps at zero")
}

func TestMemoryStore_Prices(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.CachedPrice(testMint)
	assert.False(t, ok)

	store.SetPrice(testMint, 12_345)
	price, ok := store.CachedPrice(testMint)
	assert.True(t, ok)
	assert.Equal(t, uint64(12_345), uint64(price))
}
