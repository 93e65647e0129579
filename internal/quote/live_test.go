package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/rovshanmuradov/launchpad-engine/internal/graduation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLiveService_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testMint, r.URL.Query().Get("mint"))
		assert.Equal(t, "buy", r.URL.Query().Get("side"))
		fmt.Fprintf(w, `{"amount_out": 35000000000000, "pre_price": %d, "post_price": %d, "price_impact_bps": 320}`,
			28_000*curve.PriceScale, 29_000*curve.PriceScale)
	}))
	defer server.Close()

	svc := NewLiveService(server.URL, zap.NewNop())
	q, err := svc.Quote(context.Background(), bondingReq(t, Buy, curve.LamportsPerSOL, 0))
	require.NoError(t, err)

	assert.Equal(t, uint64(35_000_000_000_000), q.AmountOut)
	assert.Equal(t, curve.Price(28_000*curve.PriceScale), q.PreTradePrice)
	assert.Equal(t, int64(320), q.PriceImpactBps)
	assert.Positive(t, q.AvgPrice)
}

func TestLiveService_DerivesImpactWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"amount_out": 1000, "pre_price": %d, "post_price": %d}`,
			100*curve.PriceScale, 110*curve.PriceScale)
	}))
	defer server.Close()

	svc := NewLiveService(server.URL, zap.NewNop())
	q, err := svc.Quote(context.Background(), bondingReq(t, Buy, 500, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), q.PriceImpactBps, "10% move is 1000 bps")
}

func TestLiveService_EmptyFill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"amount_out": 0}`)
	}))
	defer server.Close()

	svc := NewLiveService(server.URL, zap.NewNop())
	_, err := svc.Quote(context.Background(), bondingReq(t, Buy, 500, 0))
	assert.Error(t, err)
}

func TestLiveService_RetriesAreBounded(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewLiveService(server.URL, zap.NewNop())
	_, err := svc.Quote(context.Background(), Request{
		Mint:      testMint,
		Direction: Buy,
		AmountIn:  500,
		Status:    graduation.StatusBonding,
	})
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&hits), int64(liveMaxTries), "retry loop must be bounded")
}
