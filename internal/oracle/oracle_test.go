package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/launchpad-engine/internal/logger"
)

func TestClient_FetchesPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"solana":{"usd":151.42}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Minute, logger.Nop())

	price, err := c.SolUSD(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 151.42, price)
}

func TestClient_CustomJSONPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"price":"98.5"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "data.price", time.Minute, logger.Nop())

	price, err := c.SolUSD(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 98.5, price)
}

func TestClient_CachesWithinTTL(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"solana":{"usd":150}}`))
	}))
	defer server.Close()

	base := time.Now()
	clock := base
	c := NewClient(server.URL, "", 30*time.Second, logger.Nop())
	c.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		_, err := c.SolUSD(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), hits.Load(), "cached reads must not hit the feed")

	clock = base.Add(31 * time.Second)
	_, err := c.SolUSD(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load(), "expired cache refetches")
}

func TestClient_DegradesToLastKnownPrice(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"solana":{"usd":142}}`))
	}))
	defer server.Close()

	base := time.Now()
	clock := base
	c := NewClient(server.URL, "", 10*time.Second, logger.Nop())
	c.now = func() time.Time { return clock }

	price, err := c.SolUSD(context.Background())
	require.NoError(t, err)
	require.Equal(t, 142.0, price)

	fail.Store(true)
	clock = base.Add(11 * time.Second)

	price, err = c.SolUSD(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 142.0, price, "stale price still served alongside the error")
}

func TestClient_NoPriceYet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Minute, logger.Nop())

	price, err := c.SolUSD(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, price)
}

func TestClient_RejectsNonPositivePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"solana":{"usd":0}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Minute, logger.Nop())

	_, err := c.SolUSD(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStatic(t *testing.T) {
	price, err := Static(123.45).SolUSD(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 123.45, price)
}
