// =============================
// File: internal/oracle/oracle.go
// =============================

// Package oracle supplies the SOL/USD conversion rate from an external
// price feed, cached and degradable.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrUnavailable is returned alongside the last known price when the
// feed cannot be reached; callers flag the result instead of failing.
var ErrUnavailable = errors.New("oracle: price feed unavailable")

// Feed supplies the SOL/USD rate.
type Feed interface {
	SolUSD(ctx context.Context) (float64, error)
}

const (
	defaultTTL      = 30 * time.Second
	requestTimeout  = 3 * time.Second
	maxTries        = 3
	retryDelay      = 200 * time.Millisecond
	defaultJSONPath = "solana.usd"
)

// Client is an HTTP price feed with a TTL cache. A fetch failure
// degrades to the last known value rather than erroring the caller's
// whole snapshot.
type Client struct {
	url      string
	jsonPath string
	client   *http.Client
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	lastPrice float64
	fetchedAt time.Time
}

// NewClient builds a feed polling the given URL. jsonPath selects the
// price field in the response; empty selects the default.
func NewClient(url, jsonPath string, ttl time.Duration, logger *zap.Logger) *Client {
	if jsonPath == "" {
		jsonPath = defaultJSONPath
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Client{
		url:      url,
		jsonPath: jsonPath,
		client:   &http.Client{Timeout: requestTimeout},
		ttl:      ttl,
		logger:   logger.Named("oracle"),
		now:      time.Now,
	}
}

// SolUSD implements Feed. On failure it returns the last known price
// (zero if none was ever fetched) together with ErrUnavailable.
func (c *Client) SolUSD(ctx context.Context) (float64, error) {
	c.mu.RLock()
	price, at := c.lastPrice, c.fetchedAt
	c.mu.RUnlock()
	if price > 0 && c.now().Sub(at) < c.ttl {
		return price, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("Oracle fetch failed, serving last known price",
			zap.Float64("last_price", price),
			zap.Error(err))
		return price, ErrUnavailable
	}

	c.mu.Lock()
	c.lastPrice = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return fresh, nil
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = retryDelay
	backoffPolicy.MaxInterval = retryDelay * 10

	operation := func() (float64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to build oracle request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return 0, fmt.Errorf("oracle request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return 0, fmt.Errorf("oracle returned %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err != nil {
			return 0, fmt.Errorf("failed to read oracle response: %w", err)
		}

		price := gjson.GetBytes(body, c.jsonPath).Float()
		if price <= 0 {
			return 0, fmt.Errorf("oracle returned non-positive price %f", price)
		}
		return price, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(maxTries))
}

// Static is a fixed-rate Feed for tests and offline use.
type Static float64

func (s Static) SolUSD(context.Context) (float64, error) {
	return float64(s), nil
}
