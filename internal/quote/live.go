// =============================
// File: internal/quote/live.go
// =============================
package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rovshanmuradov/launchpad-engine/internal/curve"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	liveRequestTimeout = 3 * time.Second
	liveMaxTries       = 3
	liveRetryDelay     = 200 * time.Millisecond
)

// LiveService fetches quotes from the off-chain quoting API. It
// conforms to the same Source contract as the local Calculator; the
// engine picks one of the two per call and never mixes them.
type LiveService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewLiveService(baseURL string, logger *zap.Logger) *LiveService {
	return &LiveService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: liveRequestTimeout},
		logger:  logger.Named("live"),
	}
}

func (s *LiveService) Name() string { return "live" }

// Quote implements Source. Retries are bounded; the context deadline
// caps the whole attempt, never an open-ended loop.
func (s *LiveService) Quote(ctx context.Context, req Request) (*Quote, error) {
	if req.AmountIn == 0 {
		return nil, ErrInvalidAmount
	}

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = liveRetryDelay
	backoffPolicy.MaxInterval = liveRetryDelay * 10

	notify := func(err error, duration time.Duration) {
		s.logger.Debug("Retrying live quote", zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() (*Quote, error) {
		return s.fetch(ctx, req)
	}

	q, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(liveMaxTries),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("live quote failed: %w", err)
	}
	return q, nil
}

func (s *LiveService) fetch(ctx context.Context, req Request) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/v1/quote?mint=%s&side=%s&amount=%d",
		s.baseURL, url.QueryEscape(req.Mint), req.Direction.String(), req.AmountIn)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}

	return parseLiveQuote(req, body)
}

// parseLiveQuote maps the service response onto the shared Quote
// contract. Missing derived fields are recomputed locally from the
// returned fill so both sources report the same shape.
func parseLiveQuote(req Request, body []byte) (*Quote, error) {
	out := gjson.GetBytes(body, "amount_out")
	if !out.Exists() || out.Uint() == 0 {
		return nil, fmt.Errorf("quote service returned empty fill")
	}

	q := &Quote{
		Direction:      req.Direction,
		AmountIn:       req.AmountIn,
		AmountOut:      out.Uint(),
		PreTradePrice:  curve.Price(gjson.GetBytes(body, "pre_price").Uint()),
		PostTradePrice: curve.Price(gjson.GetBytes(body, "post_price").Uint()),
	}

	if impact := gjson.GetBytes(body, "price_impact_bps"); impact.Exists() {
		q.PriceImpactBps = impact.Int()
	} else {
		q.PriceImpactBps = priceImpactBps(q.PreTradePrice, q.PostTradePrice)
	}

	decimals := uint8(0)
	if req.Config != nil {
		decimals = req.Config.Decimals
	}
	if req.Direction == Buy {
		q.AvgPrice = avgPrice(q.AmountIn, q.AmountOut, decimals)
	} else {
		q.AvgPrice = avgPrice(q.AmountOut, q.AmountIn, decimals)
	}

	return q, nil
}
