// =============================
// File: internal/quote/coalesce.go
// =============================
package quote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCoalesceWindow bounds how long an identical quote input may be
// served from the coalescer's cache.
const DefaultCoalesceWindow = 10 * time.Second

// coalescer deduplicates concurrent quote work. Identical inputs within
// the window share one execution via singleflight; each (mint,
// direction) stream carries a generation counter so that a newer
// request supersedes an older in-flight one. Superseded results are
// dropped, never applied, though the completed work still warms the
// cache for reuse.
type coalescer struct {
	group  singleflight.Group
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	gens  map[string]uint64
	cache map[string]coalesced
}

type coalesced struct {
	quote *Quote
	at    time.Time
}

func newCoalescer(window time.Duration) *coalescer {
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &coalescer{
		window: window,
		now:    time.Now,
		gens:   make(map[string]uint64),
		cache:  make(map[string]coalesced),
	}
}

// do runs fn at most once per key within the window. stream identifies
// the logical input stream whose latest request wins.
func (c *coalescer) do(ctx context.Context, stream, key string, fn func(context.Context) (*Quote, error)) (*Quote, error) {
	gen := c.enter(stream)

	if q, ok := c.cached(key); ok {
		return q, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		q, err := fn(ctx)
		if err == nil {
			c.store(key, q)
		}
		return q, err
	})
	if err != nil {
		return nil, err
	}

	if !c.latest(stream, gen) {
		return nil, ErrSuperseded
	}
	return v.(*Quote), nil
}

func (c *coalescer) enter(stream string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[stream]++
	return c.gens[stream]
}

func (c *coalescer) latest(stream string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[stream] == gen
}

func (c *coalescer) cached(key string) (*Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || c.now().Sub(entry.at) > c.window {
		delete(c.cache, key)
		return nil, false
	}
	return entry.quote, true
}

func (c *coalescer) store(key string, q *Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = coalesced{quote: q, at: c.now()}
}
