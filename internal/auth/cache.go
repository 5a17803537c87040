package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drinks-service/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

const defaultRetryBackoff = 30 * time.Second

// CachingKeyProvider keeps the last fetched key set for a fixed TTL; a TTL of zero
// fetches on every call and never serves a previous set. Concurrent
// callers that find the cache cold share a single refresh. The refresh runs on its
// own timeout, so one caller giving up does not abort it for the others.
type CachingKeyProvider struct {
	inner        KeyProvider
	ttl          time.Duration
	fetchTimeout time.Duration
	retryBackoff time.Duration
	now          func() time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	group singleflight.Group

	mu        sync.RWMutex
	loaded    bool
	keys      KeySet
	expiresAt time.Time
}

type CacheOption func(*CachingKeyProvider)

func WithCacheClock(now func() time.Time) CacheOption {
	return func(p *CachingKeyProvider) {
		p.now = now
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(p *CachingKeyProvider) {
		p.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(p *CachingKeyProvider) {
		p.metrics = m
	}
}

// WithRetryBackoff sets how long a stale key set keeps being served after a
// failed refresh before the next refresh is attempted.
func WithRetryBackoff(d time.Duration) CacheOption {
	return func(p *CachingKeyProvider) {
		p.retryBackoff = d
	}
}

func NewCachingKeyProvider(inner KeyProvider, ttl, fetchTimeout time.Duration, opts ...CacheOption) *CachingKeyProvider {
	p := &CachingKeyProvider{
		inner:        inner,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		retryBackoff: defaultRetryBackoff,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CachingKeyProvider) KeySet(ctx context.Context) (KeySet, error) {
	if keys, ok := p.cached(); ok {
		return keys, nil
	}

	ch := p.group.DoChan(keySetFlightKey, func() (any, error) {
		return p.refresh()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(KeySet), nil
	}
}

// Invalidate makes the next KeySet call refresh from the inner provider.
func (p *CachingKeyProvider) Invalidate() {
	p.mu.Lock()
	p.expiresAt = time.Time{}
	p.mu.Unlock()
}

func (p *CachingKeyProvider) cached() (KeySet, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.loaded && p.now().Before(p.expiresAt) {
		return p.keys, true
	}
	return nil, false
}

func (p *CachingKeyProvider) refresh() (KeySet, error) {
	if keys, ok := p.cached(); ok {
		return keys, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.fetchTimeout)
	defer cancel()

	start := p.now()
	keys, err := p.inner.KeySet(ctx)
	elapsed := p.now().Sub(start)

	if err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()

		// A zero TTL disables caching, including the stale fallback.
		if !p.loaded || p.ttl <= 0 {
			p.metrics.ObserveKeySetFetch(resultError, elapsed)
			return nil, fmt.Errorf(errRefreshKeySetFmt, err)
		}

		p.metrics.ObserveKeySetFetch(resultStale, elapsed)
		p.logger.Warn("key set refresh failed, serving previous key set", "error", err, "retry_in", p.retryBackoff)
		p.expiresAt = p.now().Add(min(p.retryBackoff, p.ttl))
		return p.keys, nil
	}

	p.metrics.ObserveKeySetFetch(resultOK, elapsed)

	p.mu.Lock()
	p.loaded = true
	p.keys = keys
	p.expiresAt = p.now().Add(p.ttl)
	p.mu.Unlock()

	return keys, nil
}
