/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package fakeapi

import (
	"context"
	"fmt"
	"time"

	"github.com/RussellLuo/slidingwindow"
	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"

	"github.com/acronis/go-crptapi/lrucache"
	"github.com/acronis/go-crptapi/ratelimit"
)

// Limiter decides whether a request identified by key may be served.
type Limiter interface {
	Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error)
}

// LeakyBucketLimiter emulates a per-client quota enforced by GCRA, a leaky bucket variant
// (see https://brandur.org/rate-limiting#gcra). Unlike a fixed window it never lets
// a client send two full windows of requests back to back around a window boundary.
type LeakyBucketLimiter struct {
	gcra *throttled.GCRARateLimiterCtx
}

// NewLeakyBucketLimiter creates a LeakyBucketLimiter that serves maxRate requests per client.
// maxBurst is the number of extra requests a client may send simultaneously on top of the first one.
// At most maxKeys clients are tracked, the least recently seen one is forgotten first.
func NewLeakyBucketLimiter(maxRate ratelimit.Rate, maxBurst, maxKeys int) (*LeakyBucketLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	if maxBurst < 0 {
		return nil, fmt.Errorf("max burst should be non-negative, got %d", maxBurst)
	}
	store, err := memstore.NewCtx(maxKeys)
	if err != nil {
		return nil, fmt.Errorf("create clients store: %w", err)
	}
	quota := throttled.RateQuota{MaxRate: throttled.PerDuration(maxRate.Count, maxRate.Duration), MaxBurst: maxBurst}
	gcra, err := throttled.NewGCRARateLimiterCtx(store, quota)
	if err != nil {
		return nil, fmt.Errorf("create GCRA limiter for %s: %w", maxRate, err)
	}
	return &LeakyBucketLimiter{gcra: gcra}, nil
}

// Allow reports whether the client identified by key may submit a document now.
// For a rejected request retryAfter is the time until the bucket has room again.
func (l *LeakyBucketLimiter) Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	limited, res, err := l.gcra.RateLimitCtx(ctx, key, 1)
	if err != nil {
		return false, 0, fmt.Errorf("check quota of client %q: %w", key, err)
	}
	if !limited {
		return true, 0, nil // throttled reports -1 for served requests
	}
	return false, res.RetryAfter, nil
}

// SlidingWindowLimiter implements sliding window rate limiting algorithm.
type SlidingWindowLimiter struct {
	maxRate ratelimit.Rate
	windows *lrucache.LRUCache[string, *slidingwindow.Limiter]
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
// At most maxKeys windows are kept, the least recently used one is dropped to make room for a new key.
func NewSlidingWindowLimiter(maxRate ratelimit.Rate, maxKeys int) (*SlidingWindowLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	if maxKeys < 1 {
		return nil, fmt.Errorf("max keys should be positive, got %d", maxKeys)
	}
	windows, err := lrucache.New[string, *slidingwindow.Limiter](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("create windows cache: %w", err)
	}
	return &SlidingWindowLimiter{maxRate: maxRate, windows: windows}, nil
}

// Allow checks if the request should be allowed based on the rate limit.
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	if l.getLimiter(key).Allow() {
		return true, 0, nil
	}
	now := time.Now()
	retryAfter = now.Truncate(l.maxRate.Duration).Add(l.maxRate.Duration).Sub(now)
	return false, retryAfter, nil
}

func (l *SlidingWindowLimiter) getLimiter(key string) *slidingwindow.Limiter {
	lim, _ := l.windows.GetOrAdd(key, func() *slidingwindow.Limiter {
		newLim, _ := slidingwindow.NewLimiter(
			l.maxRate.Duration, int64(l.maxRate.Count), func() (slidingwindow.Window, slidingwindow.StopFunc) {
				return slidingwindow.NewLocalWindow()
			})
		return newLim
	})
	return lim
}
