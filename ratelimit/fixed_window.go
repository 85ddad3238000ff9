/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// FixedWindowLimiter grants at most Rate.Count permits per window of Rate.Duration.
// A window starts with the first call made after the previous window fully elapsed.
type FixedWindowLimiter struct {
	rate  Rate
	clock clockwork.Clock

	mu          sync.Mutex
	windowStart time.Time
	granted     int
}

var _ Limiter = (*FixedWindowLimiter)(nil)

// NewFixedWindowLimiter creates a new FixedWindowLimiter.
func NewFixedWindowLimiter(rate Rate, options ...Option) (*FixedWindowLimiter, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	opts := makeOptions(options)
	return &FixedWindowLimiter{rate: rate, clock: opts.clock, windowStart: opts.clock.Now()}, nil
}

// Acquire blocks until a permit is granted or ctx is done.
// The internal lock is never held while waiting, so callers that fit into the budget
// are not serialized behind the waiting ones.
func (l *FixedWindowLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newCancelledError(err)
	}
	for {
		allow, retryAfter := l.TryAcquire()
		if allow {
			return nil
		}
		if err := waitFor(ctx, l.clock, retryAfter); err != nil {
			return err
		}
	}
}

// TryAcquire grants a permit if the current window is not exhausted.
// Otherwise, it returns false and the time remaining until the window ends.
func (l *FixedWindowLimiter) TryAcquire() (allow bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Before(l.windowStart) {
		// Clock went backwards: the window restarts from now with its grants kept.
		l.windowStart = now
	}
	elapsed := now.Sub(l.windowStart)
	if elapsed >= l.rate.Duration {
		l.windowStart = now
		l.granted = 0
		elapsed = 0
	}
	if l.granted < l.rate.Count {
		l.granted++
		return true, 0
	}
	return false, l.rate.Duration - elapsed
}

// Rate returns the rate the limiter was constructed with.
func (l *FixedWindowLimiter) Rate() Rate {
	return l.rate
}

// Close does nothing, FixedWindowLimiter owns no background resources.
func (l *FixedWindowLimiter) Close() error {
	return nil
}
