/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// PacedLimiter admits callers one by one, evenly spaced by Rate.Duration/Rate.Count.
// It never exceeds Rate.Count permits per Rate.Duration, but unlike FixedWindowLimiter
// it doesn't admit a burst after an idle period.
type PacedLimiter struct {
	rate    Rate
	clock   clockwork.Clock
	limiter *rate.Limiter
}

var _ Limiter = (*PacedLimiter)(nil)

// NewPacedLimiter creates a new PacedLimiter.
func NewPacedLimiter(r Rate, options ...Option) (*PacedLimiter, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	// Round the emission interval up, so the budget is never exceeded due to integer division.
	emission := (r.Duration + time.Duration(r.Count) - 1) / time.Duration(r.Count)
	opts := makeOptions(options)
	return &PacedLimiter{rate: r, clock: opts.clock, limiter: rate.NewLimiter(rate.Every(emission), 1)}, nil
}

// Acquire blocks until the next evenly spaced slot or until ctx is done.
// A cancelled wait gives its reserved slot back.
func (l *PacedLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newCancelledError(err)
	}
	now := l.clock.Now()
	res := l.limiter.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	if delay == 0 {
		return nil
	}
	if err := waitFor(ctx, l.clock, delay); err != nil {
		res.CancelAt(l.clock.Now())
		return err
	}
	return nil
}

// Rate returns the rate the limiter was constructed with.
func (l *PacedLimiter) Rate() Rate {
	return l.rate
}

// Close does nothing, PacedLimiter owns no background resources.
func (l *PacedLimiter) Close() error {
	return nil
}
