/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option is a functional option for limiter constructors.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock sets the time source used by the limiter.
// The real clock (clockwork.NewRealClock) is used by default; its readings are monotonic,
// so adjusting the system clock never resets a window prematurely.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func makeOptions(opts []Option) options {
	res := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// waitFor suspends the calling goroutine for d or until ctx is done, whichever happens first.
func waitFor(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	timer := clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return newCancelledError(ctx.Err())
	}
}
