/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// PermitPoolLimiter keeps a pool of Rate.Count permits that is refilled to full every Rate.Duration
// by a background goroutine. Acquire takes a permit from the pool or waits until the next refill.
// Close must be called to stop the refilling goroutine.
type PermitPoolLimiter struct {
	rate    Rate
	permits chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

var _ Limiter = (*PermitPoolLimiter)(nil)

// NewPermitPoolLimiter creates a new PermitPoolLimiter with a full pool of permits.
func NewPermitPoolLimiter(rate Rate, options ...Option) (*PermitPoolLimiter, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	opts := makeOptions(options)
	l := &PermitPoolLimiter{
		rate:    rate,
		permits: make(chan struct{}, rate.Count),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	l.refill()
	go l.runRefilling(opts.clock.NewTicker(rate.Duration))
	return l, nil
}

// Acquire blocks until a permit is taken from the pool or ctx is done.
func (l *PermitPoolLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newCancelledError(err)
	}
	select {
	case <-l.stop:
		return ErrLimiterClosed
	default:
	}
	select {
	case <-l.permits:
		return nil
	case <-ctx.Done():
		return newCancelledError(ctx.Err())
	case <-l.stop:
		return ErrLimiterClosed
	}
}

// Rate returns the rate the limiter was constructed with.
func (l *PermitPoolLimiter) Rate() Rate {
	return l.rate
}

// Close stops refilling and wakes up all waiting callers with ErrLimiterClosed.
// It's safe to call Close multiple times.
func (l *PermitPoolLimiter) Close() error {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	<-l.done
	return nil
}

func (l *PermitPoolLimiter) runRefilling(ticker clockwork.Ticker) {
	defer close(l.done)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.Chan():
			l.refill()
		}
	}
}

// refill tops the pool up to Rate.Count permits.
func (l *PermitPoolLimiter) refill() {
	for {
		select {
		case l.permits <- struct{}{}:
		default:
			return
		}
	}
}
