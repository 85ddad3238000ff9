/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/acronis/go-crptapi/ratelimit"
)

// RateLimitingRoundTripperOpts represents an options for RateLimitingRoundTripper.
type RateLimitingRoundTripperOpts struct {
	// WaitTimeout bounds the wait for a permit. Zero means no extra bound besides the request context.
	WaitTimeout time.Duration
}

// RateLimitingRoundTripper wraps http.RoundTripper and acquires exactly one permit
// from the shared limiter before each outgoing request.
type RateLimitingRoundTripper struct {
	Delegate    http.RoundTripper
	Limiter     ratelimit.Acquirer
	WaitTimeout time.Duration
}

// NewRateLimitingRoundTripper creates a new RateLimitingRoundTripper.
func NewRateLimitingRoundTripper(delegate http.RoundTripper, limiter ratelimit.Acquirer) *RateLimitingRoundTripper {
	return NewRateLimitingRoundTripperWithOpts(delegate, limiter, RateLimitingRoundTripperOpts{})
}

// NewRateLimitingRoundTripperWithOpts creates a new RateLimitingRoundTripper with options.
func NewRateLimitingRoundTripperWithOpts(
	delegate http.RoundTripper, limiter ratelimit.Acquirer, opts RateLimitingRoundTripperOpts,
) *RateLimitingRoundTripper {
	return &RateLimitingRoundTripper{Delegate: delegate, Limiter: limiter, WaitTimeout: opts.WaitTimeout}
}

// RoundTrip waits for a permit and executes a single HTTP transaction.
// If the wait is cancelled, the request is not sent and *RateLimitingWaitError is returned.
func (rt *RateLimitingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := rt.acquire(r.Context()); err != nil {
		if r.Body != nil {
			_ = r.Body.Close() // Per RoundTripper contract.
		}
		return nil, &RateLimitingWaitError{Inner: err}
	}
	return rt.Delegate.RoundTrip(r)
}

func (rt *RateLimitingRoundTripper) acquire(ctx context.Context) error {
	if rt.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.WaitTimeout)
		defer cancel()
	}
	return rt.Limiter.Acquire(ctx)
}

// RateLimitingWaitError is returned in RoundTrip method of RateLimitingRoundTripper
// when waiting for a permit was cancelled.
type RateLimitingWaitError struct {
	Inner error
}

func (e *RateLimitingWaitError) Error() string {
	return fmt.Sprintf("wait due to client side rate limiting: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *RateLimitingWaitError) Unwrap() error {
	return e.Inner
}
