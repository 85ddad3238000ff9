/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Acquire when waiting for a permit was cancelled
// (the context was canceled or its deadline was exceeded). No permit is consumed in this case.
var ErrCancelled = errors.New("waiting for rate limit permit cancelled")

// ErrLimiterClosed is returned by Acquire when the limiter was closed.
var ErrLimiterClosed = errors.New("rate limiter closed")

// Rate validation errors.
var (
	ErrInvalidLimit    = errors.New("limit must be positive")
	ErrInvalidInterval = errors.New("interval must be positive")
)

// ConfigError is returned by limiter constructors when the rate is invalid.
type ConfigError struct {
	Rate  Rate
	Inner error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid rate limit %d per %s: %s", e.Rate.Count, e.Rate.Duration, e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *ConfigError) Unwrap() error {
	return e.Inner
}

func newCancelledError(ctxErr error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
}
