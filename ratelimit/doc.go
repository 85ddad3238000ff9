/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package ratelimit provides client-side throughput governors that bound the number of outgoing
// operations to at most Rate.Count per Rate.Duration.
//
// Every limiter implements the Acquirer interface: a single blocking Acquire call that must be made
// before each guarded action (usually one outgoing HTTP request). Callers under the budget are admitted
// immediately, excess callers are suspended until capacity becomes available again.
//
// Two interchangeable strategies are provided:
//   - FixedWindowLimiter counts permits granted since the start of the current window
//     under a single mutex and resets the counter lazily on the first call after the window elapsed.
//     The mutex is held only for the decision, waiting happens outside of it.
//   - PermitPoolLimiter keeps a pool of permits that is refilled to full by a ticker every interval.
//
// Both produce the same admission timing. PacedLimiter is a stricter alternative that spreads
// admissions evenly over the interval and never allows bursts.
//
// Limiters do not guarantee FIFO ordering between callers contending for the same window.
// A cancelled Acquire (see context.Context) never consumes a permit and returns an error
// that matches ErrCancelled.
package ratelimit
