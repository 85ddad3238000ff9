/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient builds *http.Client instances whose transport is a chain of round trippers:
// request ID, User-Agent, client-side rate limiting, metrics and logging.
package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/acronis/go-crptapi/internal/libinfo"
	"github.com/acronis/go-crptapi/log"
	"github.com/acronis/go-crptapi/ratelimit"
)

// Opts provides options for New and Must functions.
type Opts struct {
	// Limiter is acquired once before each request. No rate limiting is done if it's nil.
	Limiter ratelimit.Acquirer

	// UserAgent is a user agent string. libinfo.UserAgent() is used if empty.
	UserAgent string

	// RequestType is a type of request used in logs and metrics, e.g. "create-document".
	RequestType string

	// Delegate is the next RoundTripper in the chain. A clone of http.DefaultTransport is used if nil.
	Delegate http.RoundTripper

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	RequestIDProvider func(ctx context.Context) string

	// Collector is a metrics collector. It's used only if metrics are enabled in the config.
	Collector MetricsCollector
}

// New wraps delegate transports with logging, metrics, rate limiting, user agent and request id round trippers.
// The order from the outermost: request id, user agent, rate limiting, metrics, logging.
// So request durations in logs and metrics don't include the time spent waiting for a permit.
func New(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Logger.Enabled {
		if cfg.Logger.Mode != "" && !cfg.Logger.Mode.IsValid() {
			return nil, fmt.Errorf("invalid logging mode %q", cfg.Logger.Mode)
		}
		logOpts := cfg.Logger.TransportOpts()
		logOpts.LoggerProvider = opts.LoggerProvider
		delegate = NewLoggingRoundTripperWithOpts(delegate, opts.RequestType, logOpts)
	}

	if cfg.Metrics.Enabled {
		delegate = NewMetricsRoundTripperWithOpts(delegate, MetricsRoundTripperOpts{
			RequestType: opts.RequestType,
			Collector:   opts.Collector,
		})
	}

	if opts.Limiter != nil {
		delegate = NewRateLimitingRoundTripperWithOpts(delegate, opts.Limiter, RateLimitingRoundTripperOpts{
			WaitTimeout: cfg.RateLimitWaitTimeout,
		})
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = libinfo.UserAgent()
	}
	delegate = NewUserAgentRoundTripper(delegate, userAgent)

	delegate = NewRequestIDRoundTripperWithOpts(delegate, RequestIDRoundTripperOpts{
		RequestIDProvider: opts.RequestIDProvider,
	})

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}, nil
}

// Must is like New but panics if any error occurs.
func Must(cfg *Config, opts Opts) *http.Client {
	client, err := New(cfg, opts)
	if err != nil {
		panic(err)
	}
	return client
}
