/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector represents a collector of metrics for rate limiting.
type MetricsCollector interface {
	// IncGranted increments the total number of granted permits.
	IncGranted()

	// IncCancelled increments the total number of cancelled waits.
	IncCancelled()

	// ObserveWaitDuration observes how long a caller spent inside Acquire.
	ObserveWaitDuration(d time.Duration)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents Prometheus metrics for rate limiting.
type PrometheusMetrics struct {
	GrantedTotal   prometheus.Counter
	CancelledTotal prometheus.Counter
	WaitDurations  prometheus.Histogram
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		GrantedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_permits_granted_total",
			Help:        "Number of granted rate limit permits.",
			ConstLabels: opts.ConstLabels,
		}),
		CancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_waits_cancelled_total",
			Help:        "Number of cancelled waits for rate limit permits.",
			ConstLabels: opts.ConstLabels,
		}),
		WaitDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_wait_duration_seconds",
			Help:        "A histogram of the time spent waiting for rate limit permits.",
			Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegister registers metrics in Prometheus client and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.GrantedTotal, pm.CancelledTotal, pm.WaitDurations)
}

// Unregister cancels registration of metrics in Prometheus client.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.GrantedTotal)
	prometheus.Unregister(pm.CancelledTotal)
	prometheus.Unregister(pm.WaitDurations)
}

// IncGranted increments the total number of granted permits.
func (pm *PrometheusMetrics) IncGranted() {
	pm.GrantedTotal.Inc()
}

// IncCancelled increments the total number of cancelled waits.
func (pm *PrometheusMetrics) IncCancelled() {
	pm.CancelledTotal.Inc()
}

// ObserveWaitDuration observes how long a caller spent inside Acquire.
func (pm *PrometheusMetrics) ObserveWaitDuration(d time.Duration) {
	pm.WaitDurations.Observe(d.Seconds())
}

// InstrumentedAcquirer wraps an Acquirer and reports its outcomes to MetricsCollector.
// Wait durations are measured with the clock passed via WithClock, the real clock is used otherwise.
type InstrumentedAcquirer struct {
	Delegate  Acquirer
	Collector MetricsCollector

	clock clockwork.Clock
}

// NewInstrumentedAcquirer creates a new InstrumentedAcquirer.
func NewInstrumentedAcquirer(delegate Acquirer, collector MetricsCollector, options ...Option) *InstrumentedAcquirer {
	opts := makeOptions(options)
	return &InstrumentedAcquirer{Delegate: delegate, Collector: collector, clock: opts.clock}
}

// Acquire calls the underlying Acquirer and collects metrics.
func (a *InstrumentedAcquirer) Acquire(ctx context.Context) error {
	clock := a.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	startTime := clock.Now()
	err := a.Delegate.Acquire(ctx)
	a.Collector.ObserveWaitDuration(clock.Since(startTime))
	switch {
	case err == nil:
		a.Collector.IncGranted()
	case errors.Is(err, ErrCancelled):
		a.Collector.IncCancelled()
	}
	return err
}
