/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptapi/log/logtest"
	"github.com/acronis/go-crptapi/ratelimit"
	"github.com/acronis/go-crptapi/testutil"
)

func newTestAppConfig(t *testing.T) *appConfig {
	t.Helper()
	cfg, err := loadAppConfig("", "5/100ms")
	require.NoError(t, err)
	cfg.API.HTTPClient.Logger.Enabled = false
	cfg.Demo.Workers = 3
	cfg.Demo.Documents = 12
	cfg.Demo.FakeServerEnabled = true
	cfg.FakeServer.Address = testutil.GetLocalAddrWithFreeTCPPort()
	cfg.FakeServer.Rate = ratelimit.Rate{Count: 5, Duration: 100 * time.Millisecond}
	cfg.FakeServer.Burst = 8
	return cfg
}

func TestRunDemo(t *testing.T) {
	cfg := newTestAppConfig(t)
	logger := logtest.NewRecorder()
	registry := prometheus.NewRegistry()

	stats, err := runDemo(context.Background(), cfg, logger, registry)
	require.NoError(t, err)
	require.Equal(t, runStats{Sent: 12}, stats)

	sent := logger.FindAllEntriesByFilter(func(entry logtest.RecordedEntry) bool {
		return entry.Text == "document sent"
	})
	require.Len(t, sent, 12)
	serverStats, found := logger.FindEntry("fake registration API server stats")
	require.True(t, found)
	rejected, found := serverStats.FindField("rejected")
	require.True(t, found)
	require.EqualValues(t, 0, rejected.Int)

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["crptdemo_rate_limit_permits_granted_total"])
	require.True(t, names["crptdemo_http_client_request_duration_seconds"])
}

func TestRunDemo_Cancelled(t *testing.T) {
	cfg := newTestAppConfig(t)
	cfg.RateLimit.Limit = 1
	cfg.RateLimit.Interval = time.Hour
	cfg.Demo.Documents = 5

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	stats, err := runDemo(ctx, cfg, logtest.NewRecorder(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Sent)
	require.Equal(t, int64(0), stats.Failed)
	require.GreaterOrEqual(t, stats.Cancelled, int64(1))
}
