/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptapi/crptapi"
	"github.com/acronis/go-crptapi/internal/fakeapi"
	"github.com/acronis/go-crptapi/ratelimit"
)

func writeConfigFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadAppConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadAppConfig("", "")
		require.NoError(t, err)
		require.Equal(t, ratelimit.PerSecond(2), cfg.RateLimit.Rate())
		require.Equal(t, ratelimit.AlgFixedWindow, cfg.RateLimit.Algorithm)
		require.Equal(t, crptapi.DefaultURL, cfg.API.URL)
		require.Equal(t, defaultWorkers, cfg.Demo.Workers)
		require.Equal(t, defaultDocuments, cfg.Demo.Documents)
		require.False(t, cfg.Demo.FakeServerEnabled)
		require.Equal(t, fakeapi.DefaultAddress, cfg.FakeServer.Address)
	})

	t.Run("file", func(t *testing.T) {
		path := writeConfigFile(t, `
log:
  level: debug
rateLimit:
  algorithm: permit_pool
  limit: 3
  interval: 500ms
crptapi:
  signatureHeader: X-Signature
demo:
  workers: 4
  documents: 8
  fakeServer:
    enabled: true
    address: 127.0.0.1:18090
    algorithm: sliding_window
    rate: 3/500ms
`)
		cfg, err := loadAppConfig(path, "")
		require.NoError(t, err)
		require.Equal(t, ratelimit.Rate{Count: 3, Duration: 500 * time.Millisecond}, cfg.RateLimit.Rate())
		require.Equal(t, ratelimit.AlgPermitPool, cfg.RateLimit.Algorithm)
		require.Equal(t, "X-Signature", cfg.API.SignatureHeader)
		require.Equal(t, 4, cfg.Demo.Workers)
		require.Equal(t, 8, cfg.Demo.Documents)
		require.True(t, cfg.Demo.FakeServerEnabled)
		require.Equal(t, "127.0.0.1:18090", cfg.FakeServer.Address)
		require.Equal(t, fakeapi.AlgSlidingWindow, cfg.FakeServer.Algorithm)
		require.Equal(t, "debug", string(cfg.Log.Level))
	})

	t.Run("rate override", func(t *testing.T) {
		path := writeConfigFile(t, `
rateLimit:
  limit: 3
  interval: 500ms
`)
		cfg, err := loadAppConfig(path, "100/m")
		require.NoError(t, err)
		require.Equal(t, ratelimit.Rate{Count: 100, Duration: time.Minute}, cfg.RateLimit.Rate())
	})

	t.Run("env vars", func(t *testing.T) {
		t.Setenv("CRPT_DEMO_WORKERS", "3")
		t.Setenv("CRPT_RATELIMIT_RATE", "7/s")
		cfg, err := loadAppConfig("", "")
		require.NoError(t, err)
		require.Equal(t, 3, cfg.Demo.Workers)
		require.Equal(t, ratelimit.PerSecond(7), cfg.RateLimit.Rate())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := loadAppConfig(filepath.Join(t.TempDir(), "missing.yml"), "")
		require.Error(t, err)

		_, err = loadAppConfig("", "fast")
		require.ErrorContains(t, err, `rateLimit.rate: incorrect format for rate "fast"`)

		_, err = loadAppConfig(writeConfigFile(t, "demo:\n  workers: 0\n"), "")
		require.EqualError(t, err, "demo.workers: should be >= 1")
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--workers", "2", "--documents", "5", "--fake-server"}))
	cfg := newAppConfig()
	cfg.Demo.Workers = 10
	require.NoError(t, applyFlagOverrides(cmd, cfg))
	require.Equal(t, 2, cfg.Demo.Workers)
	require.Equal(t, 5, cfg.Demo.Documents)
	require.True(t, cfg.Demo.FakeServerEnabled)

	cmd = newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--workers", "0"}))
	require.EqualError(t, applyFlagOverrides(cmd, newAppConfig()), "workers should be >= 1")
}
