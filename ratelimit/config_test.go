/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptapi/config"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfgData string
		want    *Config
		wantErr string
	}{
		{
			name:    "defaults",
			cfgData: ``,
			want:    &Config{Algorithm: AlgFixedWindow, Limit: DefaultLimit, Interval: DefaultInterval},
		},
		{
			name: "limit and interval",
			cfgData: `
rateLimit:
  algorithm: permit_pool
  limit: 5
  interval: 100ms
`,
			want: &Config{Algorithm: AlgPermitPool, Limit: 5, Interval: 100 * time.Millisecond},
		},
		{
			name: "rate takes precedence",
			cfgData: `
rateLimit:
  algorithm: paced
  rate: 2/s
  limit: 5
  interval: 1m
`,
			want: &Config{Algorithm: AlgPaced, Limit: 2, Interval: time.Second},
		},
		{
			name: "unknown algorithm",
			cfgData: `
rateLimit:
  algorithm: token_bucket
`,
			wantErr: `rateLimit.algorithm: unknown value "token_bucket", should be one of [fixed_window permit_pool paced]`,
		},
		{
			name: "invalid rate",
			cfgData: `
rateLimit:
  rate: 2 per second
`,
			wantErr: `rateLimit.rate: incorrect format for rate "2 per second"`,
		},
		{
			name: "zero limit",
			cfgData: `
rateLimit:
  limit: 0
`,
			wantErr: "rateLimit.limit: should be >= 1",
		},
		{
			name: "negative interval",
			cfgData: `
rateLimit:
  interval: -1s
`,
			wantErr: "rateLimit.interval: should be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
				bytes.NewBufferString(tt.cfgData), config.DataTypeYAML, cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.want.keyPrefix = cfgDefaultKeyPrefix
			require.Equal(t, tt.want, cfg)
		})
	}
}

func TestConfig_WithKeyPrefix(t *testing.T) {
	cfg := NewConfig(WithKeyPrefix("crptapi.rateLimit"))
	cfgData := `
crptapi:
  rateLimit:
    rate: 100/m
`
	err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString(cfgData), config.DataTypeYAML, cfg)
	require.NoError(t, err)
	require.Equal(t, Rate{Count: 100, Duration: time.Minute}, cfg.Rate())
	require.Equal(t, "crptapi.rateLimit", cfg.KeyPrefix())
}

func TestNew(t *testing.T) {
	rate := Rate{Count: 2, Duration: time.Second}

	for _, alg := range []string{"", AlgFixedWindow, AlgPermitPool, AlgPaced} {
		cfg := NewDefaultConfig()
		cfg.Algorithm = alg
		cfg.Limit, cfg.Interval = rate.Count, rate.Duration

		lim, err := New(cfg)
		require.NoError(t, err, alg)
		require.Equal(t, rate, lim.Rate(), alg)
		require.NoError(t, lim.Close(), alg)
	}

	cfg := NewDefaultConfig()
	cfg.Algorithm = "unknown"
	_, err := New(cfg)
	require.EqualError(t, err, `unknown rate limiting algorithm "unknown"`)

	cfg = NewDefaultConfig()
	cfg.Limit = 0
	lim, err := New(cfg)
	require.ErrorIs(t, err, ErrInvalidLimit)
	require.Nil(t, lim)
}
