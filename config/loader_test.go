/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testAPIConfig struct {
	URL string
}

func (c *testAPIConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("api.url", "https://ismp.crpt.ru/api/v3/lk/documents/create")
}

func (c *testAPIConfig) Set(dp DataProvider) error {
	var err error
	c.URL, err = dp.GetString("api.url")
	return err
}

type testLimitConfig struct {
	Limit int
}

func (c *testLimitConfig) KeyPrefix() string {
	return "rateLimit"
}

func (c *testLimitConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("limit", 10)
}

func (c *testLimitConfig) Set(dp DataProvider) error {
	var err error
	c.Limit, err = dp.GetInt("limit")
	return err
}

func TestLoader_LoadFromReader(t *testing.T) {
	t.Run("load config, use defaults", func(t *testing.T) {
		apiCfg := &testAPIConfig{}
		err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(`{}`), DataTypeJSON, apiCfg)
		require.NoError(t, err)
		require.Equal(t, "https://ismp.crpt.ru/api/v3/lk/documents/create", apiCfg.URL)
	})

	t.Run("load config", func(t *testing.T) {
		apiCfg := &testAPIConfig{}
		err := NewLoader(NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(`{"api":{"url":"http://localhost:8080/create"}}`), DataTypeJSON, apiCfg)
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8080/create", apiCfg.URL)
	})

	t.Run("load several configs, use key prefix", func(t *testing.T) {
		apiCfg := &testAPIConfig{}
		limitCfg := &testLimitConfig{}
		cfgData := `
api:
  url: http://localhost:8080/create
rateLimit:
  limit: 2
`
		err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(cfgData), DataTypeYAML, apiCfg, limitCfg)
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8080/create", apiCfg.URL)
		require.Equal(t, 2, limitCfg.Limit)
	})

	t.Run("error in value is wrapped with key", func(t *testing.T) {
		limitCfg := &testLimitConfig{}
		err := NewLoader(NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(`{"rateLimit":{"limit":"many"}}`), DataTypeJSON, limitCfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "rateLimit.limit")
	})
}

func TestLoader_LoadFromFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rateLimit:\n  limit: 5\n"), 0o600))

	limitCfg := &testLimitConfig{}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromFile(cfgPath, DataTypeYAML, limitCfg))
	require.Equal(t, 5, limitCfg.Limit)

	err := NewLoader(NewViperAdapter()).LoadFromFile(filepath.Join(t.TempDir(), "missing.yml"), DataTypeYAML, limitCfg)
	require.Error(t, err)
}

func TestNewDefaultLoader(t *testing.T) {
	t.Setenv("CRPTTEST_RATELIMIT_LIMIT", "7")

	limitCfg := &testLimitConfig{}
	require.NoError(t, NewDefaultLoader("crpttest").Load(limitCfg))
	require.Equal(t, 7, limitCfg.Limit)
}
