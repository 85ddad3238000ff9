/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViperAdapter(t *testing.T) {
	cfgData := `
crptapi:
  url: http://localhost/create
  timeout: 5s
  metrics:
    enabled: true
log:
  level: debug
  file:
    rotation:
      maxSize: 250M
      compress: yes
rateLimit:
  algorithm: Permit_Pool
  limit: -1
`
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(cfgData), DataTypeYAML))

	t.Run("primitive values", func(t *testing.T) {
		url, err := va.GetString("crptapi.url")
		require.NoError(t, err)
		require.Equal(t, "http://localhost/create", url)

		timeout, err := va.GetDuration("crptapi.timeout")
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, timeout)

		enabled, err := va.GetBool("crptapi.metrics.enabled")
		require.NoError(t, err)
		require.True(t, enabled)

		limit, err := va.GetInt("rateLimit.limit")
		require.NoError(t, err)
		require.Equal(t, -1, limit)

		require.True(t, va.IsSet("log.level"))
		require.False(t, va.IsSet("log.format"))
	})

	t.Run("missing duration is zero", func(t *testing.T) {
		d, err := va.GetDuration("crptapi.missing")
		require.NoError(t, err)
		require.Zero(t, d)
	})

	t.Run("string from set", func(t *testing.T) {
		alg, err := va.GetStringFromSet("rateLimit.algorithm", []string{"fixed_window", "permit_pool"}, true)
		require.NoError(t, err)
		require.Equal(t, "Permit_Pool", alg)

		_, err = va.GetStringFromSet("rateLimit.algorithm", []string{"fixed_window", "permit_pool"}, false)
		require.EqualError(t, err, `rateLimit.algorithm: unknown value "Permit_Pool", should be one of [fixed_window permit_pool]`)
	})

	t.Run("byte size", func(t *testing.T) {
		size, err := va.GetByteSize("log.file.rotation.maxSize")
		require.NoError(t, err)
		require.Equal(t, ByteSize(250*1024*1024), size)

		va.Set("log.file.rotation.maxSize", 1024)
		size, err = va.GetByteSize("log.file.rotation.maxSize")
		require.NoError(t, err)
		require.Equal(t, ByteSize(1024), size)

		va.Set("log.file.rotation.maxSize", "1Ki")
		size, err = va.GetByteSize("log.file.rotation.maxSize")
		require.NoError(t, err)
		require.Equal(t, ByteSize(1024), size)

		va.Set("log.file.rotation.maxSize", -5)
		_, err = va.GetByteSize("log.file.rotation.maxSize")
		require.Error(t, err)

		va.Set("log.file.rotation.maxSize", "many")
		_, err = va.GetByteSize("log.file.rotation.maxSize")
		require.ErrorContains(t, err, "log.file.rotation.maxSize")
	})

	t.Run("unmarshal key", func(t *testing.T) {
		var metrics struct {
			Enabled bool
		}
		require.NoError(t, va.UnmarshalKey("crptapi.metrics", &metrics))
		require.True(t, metrics.Enabled)
	})
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(`{"rateLimit":{"limit":3,"interval":"2s"}}`), DataTypeJSON))
	kp := NewKeyPrefixedDataProvider(va, "rateLimit")

	limit, err := kp.GetInt("limit")
	require.NoError(t, err)
	require.Equal(t, 3, limit)

	interval, err := kp.GetDuration("interval")
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, interval)

	kp.SetDefault("algorithm", "fixed_window")
	alg, err := va.GetString("rateLimit.algorithm")
	require.NoError(t, err)
	require.Equal(t, "fixed_window", alg)

	require.EqualError(t, kp.WrapKeyErr("limit", errTest), "rateLimit.limit: test error")
}
