/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptapi/config"
)

func loadConfig(t *testing.T, cfgData string, cfg *Config) error {
	t.Helper()
	return config.NewLoader(config.NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString(cfgData), config.DataTypeYAML, cfg)
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, loadConfig(t, ``, cfg))
		require.Equal(t, NewDefaultConfig(), cfg)
	})

	t.Run("file output with rotation", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, loadConfig(t, `
log:
  level: WARN
  format: text
  output: file
  nocolor: true
  file:
    path: crptdemo-{{pid}}.log
    rotation:
      compress: true
      maxSize: 100M
      maxBackups: 42
      maxAgeDays: 7
  addCaller: true
`, cfg))

		want := NewDefaultConfig()
		want.Level = LevelWarn
		want.Format = FormatText
		want.Output = OutputFile
		want.NoColor = true
		want.File.Path = "crptdemo-{{pid}}.log"
		want.File.Rotation.Compress = true
		want.File.Rotation.MaxSize = 100 * 1024 * 1024
		want.File.Rotation.MaxBackups = 42
		want.File.Rotation.MaxAgeDays = 7
		want.AddCaller = true
		require.Equal(t, want, cfg)
	})

	t.Run("masking rules", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, loadConfig(t, `
log:
  masking:
    enabled: true
    useDefaultRules: false
    rules:
      - field: "api_key"
        formats: ["http_header", "json"]
        masks:
          - regexp: "<api_key>.+?</api_key>"
            mask: "<api_key>***</api_key>"
`, cfg))
		require.True(t, cfg.Masking.Enabled)
		require.False(t, cfg.Masking.UseDefaultRules)
		require.Equal(t, []MaskingRuleConfig{{
			Field:   "api_key",
			Formats: []FieldMaskFormat{FieldMaskFormatHTTPHeader, FieldMaskFormatJSON},
			Masks:   []MaskConfig{{RegExp: "<api_key>.+?</api_key>", Mask: "<api_key>***</api_key>"}},
		}}, cfg.Masking.Rules)
	})

	t.Run("custom key prefix", func(t *testing.T) {
		cfg := NewConfig(WithKeyPrefix("demo.log"))
		require.NoError(t, loadConfig(t, "demo:\n  log:\n    level: debug\n", cfg))
		require.Equal(t, LevelDebug, cfg.Level)
		require.Equal(t, "demo.log", cfg.KeyPrefix())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			cfgData string
			wantErr string
		}{
			{"log:\n  level: trace\n", `log.level: unknown value "trace"`},
			{"log:\n  format: xml\n", `log.format: unknown value "xml"`},
			{"log:\n  output: file\n", `log.file.path: cannot be empty when "file" output is used`},
			{"log:\n  file:\n    rotation:\n      maxSize: 1K\n", "log.file.rotation.maxSize: should be >= 1M"},
			{"log:\n  file:\n    rotation:\n      maxBackups: 0\n", "log.file.rotation.maxBackups: should be >= 1"},
			{"log:\n  file:\n    rotation:\n      maxAgeDays: -1\n", "log.file.rotation.maxAgeDays: should be >= 0"},
		}
		for _, tt := range tests {
			require.ErrorContains(t, loadConfig(t, tt.cfgData, NewConfig()), tt.wantErr)
		}
	})
}
