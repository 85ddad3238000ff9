/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"fmt"
	"time"

	"github.com/acronis/go-crptapi/config"
)

// DefaultClientTimeout is a default timeout for a whole request, including waiting for a rate limit permit.
const DefaultClientTimeout = 30 * time.Second

const (
	cfgKeyTimeout                    = "timeout"
	cfgKeyRateLimitWaitTimeout       = "rateLimitWaitTimeout"
	cfgKeyLoggerEnabled              = "logger.enabled"
	cfgKeyLoggerMode                 = "logger.mode"
	cfgKeyLoggerSlowRequestThreshold = "logger.slowRequestThreshold"
	cfgKeyMetricsEnabled             = "metrics.enabled"
)

var availableLoggingModes = []string{string(LoggingModeNone), string(LoggingModeAll), string(LoggingModeFailed)}

// LoggerConfig represents configuration options for HTTP client logs.
type LoggerConfig struct {
	// Enabled is a flag that enables logging.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// SlowRequestThreshold is a threshold for slow requests. Faster requests are not logged.
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold" yaml:"slowRequestThreshold" json:"slowRequestThreshold"`

	// Mode of logging: none, all, failed.
	Mode LoggingMode `mapstructure:"mode" yaml:"mode" json:"mode"`
}

// TransportOpts returns transport options.
func (c *LoggerConfig) TransportOpts() LoggingRoundTripperOpts {
	return LoggingRoundTripperOpts{Mode: c.Mode, SlowRequestThreshold: c.SlowRequestThreshold}
}

// MetricsConfig represents configuration options for HTTP client metrics.
type MetricsConfig struct {
	// Enabled is a flag that enables metrics.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// Config represents options for HTTP client configuration.
type Config struct {
	// Timeout is the maximum time for a request, including the wait for a rate limit permit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// RateLimitWaitTimeout bounds the wait for a rate limit permit. Zero means the wait is bounded
	// by the request context only.
	RateLimitWaitTimeout time.Duration `mapstructure:"rateLimitWaitTimeout" yaml:"rateLimitWaitTimeout" json:"rateLimitWaitTimeout"`

	// Logger is a configuration for HTTP client logs.
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger" json:"logger"`

	// Metrics is a configuration for HTTP client metrics.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config.
// Key prefix is used for parsing configuration parameters, it may be empty.
func NewConfig(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout: DefaultClientTimeout,
		Logger:  LoggerConfig{Enabled: true, Mode: LoggingModeAll},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults is part of config interface implementation.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyTimeout, DefaultClientTimeout)
	dp.SetDefault(cfgKeyLoggerEnabled, true)
	dp.SetDefault(cfgKeyLoggerMode, string(LoggingModeAll))
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Timeout, err = dp.GetDuration(cfgKeyTimeout); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return dp.WrapKeyErr(cfgKeyTimeout, fmt.Errorf("cannot be negative"))
	}

	if c.RateLimitWaitTimeout, err = dp.GetDuration(cfgKeyRateLimitWaitTimeout); err != nil {
		return err
	}
	if c.RateLimitWaitTimeout < 0 {
		return dp.WrapKeyErr(cfgKeyRateLimitWaitTimeout, fmt.Errorf("cannot be negative"))
	}

	if err = c.setLoggerConfig(dp); err != nil {
		return err
	}

	c.Metrics.Enabled, err = dp.GetBool(cfgKeyMetricsEnabled)
	return err
}

func (c *Config) setLoggerConfig(dp config.DataProvider) error {
	var err error
	if c.Logger.Enabled, err = dp.GetBool(cfgKeyLoggerEnabled); err != nil {
		return err
	}
	if !c.Logger.Enabled {
		return nil
	}

	if c.Logger.SlowRequestThreshold, err = dp.GetDuration(cfgKeyLoggerSlowRequestThreshold); err != nil {
		return err
	}
	if c.Logger.SlowRequestThreshold < 0 {
		return dp.WrapKeyErr(cfgKeyLoggerSlowRequestThreshold, fmt.Errorf("cannot be negative"))
	}

	mode, err := dp.GetStringFromSet(cfgKeyLoggerMode, availableLoggingModes, false)
	if err != nil {
		return err
	}
	c.Logger.Mode = LoggingMode(mode)
	return nil
}
