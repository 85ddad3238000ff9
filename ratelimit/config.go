/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"time"

	"github.com/acronis/go-crptapi/config"
)

const cfgDefaultKeyPrefix = "rateLimit"

const (
	cfgKeyAlgorithm = "algorithm"
	cfgKeyRate      = "rate"
	cfgKeyLimit     = "limit"
	cfgKeyInterval  = "interval"
)

// Rate limiting algorithms.
const (
	AlgFixedWindow = "fixed_window"
	AlgPermitPool  = "permit_pool"
	AlgPaced       = "paced"
)

// Default values.
const (
	DefaultLimit    = 10
	DefaultInterval = time.Second
)

var availableAlgorithms = []string{AlgFixedWindow, AlgPermitPool, AlgPaced}

// Config represents a set of configuration parameters for the outgoing requests rate limiter.
//
// Rate may be specified either as a single "rate" value in N/unit format (e.g. "2/s")
// or as a pair of "limit" and "interval" values. The "rate" value takes precedence.
type Config struct {
	Algorithm string        `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	Limit     int           `mapstructure:"limit" yaml:"limit" json:"limit"`
	Interval  time.Duration `mapstructure:"interval" yaml:"interval" json:"interval"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix returns a ConfigOption that sets a key prefix for parsing configuration parameters.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new instance of the Config.
func NewConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{keyPrefix: opts.keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	cfg := NewConfig(options...)
	cfg.Algorithm = AlgFixedWindow
	cfg.Limit = DefaultLimit
	cfg.Interval = DefaultInterval
	return cfg
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAlgorithm, AlgFixedWindow)
	dp.SetDefault(cfgKeyLimit, DefaultLimit)
	dp.SetDefault(cfgKeyInterval, DefaultInterval)
}

// Set sets rate limiter configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Algorithm, err = dp.GetStringFromSet(cfgKeyAlgorithm, availableAlgorithms, false); err != nil {
		return err
	}

	rateStr, err := dp.GetString(cfgKeyRate)
	if err != nil {
		return err
	}
	if rateStr != "" {
		r, parseErr := ParseRate(rateStr)
		if parseErr != nil {
			return dp.WrapKeyErr(cfgKeyRate, parseErr)
		}
		c.Limit, c.Interval = r.Count, r.Duration
		return nil
	}

	if c.Limit, err = dp.GetInt(cfgKeyLimit); err != nil {
		return err
	}
	if c.Limit < 1 {
		return dp.WrapKeyErr(cfgKeyLimit, fmt.Errorf("should be >= 1"))
	}
	if c.Interval, err = dp.GetDuration(cfgKeyInterval); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return dp.WrapKeyErr(cfgKeyInterval, fmt.Errorf("should be positive"))
	}
	return nil
}

// Rate returns the configured rate.
func (c *Config) Rate() Rate {
	return Rate{Count: c.Limit, Duration: c.Interval}
}

// New creates a new Limiter according to the configuration.
func New(cfg *Config, options ...Option) (Limiter, error) {
	switch cfg.Algorithm {
	case AlgFixedWindow, "":
		lim, err := NewFixedWindowLimiter(cfg.Rate(), options...)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgPermitPool:
		lim, err := NewPermitPoolLimiter(cfg.Rate(), options...)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgPaced:
		lim, err := NewPacedLimiter(cfg.Rate(), options...)
		if err != nil {
			return nil, err
		}
		return lim, nil
	}
	return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Algorithm)
}
