/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package fakeapi

import (
	"fmt"

	"github.com/acronis/go-crptapi/config"
	"github.com/acronis/go-crptapi/ratelimit"
)

const cfgDefaultKeyPrefix = "fakeServer"

const (
	cfgKeyAddress   = "address"
	cfgKeyAlgorithm = "algorithm"
	cfgKeyRate      = "rate"
	cfgKeyBurst     = "burst"
	cfgKeyMaxKeys   = "maxKeys"
)

// Server-side rate limiting algorithms.
const (
	AlgLeakyBucket   = "leaky_bucket"
	AlgSlidingWindow = "sliding_window"
)

// Default values.
const (
	DefaultAddress = "127.0.0.1:8090"
	DefaultRate    = "10/s"
	DefaultMaxKeys = 1000
)

// Config represents a set of configuration parameters for the fake registration API server.
type Config struct {
	Address   string         `mapstructure:"address" yaml:"address" json:"address"`
	Algorithm string         `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	Rate      ratelimit.Rate `mapstructure:"rate" yaml:"rate" json:"rate"`
	// Burst is used by the leaky bucket algorithm only. Negative value means Rate.Count-1.
	Burst   int `mapstructure:"burst" yaml:"burst" json:"burst"`
	MaxKeys int `mapstructure:"maxKeys" yaml:"maxKeys" json:"maxKeys"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix.
// Empty prefix means the default one ("fakeServer").
func NewConfig(keyPrefix string) *Config {
	if keyPrefix == "" {
		keyPrefix = cfgDefaultKeyPrefix
	}
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Address:   DefaultAddress,
		Algorithm: AlgLeakyBucket,
		Rate:      ratelimit.PerSecond(10),
		Burst:     -1,
		MaxKeys:   DefaultMaxKeys,
		keyPrefix: cfgDefaultKeyPrefix,
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAddress, DefaultAddress)
	dp.SetDefault(cfgKeyAlgorithm, AlgLeakyBucket)
	dp.SetDefault(cfgKeyRate, DefaultRate)
	dp.SetDefault(cfgKeyBurst, -1)
	dp.SetDefault(cfgKeyMaxKeys, DefaultMaxKeys)
}

// Set sets fake server configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Address, err = dp.GetString(cfgKeyAddress); err != nil {
		return err
	}
	if c.Algorithm, err = dp.GetStringFromSet(cfgKeyAlgorithm, []string{AlgLeakyBucket, AlgSlidingWindow}, false); err != nil {
		return err
	}

	rateStr, err := dp.GetString(cfgKeyRate)
	if err != nil {
		return err
	}
	if c.Rate, err = ratelimit.ParseRate(rateStr); err != nil {
		return dp.WrapKeyErr(cfgKeyRate, err)
	}

	if c.Burst, err = dp.GetInt(cfgKeyBurst); err != nil {
		return err
	}
	if c.MaxKeys, err = dp.GetInt(cfgKeyMaxKeys); err != nil {
		return err
	}
	if c.MaxKeys < 1 {
		return dp.WrapKeyErr(cfgKeyMaxKeys, fmt.Errorf("should be >= 1"))
	}
	return nil
}

func (c *Config) burst() int {
	if c.Burst < 0 {
		return c.Rate.Count - 1
	}
	return c.Burst
}

func newLimiter(cfg *Config) (Limiter, error) {
	switch cfg.Algorithm {
	case AlgLeakyBucket, "":
		lim, err := NewLeakyBucketLimiter(cfg.Rate, cfg.burst(), cfg.MaxKeys)
		if err != nil {
			return nil, err
		}
		return lim, nil
	case AlgSlidingWindow:
		lim, err := NewSlidingWindowLimiter(cfg.Rate, cfg.MaxKeys)
		if err != nil {
			return nil, err
		}
		return lim, nil
	}
	return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Algorithm)
}
