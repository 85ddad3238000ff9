/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"fmt"

	"github.com/acronis/go-crptapi/config"
	"github.com/acronis/go-crptapi/crptapi"
	"github.com/acronis/go-crptapi/internal/fakeapi"
	"github.com/acronis/go-crptapi/log"
	"github.com/acronis/go-crptapi/ratelimit"
)

const cfgDemoKeyPrefix = "demo"

const (
	cfgKeyWorkers           = "workers"
	cfgKeyDocuments         = "documents"
	cfgKeyMetricsAddress    = "metricsAddress"
	cfgKeyFakeServerEnabled = "fakeServer.enabled"
)

const (
	defaultWorkers   = 10
	defaultDocuments = 10
	defaultRate      = "2/s"
)

type demoConfig struct {
	Workers           int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	Documents         int    `mapstructure:"documents" yaml:"documents" json:"documents"`
	MetricsAddress    string `mapstructure:"metricsAddress" yaml:"metricsAddress" json:"metricsAddress"`
	FakeServerEnabled bool   `mapstructure:"fakeServerEnabled" yaml:"fakeServerEnabled" json:"fakeServerEnabled"`
}

func (c *demoConfig) KeyPrefix() string {
	return cfgDemoKeyPrefix
}

func (c *demoConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyWorkers, defaultWorkers)
	dp.SetDefault(cfgKeyDocuments, defaultDocuments)
}

func (c *demoConfig) Set(dp config.DataProvider) error {
	var err error
	if c.Workers, err = dp.GetInt(cfgKeyWorkers); err != nil {
		return err
	}
	if c.Workers < 1 {
		return dp.WrapKeyErr(cfgKeyWorkers, fmt.Errorf("should be >= 1"))
	}
	if c.Documents, err = dp.GetInt(cfgKeyDocuments); err != nil {
		return err
	}
	if c.Documents < 0 {
		return dp.WrapKeyErr(cfgKeyDocuments, fmt.Errorf("cannot be negative"))
	}
	if c.MetricsAddress, err = dp.GetString(cfgKeyMetricsAddress); err != nil {
		return err
	}
	c.FakeServerEnabled, err = dp.GetBool(cfgKeyFakeServerEnabled)
	return err
}

// appConfig holds all configuration sections of the demo application.
type appConfig struct {
	Log        *log.Config
	RateLimit  *ratelimit.Config
	API        *crptapi.Config
	FakeServer *fakeapi.Config
	Demo       *demoConfig
}

func newAppConfig() *appConfig {
	return &appConfig{
		Log:        log.NewConfig(),
		RateLimit:  ratelimit.NewConfig(),
		API:        crptapi.NewConfig(""),
		FakeServer: fakeapi.NewConfig(cfgDemoKeyPrefix + ".fakeServer"),
		Demo:       &demoConfig{},
	}
}

// loadAppConfig loads configuration from the file (if path is not empty) and environment variables
// with the CRPT_ prefix (e.g. CRPT_RATELIMIT_RATE=5/s).
// The rate is taken from rateOverride if it's not empty. If no rate is configured at all, 2/s is used.
func loadAppConfig(path string, rateOverride string) (*appConfig, error) {
	loader := config.NewDefaultLoader("crpt")
	if path != "" {
		if err := loader.DataProvider.SetFromFile(path, config.DataTypeYAML); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	rateKey := ratelimit.NewConfig().KeyPrefix() + ".rate"
	limitKey := ratelimit.NewConfig().KeyPrefix() + ".limit"
	switch {
	case rateOverride != "":
		loader.DataProvider.Set(rateKey, rateOverride)
	case !loader.DataProvider.IsSet(rateKey) && !loader.DataProvider.IsSet(limitKey):
		loader.DataProvider.Set(rateKey, defaultRate)
	}

	cfg := newAppConfig()
	if err := loader.Load(cfg.Log, cfg.RateLimit, cfg.API, cfg.FakeServer, cfg.Demo); err != nil {
		return nil, err
	}
	return cfg, nil
}
