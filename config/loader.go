/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
)

// Loader loads configuration values from data provider (with initializing default values before)
// and sets them in configuration objects.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a new configurations loader with an ability to read values from the environment variables.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a new configurations' loader.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{dp}
}

// LoadFromFile loads configuration values from file and sets them in configuration objects.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// LoadFromReader loads configuration values from reader and sets them in configuration objects.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// Load sets values that are already known by the data provider (defaults, environment variables)
// in configuration objects.
func (l *Loader) Load(cfg Config, cfgs ...Config) error {
	all := append([]Config{cfg}, cfgs...)
	for _, c := range all {
		c.SetProviderDefaults(l.dataProviderFor(c))
	}
	for _, c := range all {
		if err := c.Set(l.dataProviderFor(c)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) dataProviderFor(cfg Config) DataProvider {
	if kpHolder, ok := cfg.(KeyPrefixProvider); ok && kpHolder.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(l.DataProvider, kpHolder.KeyPrefix())
	}
	return l.DataProvider
}
