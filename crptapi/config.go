/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package crptapi

import (
	"fmt"
	"net/url"

	"github.com/acronis/go-crptapi/config"
	"github.com/acronis/go-crptapi/httpclient"
)

const cfgDefaultKeyPrefix = "crptapi"

const (
	cfgKeyURL             = "url"
	cfgKeySignatureHeader = "signatureHeader"
	cfgKeyUserAgent       = "userAgent"
)

// Default values.
const (
	DefaultURL             = "https://ismp.crpt.ru/api/v3/lk/documents/create"
	DefaultSignatureHeader = "Signature"
)

// Config represents a set of configuration parameters for the registration API client.
// HTTP client parameters (timeout, logger, metrics) are read from the same key prefix.
type Config struct {
	URL             string `mapstructure:"url" yaml:"url" json:"url"`
	SignatureHeader string `mapstructure:"signatureHeader" yaml:"signatureHeader" json:"signatureHeader"`
	UserAgent       string `mapstructure:"userAgent" yaml:"userAgent" json:"userAgent"`

	HTTPClient httpclient.Config `mapstructure:",squash" yaml:",inline" json:"httpClient"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix.
// Empty prefix means the default one ("crptapi").
func NewConfig(keyPrefix string) *Config {
	if keyPrefix == "" {
		keyPrefix = cfgDefaultKeyPrefix
	}
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		URL:             DefaultURL,
		SignatureHeader: DefaultSignatureHeader,
		HTTPClient:      *httpclient.NewDefaultConfig(),
		keyPrefix:       cfgDefaultKeyPrefix,
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyURL, DefaultURL)
	dp.SetDefault(cfgKeySignatureHeader, DefaultSignatureHeader)
	c.HTTPClient.SetProviderDefaults(dp)
}

// Set sets client configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.URL, err = dp.GetString(cfgKeyURL); err != nil {
		return err
	}
	if _, err = url.ParseRequestURI(c.URL); err != nil {
		return dp.WrapKeyErr(cfgKeyURL, err)
	}
	if c.SignatureHeader, err = dp.GetString(cfgKeySignatureHeader); err != nil {
		return err
	}
	if c.SignatureHeader == "" {
		return dp.WrapKeyErr(cfgKeySignatureHeader, fmt.Errorf("cannot be empty"))
	}
	if c.UserAgent, err = dp.GetString(cfgKeyUserAgent); err != nil {
		return err
	}
	return c.HTTPClient.Set(dp)
}
