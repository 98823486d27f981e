// Package config handles configuration for the HTTP gateway: defaults,
// environment variables, a JSON overlay and command-line flags, applied in
// that order.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the gateway.
type Config struct {
	HTTPAddr        string
	AuthServiceAddr string
	RequestTimeout  time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with the values used by the compose setup.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.AuthServiceAddr = "auth-service:3001"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP address is required"))
	}
	if c.AuthServiceAddr == "" {
		errs = append(errs, errors.New("auth service address is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	return errors.Join(errs...)
}
