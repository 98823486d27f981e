package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerEndpointAddr string        `env:"AUTHCTL_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"AUTHCTL_TIMEOUT"`
}

func parseEnv(cfg *Config) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		panic(err)
	}
	if e.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = e.ServerEndpointAddr
	}
	if e.RequestTimeout != 0 {
		cfg.RequestTimeout = e.RequestTimeout
	}
}
