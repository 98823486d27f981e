package config

import (
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authgate/internal/netx"
)

type envConfig struct {
	HTTPAddr        string        `env:"GATEWAY_HTTP_ADDR"`
	AuthServiceHost string        `env:"AUTH_SERVICE_HOST"`
	AuthServicePort string        `env:"AUTH_SERVICE_PORT"`
	RequestTimeout  time.Duration `env:"GATEWAY_REQUEST_TIMEOUT"`
	LogLevel        string        `env:"LOG_LEVEL"`
}

func parseEnv(config *Config) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.HTTPAddr != "" {
		config.HTTPAddr = e.HTTPAddr
	}
	if e.AuthServiceHost != "" || e.AuthServicePort != "" {
		// a partial override keeps the other half of the current address
		host, port, err := net.SplitHostPort(config.AuthServiceAddr)
		if err != nil {
			host, port = "", ""
		}
		config.AuthServiceAddr = netx.HostPort(e.AuthServiceHost, e.AuthServicePort, host, port)
	}
	if e.RequestTimeout != 0 {
		config.RequestTimeout = e.RequestTimeout
	}
	if e.LogLevel != "" {
		config.LogLevel = e.LogLevel
	}
}
