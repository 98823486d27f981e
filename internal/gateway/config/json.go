package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	AuthServiceAddr string         `json:"auth_service_addr"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	LogLevel        string         `json:"log_level"`
}

func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.AuthServiceAddr != "" {
		config.AuthServiceAddr = c.AuthServiceAddr
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
