package config

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authgate/internal/netx"
)

// envConfig mirrors Config for environment variables. Unset variables leave
// the corresponding Config field untouched.
type envConfig struct {
	EndpointAddrGRPC            string        `env:"AUTH_GRPC_ADDR"`
	EndpointAddrHTTP            string        `env:"AUTH_HTTP_ADDR"`
	DatabaseDriver              string        `env:"DATABASE_DRIVER"`
	DatabaseDSN                 string        `env:"DATABASE_DSN"`
	SecretKey                   string        `env:"JWT_SECRET"`
	SecretKeyURI                string        `env:"JWT_SECRET_URI"`
	TokenIssuer                 string        `env:"JWT_ISSUER"`
	AccessTokenValidityDuration time.Duration `env:"JWT_TTL"`
	PasswordHashCost            int           `env:"BCRYPT_COST"`
	LogLevel                    string        `env:"LOG_LEVEL"`
	S3RootUser                  string        `env:"S3_ROOT_USER"`
	S3RootPassword              string        `env:"S3_ROOT_PASSWORD"`
	S3Region                    string        `env:"S3_REGION"`
	S3BaseEndpoint              string        `env:"S3_BASE_ENDPOINT"`

	DB dbEnv
}

// dbEnv are the discrete connection settings used to assemble a postgres
// DSN when DATABASE_DSN is not set.
type dbEnv struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT"`
	Username string `env:"DB_USERNAME"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"DB_DATABASE"`
}

// DSN renders a pgx connection URL. Empty parts fall back to local defaults.
func (d dbEnv) DSN() string {
	user, password, database := d.Username, d.Password, d.Database
	if user == "" {
		user = "postgres"
	}
	if database == "" {
		database = "authgate"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     netx.HostPort(d.Host, d.Port, "localhost", "5432"),
		Path:     "/" + database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseEnv overlays environment variables onto config. It panics on
// malformed values, like the other parsers.
func parseEnv(config *Config) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, e.DatabaseDriver)
	switch {
	case e.DatabaseDSN != "":
		config.DatabaseDSN = e.DatabaseDSN
	case e.DB.Host != "":
		config.DatabaseDSN = e.DB.DSN()
	}
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.SecretKeyURI, e.SecretKeyURI)
	setString(&config.TokenIssuer, e.TokenIssuer)
	if e.AccessTokenValidityDuration != 0 {
		config.AccessTokenValidityDuration = e.AccessTokenValidityDuration
	}
	if e.PasswordHashCost != 0 {
		config.PasswordHashCost = e.PasswordHashCost
	}
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
