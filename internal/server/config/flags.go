package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string       gRPC bind address (e.g., ":3001")
//	-o string       liveness/metrics HTTP bind address (e.g., ":3002")
//	-driver string  database driver ("postgres" or "sqlite")
//	-d string       database DSN
//	-s string       JWT HMAC secret key
//	-k string       JWT secret URI (file:///path or s3://bucket/key)
//	-i string       JWT issuer
//	-t int          access token validity, minutes
//	-w int          bcrypt cost
//	-l string       log level
//	-u string       S3 root user
//	-p string       S3 root password
//	-g string       S3 region
//	-e string       S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Duration flags are accepted as integers in minutes and only applied when
// given explicitly.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-o", "-driver", "-d", "-s", "-k", "-i", "-t", "-w", "-l", "-u", "-p", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "o", config.EndpointAddrHTTP, "liveness/metrics address and port")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SecretKeyURI, "k", config.SecretKeyURI, "secret key URI")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.IntVar(&config.PasswordHashCost, "w", config.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t overrides, so sub-minute values from other sources survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
}
