package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags applies command-line flags:
//
//	-a string         HTTP bind address (e.g., ":3000")
//	-s string         auth service address (host:port)
//	-timeout duration per-request deadline for auth calls (e.g., "5s")
//	-l string         log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-timeout", "-l"})

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.AuthServiceAddr, "s", config.AuthServiceAddr, "auth service address")
	fs.DurationVar(&config.RequestTimeout, "timeout", config.RequestTimeout, "auth call timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
