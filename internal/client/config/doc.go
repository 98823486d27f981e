// Package config loads runtime configuration for authctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: AUTHCTL_SERVER_ADDR, AUTHCTL_TIMEOUT.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the auth service gRPC endpoint
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:3001",
//	  "request_timeout": "5s"
//	}
package config
