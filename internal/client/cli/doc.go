// Package cli implements authctl, an operator command-line client for the
// auth service.
//
// Subcommands run once and exit:
//
//	authctl [-a host:port] [-t seconds] [-c config.json] register|login|validate|health
//
// Without a subcommand an interactive REPL starts, which also remembers the
// access token from the last successful login so that validate can reuse it.
//
// Emails and profile fields are read from stdin prompts; passwords are read
// without echo and wiped from memory after use.
package cli
