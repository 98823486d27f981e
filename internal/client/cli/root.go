package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// valueFlags are the global flags that consume the following argument.
var valueFlags = map[string]struct{}{
	"-a": {}, "-t": {}, "-c": {}, "-config": {}, "--config": {},
}

// subcommand returns the first positional argument, skipping global flags
// and their values.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if _, ok := valueFlags[arg]; ok && !strings.Contains(arg, "=") {
			i++
		}
	}
	return ""
}

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.email)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: authctl [-a host:port] [-t seconds] [-c config.json] [register|login|validate|health]")
}

// Run executes the subcommand found in args, or starts the REPL when there
// is none. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	var err error

	switch cmd := subcommand(args); cmd {
	case "":
		fmt.Fprintln(a.out, "authctl (type 'help' for commands)")
		runREPL(ctx, a, a.getStatus, a.reader)
		return 0
	case "register":
		err = a.Register(ctx)
	case "login":
		err = a.Login(ctx)
	case "validate":
		err = a.Validate(ctx)
	case "health":
		err = a.Health(ctx)
	case "help":
		usage(a.out)
		return 0
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		usage(a.out)
		return 2
	}

	if err != nil {
		return 1
	}
	return 0
}
