package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Validate(ctx context.Context) error
	Health(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
//	help             show available commands
//	register         create an account
//	login            obtain an access token
//	validate | me    resolve the session (or a pasted) token to a user
//	health           show service health
//	logout           forget the session token
//	exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. Commands share reader with the prompts they issue, so
// no input is buffered away from them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("authctl%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: validate, health, logout, exit")
			} else {
				printlnFn("Available commands: register, login, validate, health, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "validate", "me":
			_ = a.Validate(ctx)

		case "health":
			_ = a.Health(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
