package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
)

// getSimpleText, getPassword and getMetadata are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMetadata = GetMetadata

// describeError renders a failure for the operator.
func describeError(err error) string {
	var e *rpc.Error
	switch {
	case errors.As(err, &e):
		return fmt.Sprintf("Error %d (%s): %s", e.Status, e.Kind, e.Message)
	case errors.Is(err, client.ErrUnavailable):
		return "Error: auth service unavailable"
	default:
		return "Error: " + err.Error()
	}
}

func (a *App) report(err error) error {
	fmt.Fprintln(a.out, describeError(err))
	return err
}

func (a *App) printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, string(b))
}

// Register prompts for an email, a password and optional profile fields,
// then creates the account. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	lines, err := getMetadata(a.reader, a.out)
	if err != nil {
		return a.report(err)
	}
	profile, err := ParseProfile(lines)
	if err != nil {
		return a.report(err)
	}

	user, err := a.api.Register(ctx, email, string(password), profile)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, "Success!")
	a.printJSON(user)
	return nil
}

// Login prompts for credentials and prints the access token. The token is
// also kept for later validate calls in the same session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	a.email, a.token = email, token

	fmt.Fprintln(a.out, "Login successful, access token:")
	fmt.Fprintln(a.out, token)
	return nil
}

// Validate resolves a token to its user. The session token is used when
// present, otherwise the token is prompted for.
func (a *App) Validate(ctx context.Context) error {
	token := a.token
	if token == "" {
		var err error
		token, err = getSimpleText(a.reader, "Enter access token", a.out)
		if err != nil {
			return a.report(err)
		}
	}

	user, err := a.api.ValidateToken(ctx, token)
	if err != nil {
		return a.report(err)
	}

	a.printJSON(user)
	return nil
}

func (a *App) Health(ctx context.Context) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		return a.report(err)
	}

	a.printJSON(h)
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(context.Context) error {
	a.email, a.token = "", ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
