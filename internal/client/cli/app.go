package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/rpc"
)

// AuthAPI is the part of client.AuthClient used by the CLI.
type AuthAPI interface {
	Register(ctx context.Context, email, password string, profile map[string]any) (*rpc.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*rpc.User, error)
	Health(ctx context.Context) (*rpc.HealthResponse, error)
	Close() error
}

type App struct {
	config *config.Config
	api    AuthAPI
	reader *bufio.Reader
	out    io.Writer
	email  string
	token  string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr, client.WithTimeout(c.RequestTimeout))
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api AuthAPI, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) Close() error {
	return a.api.Close()
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}
