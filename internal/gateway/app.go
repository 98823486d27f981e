package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/gateway/config"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/netx"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/gorilla/mux"
)

type App struct {
	config *config.Config
	logger logging.Logger
	client *client.AuthClient
	router *mux.Router
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel).With("service", "gateway")

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ac, err := client.NewAuthClient(c.AuthServiceAddr, client.WithTimeout(c.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}

	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)

	h := NewHandlers(ac, logger, c.RequestTimeout)

	return &App{
		config: c,
		logger: logger,
		client: ac,
		router: NewRouter(h, registry, metrics, logger),
	}, nil
}

// Run serves HTTP until SIGINT, SIGTERM or SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.client.Close(); err != nil {
			app.logger.Error(ctx, "closing auth client", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting gateway...",
		"http_address", app.config.HTTPAddr,
		"auth_service", app.config.AuthServiceAddr,
	)

	return netx.ListenAndServeHTTP(ctx, app.config.HTTPAddr, app.router, app.logger)
}
