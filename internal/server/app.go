// Package server wires the auth service together: configuration, signing
// key, user store, core service, gRPC endpoint and the ops HTTP listener.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/netx"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/keys"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/authgate/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	registry    *prometheus.Registry
	metrics     *observability.Metrics
}

// NewApp validates c and builds every dependency of the service. Failures
// here are startup errors and the process should exit.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel).With("service", services.ServiceName)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	secret, err := keys.Load(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}

	hasher, err := cryptox.NewBcryptHasher(c.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, rm, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenService(secret, c.TokenIssuer, c.AccessTokenValidityDuration)

	as, err := services.NewAuthService(db, rm, hasher, tokens)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)
	observability.RegisterDBStats(registry, db, c.DatabaseDriver)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: as,
		registry:    registry,
		metrics:     metrics,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startOpsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := NewOpsRouter(app.authService, app.registry, app.metrics, app.logger)

	if err := netx.ListenAndServeHTTP(ctx, app.config.EndpointAddrHTTP, router, app.logger.With("module", "ops_server")); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or one of the listeners
// fails, then waits for both to drain and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"grpc_address", app.config.EndpointAddrGRPC,
		"http_address", app.config.EndpointAddrHTTP,
		"database_driver", app.config.DatabaseDriver,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startOpsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
