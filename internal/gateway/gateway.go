// Package gateway is the public HTTP frontend. It translates REST calls into
// auth service RPCs and renders the service's error envelope as JSON.
//
// Routes:
//
//	GET  /auth/health    service health
//	POST /auth/register  create a user, extra body keys become the profile
//	POST /auth/login     exchange credentials for an access token
//	POST /auth/validate  resolve a token to its user
//	GET  /auth/me        same as validate, token taken from the Bearer header
//	GET  /health         gateway liveness
//	GET  /metrics        Prometheus exposition
package gateway

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/rpc"
)

// AuthAPI is the part of the auth client the gateway relies on.
type AuthAPI interface {
	Register(ctx context.Context, email, password string, profile map[string]any) (*rpc.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*rpc.User, error)
	Health(ctx context.Context) (*rpc.HealthResponse, error)
}

// Handlers serves the /auth routes.
type Handlers struct {
	auth    AuthAPI
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewHandlers(auth AuthAPI, logger logging.Logger, timeout time.Duration) *Handlers {
	return &Handlers{
		auth:    auth,
		logger:  logger.With("module", "gateway_handlers"),
		timeout: timeout,
		now:     time.Now,
	}
}

func (h *Handlers) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}
