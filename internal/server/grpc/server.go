// Package grpc exposes the auth service over gRPC. Every failure leaves the
// server as an rpc.Error envelope.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the business API served over gRPC.
type AuthService interface {
	Register(ctx context.Context, email, password string, profile map[string]any) (*models.PublicUser, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*models.PublicUser, error)
	Health(ctx context.Context) (*services.HealthReport, error)
}

type GRPCServer struct {
	rpc.UnimplementedAuthServiceServer
	address string
	auth    AuthService
	logger  logging.Logger
	metrics *observability.Metrics
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, m *observability.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		metrics: m,
	}
}

// NewServer builds a *grpc.Server with the interceptor chain and the auth
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.envelopeInterceptor, s.recoverInterceptor),
	}, opts...)

	srv := grpc.NewServer(opts...)
	rpc.RegisterAuthServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
