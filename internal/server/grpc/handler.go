package grpc

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

func toRPCUser(u *models.PublicUser) *rpc.User {
	return &rpc.User{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.User, error) {
	if err := rpc.ValidateRegister(req); err != nil {
		return nil, err
	}

	user, err := s.auth.Register(ctx, req.Email, req.Password, req.Profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return toRPCUser(user), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	if err := rpc.ValidateLogin(req); err != nil {
		return nil, err
	}

	result, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return &rpc.LoginResponse{AccessToken: result.AccessToken}, nil
}

func (s *GRPCServer) ValidateToken(ctx context.Context, req *rpc.ValidateTokenRequest) (*rpc.User, error) {
	if err := rpc.ValidateToken(req); err != nil {
		return nil, err
	}

	user, err := s.auth.ValidateToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	return toRPCUser(user), nil
}

func (s *GRPCServer) Health(ctx context.Context, _ *rpc.HealthRequest) (*rpc.HealthResponse, error) {
	report, err := s.auth.Health(ctx)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RegisteredUsers.Set(float64(report.UserCount))
	}

	return &rpc.HealthResponse{
		Status:    report.Status,
		Service:   report.Service,
		UserCount: report.UserCount,
		Timestamp: report.Timestamp,
	}, nil
}
