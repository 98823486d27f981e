package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuth struct {
	regResp *models.PublicUser
	regErr  error
	regArgs struct {
		email, password string
		profile         map[string]any
	}

	loginResp *services.LoginResult
	loginErr  error

	validateResp *models.PublicUser
	validateErr  error

	healthResp *services.HealthReport
	healthErr  error

	calls int
	panic bool
}

func (f *fakeAuth) Register(ctx context.Context, email, password string, profile map[string]any) (*models.PublicUser, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	f.regArgs.email, f.regArgs.password, f.regArgs.profile = email, password, profile
	return f.regResp, f.regErr
}
func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	f.calls++
	return f.loginResp, f.loginErr
}
func (f *fakeAuth) ValidateToken(ctx context.Context, token string) (*models.PublicUser, error) {
	f.calls++
	return f.validateResp, f.validateErr
}
func (f *fakeAuth) Health(ctx context.Context) (*services.HealthReport, error) {
	f.calls++
	return f.healthResp, f.healthErr
}

func newServer(fa *fakeAuth) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.NewNop(), fa, nil)
}

var created = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// ---- tests ----

func TestRegister_Success(t *testing.T) {
	fa := &fakeAuth{regResp: &models.PublicUser{ID: "u-1", Email: "a@x.com", Profile: map[string]any{"name": "A"}, CreatedAt: created}}
	s := newServer(fa)

	got, err := s.Register(context.Background(), &rpc.RegisterRequest{
		Email: "a@x.com", Password: "secret1", Profile: map[string]any{"name": "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, &rpc.User{ID: "u-1", Email: "a@x.com", Profile: map[string]any{"name": "A"}, CreatedAt: created}, got)
	assert.Equal(t, "a@x.com", fa.regArgs.email)
	assert.Equal(t, "secret1", fa.regArgs.password)
}

func TestRegister_ValidationShortCircuits(t *testing.T) {
	fa := &fakeAuth{}
	s := newServer(fa)

	_, err := s.Register(context.Background(), &rpc.RegisterRequest{Email: "nope", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Zero(t, fa.calls, "auth core must not be reached")
}

func TestRegister_EmailTaken(t *testing.T) {
	s := newServer(&fakeAuth{regErr: common.ErrEmailTaken})

	_, err := s.Register(context.Background(), &rpc.RegisterRequest{Email: "a@x.com", Password: "x"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	s := newServer(&fakeAuth{loginResp: &services.LoginResult{AccessToken: "tok"}})

	got, err := s.Login(context.Background(), &rpc.LoginRequest{Email: "a@x.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "tok", got.AccessToken)

	s = newServer(&fakeAuth{loginErr: common.ErrorUnauthorized})
	_, err = s.Login(context.Background(), &rpc.LoginRequest{Email: "a@x.com", Password: "x"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestValidateToken(t *testing.T) {
	fa := &fakeAuth{validateResp: &models.PublicUser{ID: "u-1", Email: "a@x.com", CreatedAt: created}}
	s := newServer(fa)

	got, err := s.ValidateToken(context.Background(), &rpc.ValidateTokenRequest{Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = s.ValidateToken(context.Background(), &rpc.ValidateTokenRequest{})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, 1, fa.calls)
}

func TestHealth_UpdatesGauge(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	fa := &fakeAuth{healthResp: &services.HealthReport{Status: "ok", Service: "auth", UserCount: 4, Timestamp: created}}
	s := NewGRPCServer("", logging.NewNop(), fa, metrics)

	got, err := s.Health(context.Background(), &rpc.HealthRequest{})
	require.NoError(t, err)
	assert.Equal(t, &rpc.HealthResponse{Status: "ok", Service: "auth", UserCount: 4, Timestamp: created}, got)
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.RegisteredUsers))
}

func TestHealth_StoreError(t *testing.T) {
	storeErr := errors.Join(common.ErrStoreUnavailable, errors.New("down"))
	s := newServer(&fakeAuth{healthErr: storeErr})

	_, err := s.Health(context.Background(), &rpc.HealthRequest{})
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}
