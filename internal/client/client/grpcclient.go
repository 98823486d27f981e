package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DefaultTimeout bounds every call when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

type requestIDKey struct{}

// WithRequestID returns a context whose outgoing calls carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type AuthClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.AuthServiceClient
}

type Option func(*AuthClient)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *AuthClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if id := RequestID(ctx); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDHeaderName, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAuthClient prepares a client for endpointURL. The connection is
// established lazily on the first call.
func NewAuthClient(endpointURL string, opts ...Option) (*AuthClient, error) {
	return newAuthClient(endpointURL, opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func newAuthClient(endpointURL string, opts []Option, dialOpts ...grpc.DialOption) (*AuthClient, error) {
	c := &AuthClient{endpointURL: endpointURL, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}

	dialOpts = append(dialOpts,
		grpc.WithUnaryInterceptor(requestIDInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAuthServiceClient(conn)
	return c, nil
}

func (c *AuthClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *AuthClient) Register(ctx context.Context, email, password string, profile map[string]any) (*rpc.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password, Profile: profile})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", c.mapError(err)
	}
	return resp.AccessToken, nil
}

func (c *AuthClient) ValidateToken(ctx context.Context, token string) (*rpc.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.ValidateToken(ctx, &rpc.ValidateTokenRequest{Token: token})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *AuthClient) Health(ctx context.Context) (*rpc.HealthResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Health(ctx, &rpc.HealthRequest{})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *AuthClient) Close() error {
	return c.conn.Close()
}

// mapError turns a status error back into the service envelope. Transport
// failures without an envelope become ErrUnavailable.
func (c *AuthClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := rpc.FromStatus(err); ok {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
