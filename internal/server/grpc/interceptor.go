package grpc

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func requestIDFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.RequestIDHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// envelopeInterceptor is the single place where failures are rendered:
// every error returned by a handler is replaced by its rpc.Error envelope.
func (s *GRPCServer) envelopeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	method := path.Base(info.FullMethod)
	log := s.logger.With(logging.KeyMethod, method, logging.KeyRequestID, requestIDFromContext(ctx))

	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	if err == nil {
		s.metrics.ObserveRPC(method, "OK", elapsed)
		log.Info(ctx, "rpc completed", "duration", elapsed)
		return resp, nil
	}

	envelope := rpc.FromError(err)
	s.metrics.ObserveRPC(method, string(envelope.Kind), elapsed)

	if envelope.Status >= http.StatusInternalServerError {
		log.Error(ctx, "rpc failed", "status", envelope.Status, "kind", envelope.Kind, logging.KeyError, err.Error(), "duration", elapsed)
	} else {
		log.Info(ctx, "rpc rejected", "status", envelope.Status, "kind", envelope.Kind, "message", envelope.Message, "duration", elapsed)
	}

	return nil, envelope
}

// recoverInterceptor turns a handler panic into an ordinary error so the
// call still completes with an envelope.
func (s *GRPCServer) recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in rpc handler", logging.KeyMethod, info.FullMethod, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			resp = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return handler(ctx, req)
}
