// Package netx contains small networking helpers shared by the binaries.
package netx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
)

// ShutdownTimeout bounds how long in-flight HTTP requests may take to drain.
const ShutdownTimeout = 5 * time.Second

// ServeHTTP serves srv on lis until ctx is cancelled, then shuts it down
// gracefully. A clean shutdown returns nil.
func ServeHTTP(ctx context.Context, srv *http.Server, lis net.Listener, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServeHTTP listens on addr and calls ServeHTTP.
func ListenAndServeHTTP(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ServeHTTP(ctx, srv, lis, logger)
}

// HostPort joins host and port, falling back to defaults for empty parts.
func HostPort(host, port, defaultHost, defaultPort string) string {
	if host == "" {
		host = defaultHost
	}
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}
