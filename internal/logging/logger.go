// Package logging is the structured logger shared by the auth service, the
// gateway and their tests. The only production implementation sits on
// log/slog and writes JSON lines.
package logging

import "context"

// Attribute keys used consistently across services.
const (
	KeyRequestID = "request_id"
	KeyError     = "error"
	KeyMethod    = "method"
)

// Logger takes a message followed by alternating key/value pairs:
//
//	log.Info(ctx, "listening", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that prefixes every entry with args.
	With(args ...any) Logger
}
