package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is an unexported type used as the context key for loggers,
// preventing collisions with keys defined in other packages.
type loggerContextKey struct{}

// WithLogger returns a new context that carries the provided logger.
// Handlers and middleware attach request-scoped loggers (with trace IDs and
// user IDs) so downstream services log with full correlation attributes.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext retrieves the logger carried by the context, or the process
// default logger if none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger carried by the context, falling
// back to the provided logger rather than the process default. Services use
// this so their component-tagged logger is kept when no request-scoped logger
// is available.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
