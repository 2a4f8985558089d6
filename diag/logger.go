// Package diag provides the slog plumbing used for diagnostic output of deferred callbacks.
package diag

import (
	"context"
	"io"
	"log/slog"
)

// NewHandler creates a text or JSON [slog.Handler] writing to w at the given level.
func NewHandler(w io.Writer, level slog.Leveler, json bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewLogger creates a logger with [NewHandler], wrapped in a [DedupeHandler] so that repeated calls to [slog.Logger.With] replace attributes instead of stacking them.
func NewLogger(w io.Writer, level slog.Leveler, json bool) *slog.Logger {
	return slog.New(NewDedupeHandler(NewHandler(w, level, json)))
}

type loggerKey struct{}

// WithLogger returns a copy of ctx that carries logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored with [WithLogger].
// If there isn't one, then [slog.Default] is returned, so callbacks invoked outside a registry can still log.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
