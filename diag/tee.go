package diag

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (teeHandler)(nil)

type teeHandler []slog.Handler

// Tee joins handlers so that every record is written to all of them.
// This is how deferrun writes to the terminal and a log file at the same time.
func Tee(first slog.Handler, others ...slog.Handler) slog.Handler {
	if len(others) == 0 {
		return first
	}
	return append(teeHandler{first}, others...)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		errs = append(errs, h.Handle(ctx, record.Clone()))
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
