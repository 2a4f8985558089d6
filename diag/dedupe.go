package diag

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps only the latest value for each attribute key.
// Callbacks that tag the context logger with [CallbackAttrs] can be re-run, and without this every nested With would repeat the "callback" key.
type DedupeHandler struct {
	group string
	index map[string]int
	attrs []slog.Attr
	next  slog.Handler
}

// NewDedupeHandler wraps next. Passing a nil handler will panic.
func NewDedupeHandler(next slog.Handler) slog.Handler {
	if next == nil {
		panic("nil implementing handler")
	}
	return &DedupeHandler{
		index: map[string]int{},
		next:  next,
	}
}

func (h *DedupeHandler) key(name string) string {
	if len(h.group) == 0 {
		return name
	}
	return h.group + "." + name
}

func (h *DedupeHandler) clone() *DedupeHandler {
	return &DedupeHandler{
		group: h.group,
		index: maps.Clone(h.index),
		attrs: slices.Clone(h.attrs),
		next:  h.next,
	}
}

func (h *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	cur := h
	if record.NumAttrs() > 0 {
		recAttrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			recAttrs = append(recAttrs, attr)
			return true
		})
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		cur = h.WithAttrs(recAttrs).(*DedupeHandler)
	}
	return cur.next.WithAttrs(cur.attrs).Handle(ctx, record)
}

func (h *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	cp := h.clone()
	for _, attr := range attrs {
		attr.Key = cp.key(attr.Key)
		if i, ok := cp.index[attr.Key]; ok {
			cp.attrs[i] = attr
			continue
		}
		cp.index[attr.Key] = len(cp.attrs)
		cp.attrs = append(cp.attrs, attr)
	}
	return cp
}

func (h *DedupeHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	cp := h.clone()
	cp.group = cp.key(name)
	return cp
}
