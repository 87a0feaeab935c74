package logbuf

import (
	"context"
	"log/slog"
	"strings"
)

// Handler is an slog.Handler that captures every record into a Buffer
// and forwards to an inner handler for normal output.
type Handler struct {
	inner  slog.Handler
	buf    *Buffer
	attrs  []boundAttr
	groups []string
}

// boundAttr is a logger attr captured at With time, its key already
// qualified with the groups open at that point.
type boundAttr struct {
	key   string
	value any
}

// NewHandler creates a handler that writes to both buf and inner.
func NewHandler(inner slog.Handler, buf *Buffer) *Handler {
	return &Handler{inner: inner, buf: buf}
}

// Enabled always reports true: the buffer captures every level even when
// the inner handler filters its own output.
func (h *Handler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var attrs map[string]any
	put := func(key string, value any) {
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[key] = value
	}
	for _, a := range h.attrs {
		put(a.key, a.value)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(h.qualify(a.Key), flattenValue(a.Value))
		return true
	})

	h.buf.Write(Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   attrs,
	})

	// The inner handler keeps its own level filter.
	if h.inner.Enabled(ctx, r.Level) {
		return h.inner.Handle(ctx, r)
	}
	return nil
}

// qualify prefixes a key with the open groups, outermost first.
func (h *Handler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// flattenValue converts slog values to JSON-safe types. Errors become
// strings so they don't serialize to {}.
func flattenValue(v slog.Value) any {
	v = v.Resolve()
	raw := v.Any()
	if err, ok := raw.(error); ok {
		return err.Error()
	}
	return raw
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.attrs[:len(h.attrs):len(h.attrs)]
	for _, a := range attrs {
		bound = append(bound, boundAttr{h.qualify(a.Key), flattenValue(a.Value)})
	}
	return &Handler{
		inner:  h.inner.WithAttrs(attrs),
		buf:    h.buf,
		attrs:  bound,
		groups: h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		inner:  h.inner.WithGroup(name),
		buf:    h.buf,
		attrs:  h.attrs,
		groups: append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}
