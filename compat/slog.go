// FILE: lixenwraith/fanlog/compat/slog.go
package compat

import (
	"context"
	"log/slog"
	"time"

	"github.com/lixenwraith/fanlog"
)

var _ slog.Handler = (*SlogHandler)(nil)

// SlogHandler routes log/slog records into a fanlog registry. The calling context comes
// from the program counter slog records carry, so wrappers around slog need no frame
// counting.
type SlogHandler struct {
	registry *fanlog.Registry
	logger   *fanlog.Logger
	name     string
	errorKey string
	attrs    fanlog.Fields // Accumulated by WithAttrs, keys already group qualified
	prefix   string        // Open groups, "a.b."
}

// SlogOption allows customizing handler behavior
type SlogOption func(*SlogHandler)

// WithErrorKey selects the attribute carried as failure info, "err" by default.
// An empty key disables the lookup.
func WithErrorKey(key string) SlogOption {
	return func(h *SlogHandler) {
		h.errorKey = key
	}
}

// NewSlogHandler creates a handler emitting through the named logger of reg
func NewSlogHandler(reg *fanlog.Registry, name string, opts ...SlogOption) *SlogHandler {
	h := &SlogHandler{
		registry: reg,
		logger:   reg.Get(name),
		name:     name,
		errorKey: "err",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled consults the level gate of the registry
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.registry.Enabled(h.name, int64(level))
}

// Handle converts the record and emits it
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := fanlog.Record{
		Level:   int64(r.Level),
		Time:    r.Time,
		Name:    h.name,
		Message: r.Message,
		Caller:  fanlog.CallerFromPC(r.PC),
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	fields := make(fanlog.Fields, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		if err, ok := h.failure(a); ok && h.prefix == "" {
			rec.Failure = err
			return true
		}
		addAttr(fields, h.prefix, a)
		return true
	})
	if len(fields) > 0 {
		rec.Fields = fields
	}

	h.logger.Emit(rec)
	return nil
}

// failure reports whether a is the error attribute
func (h *SlogHandler) failure(a slog.Attr) (error, bool) {
	if h.errorKey == "" || a.Key != h.errorKey {
		return nil, false
	}
	err, ok := a.Value.Resolve().Any().(error)
	return err, ok
}

// WithAttrs returns a handler that adds attrs to every record
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	for _, a := range attrs {
		addAttr(next.attrs, next.prefix, a)
	}
	return next
}

// WithGroup returns a handler that qualifies later attribute keys with name
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix += name + "."
	return next
}

func (h *SlogHandler) clone() *SlogHandler {
	next := *h
	next.attrs = make(fanlog.Fields, len(h.attrs))
	for k, v := range h.attrs {
		next.attrs[k] = v
	}
	return &next
}

// addAttr flattens an attribute, groups become dotted keys
func addAttr(fields fanlog.Fields, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		if len(group) == 0 {
			return
		}
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range group {
			addAttr(fields, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	fields[prefix+a.Key] = v.Any()
}
