// FILE: lixenwraith/fanlog/context.go
package fanlog

import (
	"context"
)

type registryKey struct{}

// NewContext returns a context carrying the registry
func NewContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry stored in ctx, or nil
func FromContext(ctx context.Context) *Registry {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(registryKey{}).(*Registry)
	return r
}

// LoggerFromContext returns the named logger of the registry in ctx, or nil when the
// context carries none
func LoggerFromContext(ctx context.Context, name string) *Logger {
	r := FromContext(ctx)
	if r == nil {
		return nil
	}
	return r.Get(name)
}
