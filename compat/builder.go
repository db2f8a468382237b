// FILE: lixenwraith/fanlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/fanlog"
)

// Builder provides a flexible way to create adapters for gnet, fasthttp and log/slog.
// It can use an existing *fanlog.Registry or create a new one from a *fanlog.Config
type Builder struct {
	registry *fanlog.Registry
	cfg      *fanlog.Config
	name     string
	err      error
}

// NewBuilder creates a new adapter builder emitting through the named logger
func NewBuilder(name string) *Builder {
	b := &Builder{name: name}
	if name == "" {
		b.err = fmt.Errorf("fanlog/compat: logger name cannot be empty")
	}
	return b
}

// WithRegistry specifies an existing registry to use for the adapters
// Recommended for applications that already have a central registry
// If this is set WithConfig is ignored
func (b *Builder) WithRegistry(r *fanlog.Registry) *Builder {
	if r == nil {
		b.err = fmt.Errorf("fanlog/compat: provided registry cannot be nil")
		return b
	}
	b.registry = r
	return b
}

// WithConfig provides a configuration for a new registry
// This is used only if an existing registry is NOT provided via WithRegistry
// If neither is used, a default registry will be created
func (b *Builder) WithConfig(cfg *fanlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// getRegistry resolves the registry to be used, creating one if necessary
func (b *Builder) getRegistry() (*fanlog.Registry, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.registry != nil {
		return b.registry, nil
	}

	r, err := fanlog.NewRegistry(b.cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created registry for subsequent builds with this builder
	b.registry = r
	return r, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	r, err := b.getRegistry()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(r.Get(b.name), opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	r, err := b.getRegistry()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(r.Get(b.name), opts...), nil
}

// BuildSlog creates a log/slog handler
func (b *Builder) BuildSlog(opts ...SlogOption) (*SlogHandler, error) {
	r, err := b.getRegistry()
	if err != nil {
		return nil, err
	}
	return NewSlogHandler(r, b.name, opts...), nil
}

// GetRegistry returns the underlying registry
// If a registry has not been provided or created yet, it will be initialized
func (b *Builder) GetRegistry() (*fanlog.Registry, error) {
	return b.getRegistry()
}

// --- Example Usage ---
//
//	reg, _ := fanlog.NewBuilder().EnableFile(true).Directory("/var/log/app").Build()
//	defer reg.Shutdown(time.Second)
//
//	builder := compat.NewBuilder("server").WithRegistry(reg)
//	gnetAdapter, _ := builder.BuildGnet(compat.WithFieldExtraction())
//	gnet.Run(handler, "tcp://:9000", gnet.WithLogger(gnetAdapter))
//
//	fastAdapter, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: h, Logger: fastAdapter}
//
//	handler, _ := builder.BuildSlog()
//	slog.SetDefault(slog.New(handler))
