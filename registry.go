// FILE: lixenwraith/fanlog/registry.go
package fanlog

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/fanlog/formatter"
)

// Registry owns the named loggers of a process and the sinks they share.
// Create one at startup and pass it (or loggers obtained from it) to call sites.
type Registry struct {
	cfg  *Config
	gate *levelGate
	diag *diagnostics

	mu        sync.RWMutex
	loggers   map[string]*Logger
	fileSinks map[string]*FileSink // Keyed by absolute path
	files     map[string]Sink      // Same keys, async wrapper when enabled
	consoles  map[string]*ConsoleSink

	consoleOut map[string]io.Writer
	diagOut    io.Writer

	state state
}

// Option customizes a registry
type Option func(*Registry)

// WithConsoleOutput redirects the console streams, nil keeps the real stream
func WithConsoleOutput(stdout, stderr io.Writer) Option {
	return func(r *Registry) {
		if stdout != nil {
			r.consoleOut[TargetStdout] = stdout
		}
		if stderr != nil {
			r.consoleOut[TargetStderr] = stderr
		}
	}
}

// WithDiagnostics redirects internal error reporting
func WithDiagnostics(w io.Writer) Option {
	return func(r *Registry) {
		r.diagOut = w
	}
}

// NewRegistry creates a registry. A nil cfg uses DefaultConfig. The suppressed sources
// are gated at the configured suppress level, and the default file sink, if enabled, is
// opened immediately so path problems surface here.
func NewRegistry(cfg *Config, opts ...Option) (*Registry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	level, suppress := cfg.levels()
	r := &Registry{
		cfg:        cfg,
		gate:       newLevelGate(level),
		loggers:    make(map[string]*Logger),
		fileSinks:  make(map[string]*FileSink),
		files:      make(map[string]Sink),
		consoles:   make(map[string]*ConsoleSink),
		consoleOut: make(map[string]io.Writer),
	}
	r.state.StartTime = time.Now()
	for _, opt := range opts {
		opt(r)
	}
	r.diag = newDiagnostics(r.diagOut, cfg.InternalErrorsToStderr, &r.state.stats)

	for _, source := range suppressedSources {
		r.gate.set(source, suppress)
	}

	if cfg.EnableFile {
		fc, err := r.defaultFileConfig().normalized()
		if err != nil {
			return nil, err
		}
		if _, err := r.resolveSink(fc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Config returns a copy of the registry configuration
func (r *Registry) Config() *Config {
	return r.cfg.Clone()
}

// Get returns the logger for name, creating it with the configured default sinks on
// first use. A new logger is published only once its default sinks are attached.
func (r *Registry) Get(name string) *Logger {
	r.mu.RLock()
	l, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return l
	}

	// attachTo takes r.mu to resolve shared sinks, so attach before locking
	fresh := newLogger(name, r)
	r.attachDefaults(fresh)

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[name]; ok {
		return l
	}
	r.loggers[name] = fresh
	return fresh
}

// logger returns the handle for name, creating a bare one if needed. Used by Attach.
func (r *Registry) logger(name string) (*Logger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[name]; ok {
		return l, false
	}
	l := newLogger(name, r)
	r.loggers[name] = l
	return l, true
}

func (r *Registry) defaultConsoleConfig() SinkConfig {
	return SinkConfig{
		Kind:     KindConsole,
		Target:   r.cfg.ConsoleTarget,
		Format:   r.cfg.Format,
		Level:    LevelDebug,
		Colorize: r.cfg.Color,
	}
}

func (r *Registry) defaultFileConfig() SinkConfig {
	return FileConfig(r.cfg.FilePath(), r.cfg.Format, LevelDebug, r.cfg.MaxBytes, r.cfg.BackupCount, r.cfg.Encoding)
}

// attachDefaults gives a new logger the sinks enabled in the configuration
func (r *Registry) attachDefaults(l *Logger) {
	if r.cfg.EnableConsole {
		if err := r.attachTo(l, r.defaultConsoleConfig()); err != nil {
			r.diag.internalLog("failed to attach default console sink to '%s': %v", l.name, err)
		}
	}
	if r.cfg.EnableFile {
		if err := r.attachTo(l, r.defaultFileConfig()); err != nil {
			r.diag.internalLog("failed to attach default file sink to '%s': %v", l.name, err)
		}
	}
}

// Attach adds a sink to the named logger. Attaching a configuration equal to an
// existing attachment is a no-op. An unknown name gets a logger without default sinks.
func (r *Registry) Attach(name string, cfg SinkConfig) error {
	if r.state.ShutdownCalled.Load() {
		return fmtErrorf("registry is shut down")
	}
	l, _ := r.logger(name)
	return r.attachTo(l, cfg)
}

// AttachConsole adds a stdout console sink to the named logger
func (r *Registry) AttachConsole(name, format string, level int64, colorize bool) error {
	return r.Attach(name, ConsoleConfig(format, level, colorize))
}

// AttachFile adds a rotating file sink to the named logger
func (r *Registry) AttachFile(name, path, format string, level, maxBytes int64, backupCount int, encoding string) error {
	return r.Attach(name, FileConfig(path, format, level, maxBytes, backupCount, encoding))
}

func (r *Registry) attachTo(l *Logger, cfg SinkConfig) error {
	cfg, err := cfg.normalized()
	if err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	identity := cfg.Identity()
	if l.hasIdentity(identity) {
		return nil
	}

	// Template errors must not leave a freshly created file behind
	if _, err := formatter.Parse(cfg.Format, formatter.Options{}); err != nil {
		return fmtErrorf("invalid format for %s sink: %w", cfg.Kind, err)
	}

	sink, err := r.resolveSink(cfg)
	if err != nil {
		return err
	}

	colorize := false
	if cs, ok := sink.(*ConsoleSink); ok {
		colorize = cfg.Colorize && cs.SupportsColor()
	}
	tpl, err := formatter.Parse(cfg.Format, formatter.Options{Colorize: colorize, Details: r.cfg.ExceptionDetails})
	if err != nil {
		return fmtErrorf("invalid format for %s sink: %w", cfg.Kind, err)
	}

	l.attach(&attachment{config: cfg, identity: identity, template: tpl, sink: sink})
	return nil
}

// resolveSink returns the shared sink for a normalized config, creating it once
func (r *Registry) resolveSink(cfg SinkConfig) (Sink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch cfg.Kind {
	case KindConsole:
		if cs, ok := r.consoles[cfg.Target]; ok {
			return cs, nil
		}
		cs := NewConsoleSink(cfg.Target, r.consoleOut[cfg.Target])
		r.consoles[cfg.Target] = cs
		return cs, nil

	case KindFile:
		if fs, ok := r.fileSinks[cfg.Path]; ok {
			if !fs.matches(cfg) {
				return nil, fmtErrorf("file '%s' is already attached with different rotation or encoding settings", cfg.Path)
			}
			return r.files[cfg.Path], nil
		}
		fs, err := newFileSink(cfg.Path, cfg.MaxBytes, cfg.BackupCount, cfg.Encoding, fileSinkOptions{
			retries:    int(r.cfg.RotateRetries),
			retryDelay: r.cfg.RotateRetryDelayMs,
			diag:       r.diag,
			stats:      &r.state.stats,
		})
		if err != nil {
			return nil, err
		}
		var sink Sink = fs
		if r.cfg.Async {
			sink = newAsyncSink(fs, int(r.cfg.BufferSize), msDuration(r.cfg.FlushIntervalMs), r.diag, &r.state.stats)
		}
		r.fileSinks[cfg.Path] = fs
		r.files[cfg.Path] = sink
		return sink, nil
	}
	return nil, fmtErrorf("invalid sink kind '%s'", cfg.Kind)
}

// Emit delivers a record to the named logger
func (r *Registry) Emit(name string, rec Record) {
	if rec.Name == "" {
		rec.Name = name
	}
	r.Get(name).Emit(rec)
}

// admit applies the shutdown state and the level gate
func (r *Registry) admit(source string, level int64) bool {
	if r.state.ShutdownCalled.Load() {
		r.state.stats.Dropped.Add(1)
		return false
	}
	if !r.gate.admits(source, level) {
		r.state.stats.Filtered.Add(1)
		return false
	}
	return true
}

// SetLevel installs a minimum level for records of exactly this source name
func (r *Registry) SetLevel(source string, level int64) {
	r.gate.set(source, level)
}

// SetLevelString is SetLevel with a level name or number
func (r *Registry) SetLevelString(source, level string) error {
	lvl, err := parseLevelValue(level)
	if err != nil {
		return err
	}
	r.gate.set(source, lvl)
	return nil
}

// SetDefaultLevel changes the level of sources without their own entry
func (r *Registry) SetDefaultLevel(level int64) {
	r.gate.setDefault(level)
}

// Enabled reports whether a record of level from source would pass the gate
func (r *Registry) Enabled(source string, level int64) bool {
	return r.gate.admits(source, level)
}

// Loggers returns the names of all created loggers, sorted
func (r *Registry) Loggers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns a snapshot of the registry counters
func (r *Registry) Stats() Stats {
	s := r.state.stats.snapshot()
	s.StartTime = r.state.StartTime
	r.mu.RLock()
	s.Loggers = len(r.loggers)
	s.Sinks = len(r.consoles) + len(r.files)
	r.mu.RUnlock()
	return s
}

// sinks returns every shared sink
func (r *Registry) sinks() []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sink, 0, len(r.consoles)+len(r.files))
	for _, cs := range r.consoles {
		out = append(out, cs)
	}
	for _, s := range r.files {
		out = append(out, s)
	}
	return out
}

// Flush syncs every sink, draining async queues, and waits up to timeout
func (r *Registry) Flush(timeout time.Duration) error {
	if r.state.ShutdownCalled.Load() {
		return fmtErrorf("registry already shut down")
	}
	return r.forEachSink(timeout, "flush", Sink.Sync)
}

// Shutdown stops delivery, then flushes and closes every sink. Records emitted
// afterwards are dropped. Later calls return nil.
func (r *Registry) Shutdown(timeout time.Duration) error {
	if !r.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}
	return r.forEachSink(timeout, "shutdown", Sink.Close)
}

// forEachSink runs op on all sinks concurrently, bounded by timeout
func (r *Registry) forEachSink(timeout time.Duration, what string, op func(Sink) error) error {
	if timeout <= 0 {
		timeout = 2 * msDuration(r.cfg.FlushIntervalMs)
	}
	if timeout < minWaitTime {
		timeout = minWaitTime
	}

	sinks := r.sinks()
	errCh := make(chan error, len(sinks))
	var wg sync.WaitGroup
	for _, s := range sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			errCh <- op(s)
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var finalErr error
	select {
	case <-done:
	case <-time.After(timeout):
		finalErr = fmtErrorf("%s did not complete within timeout (%v)", what, timeout)
	}

	for {
		select {
		case err := <-errCh:
			finalErr = combineErrors(finalErr, err)
		default:
			return finalErr
		}
	}
}
