// FILE: lixenwraith/fanlog/builder.go
package fanlog

import (
	"io"
)

// Builder provides a fluent API for building a registry.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// FromConfig starts the builder from an existing configuration
func FromConfig(cfg *Config) *Builder {
	return &Builder{cfg: cfg.Clone()}
}

// Build creates a new Registry with the specified configuration.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewRegistry(b.cfg, b.opts...)
}

// Config returns a copy of the configuration built so far
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Level sets the default gate level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = LevelName(level)
	return b
}

// LevelString sets the default gate level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := Level(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// SuppressLevel sets the level of the suppressed sources.
func (b *Builder) SuppressLevel(level int64) *Builder {
	b.cfg.SuppressLevel = LevelName(level)
	return b
}

// Name sets the base name of the default log file.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// NameFromPath sets the name from a source file path, "jobs/crawler.go" gives "crawler".
func (b *Builder) NameFromPath(path string) *Builder {
	b.cfg.Name = NameFromPath(path)
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// Format sets the template of the default sinks.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// EnableConsole enables the default console sink.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// Color enables colorized console output.
func (b *Builder) Color(enable bool) *Builder {
	b.cfg.Color = enable
	return b
}

// EnableFile enables the default file sink.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// MaxBytes sets the rollover threshold of the default file sink.
func (b *Builder) MaxBytes(size int64) *Builder {
	b.cfg.MaxBytes = size
	return b
}

// MaxSizeMB sets the rollover threshold in MB. Convenience.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxBytes = size * 1024 * 1024
	return b
}

// BackupCount sets the number of history files kept.
func (b *Builder) BackupCount(n int) *Builder {
	b.cfg.BackupCount = n
	return b
}

// Encoding sets the output encoding of file sinks.
func (b *Builder) Encoding(enc string) *Builder {
	b.cfg.Encoding = enc
	return b
}

// ExceptionDetails enables stack traces for Exception records.
func (b *Builder) ExceptionDetails(enable bool) *Builder {
	b.cfg.ExceptionDetails = enable
	return b
}

// Async moves file writes to a background processor.
func (b *Builder) Async(enable bool) *Builder {
	b.cfg.Async = enable
	return b
}

// BufferSize sets the async queue length.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// FlushIntervalMs sets the async sync interval.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// RotateRetries sets attempts per rollover step.
func (b *Builder) RotateRetries(n int64) *Builder {
	b.cfg.RotateRetries = n
	return b
}

// InternalErrorsToStderr toggles diagnostics.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Override applies "key=value" strings.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := ApplyOverride(b.cfg, overrides...); err != nil {
		b.err = err
	}
	return b
}

// ConsoleOutput redirects the console streams.
func (b *Builder) ConsoleOutput(stdout, stderr io.Writer) *Builder {
	b.opts = append(b.opts, WithConsoleOutput(stdout, stderr))
	return b
}

// Diagnostics redirects internal error reporting.
func (b *Builder) Diagnostics(w io.Writer) *Builder {
	b.opts = append(b.opts, WithDiagnostics(w))
	return b
}

// Example usage:
// reg, err := fanlog.NewBuilder().
//
//	Directory("/var/log/app").
//	NameFromPath("jobs/crawler.go").
//	LevelString("info").
//	EnableFile(true).
//	MaxSizeMB(10).
//	BackupCount(7).
//	Build()
//
// if err == nil {
//
//	 defer reg.Shutdown(time.Second)
//	 reg.Get("crawler").Info("registry initialized")
//
// }
