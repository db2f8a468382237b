// FILE: lixenwraith/fanlog/sink.go
package fanlog

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/fanlog/formatter"
)

// Sink receives formatted lines. One Write call carries exactly one record.
// Implementations are shared between loggers and must be safe for concurrent use.
type Sink interface {
	io.Writer
	Sync() error
	Close() error
}

// SinkConfig describes one attachment of a logger. Two attachments with the same
// identity are the same attachment.
type SinkConfig struct {
	Kind        string // KindConsole or KindFile
	Target      string // TargetStdout or TargetStderr, console only
	Path        string // File only
	MaxBytes    int64  // File only, <= 0 disables rotation
	BackupCount int    // File only
	Encoding    string // File only, empty means UTF-8
	Level       int64
	Colorize    bool // Console only
	Format      string
}

// ConsoleConfig is the SinkConfig of a console attachment
func ConsoleConfig(format string, level int64, colorize bool) SinkConfig {
	return SinkConfig{Kind: KindConsole, Target: TargetStdout, Format: format, Level: level, Colorize: colorize}
}

// FileConfig is the SinkConfig of a rotating file attachment
func FileConfig(path, format string, level, maxBytes int64, backupCount int, encoding string) SinkConfig {
	return SinkConfig{
		Kind:        KindFile,
		Path:        path,
		Format:      format,
		Level:       level,
		MaxBytes:    maxBytes,
		BackupCount: backupCount,
		Encoding:    encoding,
	}
}

// normalized fills defaults so equal attachments compare equal
func (c SinkConfig) normalized() (SinkConfig, error) {
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	switch c.Kind {
	case KindConsole:
		c.Target = strings.ToLower(strings.TrimSpace(c.Target))
		if c.Target == "" {
			c.Target = TargetStdout
		}
		c.Path, c.MaxBytes, c.BackupCount, c.Encoding = "", 0, 0, ""
	case KindFile:
		if c.Path == "" {
			return c, fmtErrorf("file sink requires a path")
		}
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return c, fmtErrorf("failed to resolve log path '%s': %w", c.Path, err)
		}
		c.Path = filepath.Clean(abs)
		c.Encoding = normalizeEncoding(c.Encoding)
		c.Target, c.Colorize = "", false
		if c.MaxBytes < 0 {
			c.MaxBytes = 0
		}
	default:
		return c, fmtErrorf("invalid sink kind '%s' (use console or file)", c.Kind)
	}
	return c, nil
}

// validate checks everything that can be checked without touching the filesystem
func (c SinkConfig) validate() error {
	if c.Kind == KindConsole && c.Target != TargetStdout && c.Target != TargetStderr {
		return fmtErrorf("invalid console target '%s' (use stdout or stderr)", c.Target)
	}
	if c.Kind == KindFile {
		if c.BackupCount < 0 {
			return fmtErrorf("backup_count cannot be negative: %d", c.BackupCount)
		}
		if _, err := lookupEncoding(c.Encoding); err != nil {
			return err
		}
	}
	return nil
}

// Identity renders the configuration into the key used for de-duplication
func (c SinkConfig) Identity() string {
	switch c.Kind {
	case KindFile:
		return fmt.Sprintf("file|%s|%s|%d|%d|%d|%s", c.Path, c.Format, c.Level, c.MaxBytes, c.BackupCount, c.Encoding)
	default:
		return fmt.Sprintf("%s|%s|%s|%d|%t", c.Kind, c.Target, c.Format, c.Level, c.Colorize)
	}
}

// attachment is one resolved (config, template, sink) entry of a logger
type attachment struct {
	config   SinkConfig
	identity string
	template *formatter.Template
	sink     Sink
}

// describe names the attachment in diagnostics
func (a *attachment) describe() string {
	if a.config.Kind == KindFile {
		return "file:" + a.config.Path
	}
	return "console:" + a.config.Target
}
