// FILE: lixenwraith/fanlog/config.go
package fanlog

import (
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"

	"github.com/lixenwraith/fanlog/formatter"
)

// Config holds the registry configuration: default sinks of every logger, gate levels
// and the file sink machinery
type Config struct {
	// Basic settings
	Name      string `toml:"name"`      // Base name of the default log file
	Directory string `toml:"directory"` // Directory of the default log file
	Extension string `toml:"extension"`
	Level     string `toml:"level"`  // Default gate level, name or number
	Format    string `toml:"format"` // Template of default sinks, or "json"

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"
	Color         bool   `toml:"color"`          // Colorize console output on terminals

	// File output and rotation
	EnableFile  bool   `toml:"enable_file"`
	MaxBytes    int64  `toml:"max_bytes"`    // Rollover threshold, 0 disables rotation
	BackupCount int    `toml:"backup_count"` // Numbered history files kept
	Encoding    string `toml:"encoding"`     // Output encoding of file sinks, e.g. "utf-8", "gbk"

	// Gate
	SuppressLevel string `toml:"suppress_level"` // Level installed for the suppressed sources

	// Failure info
	ExceptionDetails bool `toml:"exception_details"` // Render stack traces of Exception records

	// Async file writing
	Async           bool  `toml:"async"`
	BufferSize      int64 `toml:"buffer_size"`       // Queue length per file sink
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Periodic sync interval

	// Rollover retry
	RotateRetries      int64 `toml:"rotate_retries"`        // Attempts per rename or reopen step
	RotateRetryDelayMs int64 `toml:"rotate_retry_delay_ms"` // Delay between attempts

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Name:      "app",
	Directory: "./logs",
	Extension: "log",
	Level:     "debug",
	Format:    DefaultFormat,

	// Console output
	EnableConsole: true,
	ConsoleTarget: TargetStdout,
	Color:         true,

	// File output and rotation
	EnableFile:  false,
	MaxBytes:    10 * 1024 * 1024,
	BackupCount: 7,
	Encoding:    "utf-8",

	// Gate
	SuppressLevel: "warning",

	// Failure info
	ExceptionDetails: true,

	// Async file writing
	Async:           false,
	BufferSize:      1024,
	FlushIntervalMs: 100,

	// Rollover retry
	RotateRetries:      3,
	RotateRetryDelayMs: 10,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// LoadConfig builds a Config from defaults, an optional TOML file, FANLOG_ environment
// variables and CLI arguments (--key=value), later sources winning in reverse order.
// A missing file is not an error.
func LoadConfig(path string, args []string) (*Config, error) {
	b := lconfig.NewBuilder().
		WithDefaults(DefaultConfig()).
		WithEnvPrefix("FANLOG_").
		WithArgs(args).
		WithEnvTransform(envTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		)
	if path != "" {
		b = b.WithFile(path)
	}

	lcfg, err := b.Build()
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmtErrorf("failed to load config from '%s': %w", path, err)
		}
	}
	if lcfg == nil {
		return nil, fmtErrorf("failed to load config from '%s'", path)
	}

	cfg := &Config{}
	if err := lcfg.Scan(cfg); err != nil {
		return nil, fmtErrorf("failed to scan config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps "max_bytes" to FANLOG_MAX_BYTES
func envTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	return "FANLOG_" + strings.ToUpper(env)
}

// Save writes the configuration as TOML
func (c *Config) Save(path string) error {
	if path == "" {
		return fmtErrorf("cannot save config: path is empty")
	}

	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(c).
		WithFileFormat("toml").
		Build()
	if err != nil && !strings.Contains(err.Error(), "not found") {
		return fmtErrorf("failed to create config builder: %w", err)
	}
	if lcfg == nil {
		return fmtErrorf("failed to create config builder for '%s'", path)
	}

	if err := lcfg.Save(path); err != nil {
		return fmtErrorf("failed to save config: %w", err)
	}
	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// String validations
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if _, err := parseLevelValue(c.Level); err != nil {
		return err
	}

	if _, err := parseLevelValue(c.SuppressLevel); err != nil {
		return fmtErrorf("invalid suppress_level: %w", err)
	}

	if _, err := formatter.Parse(c.Format, formatter.Options{}); err != nil {
		return fmtErrorf("invalid format: %w", err)
	}

	if c.ConsoleTarget != TargetStdout && c.ConsoleTarget != TargetStderr {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if _, err := lookupEncoding(c.Encoding); err != nil {
		return err
	}

	// Numeric validations
	if c.MaxBytes < 0 {
		return fmtErrorf("max_bytes cannot be negative: %d", c.MaxBytes)
	}

	if c.BackupCount < 0 {
		return fmtErrorf("backup_count cannot be negative: %d", c.BackupCount)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.FlushIntervalMs <= 0 {
		return fmtErrorf("flush_interval_ms must be positive: %d", c.FlushIntervalMs)
	}

	if c.RotateRetries < 1 || c.RotateRetries > maxRotateRetries {
		return fmtErrorf("rotate_retries must be between 1 and %d: %d", maxRotateRetries, c.RotateRetries)
	}

	if c.RotateRetryDelayMs < 0 {
		return fmtErrorf("rotate_retry_delay_ms cannot be negative: %d", c.RotateRetryDelayMs)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// FilePath returns the default log file path: directory/name.extension
func (c *Config) FilePath() string {
	filename := c.Name
	if c.Extension != "" {
		filename = c.Name + "." + c.Extension
	}
	return filepath.Join(c.Directory, filename)
}

// levels returns the parsed default and suppress levels, validate must have passed
func (c *Config) levels() (level, suppress int64) {
	level, _ = parseLevelValue(c.Level)
	suppress, _ = parseLevelValue(c.SuppressLevel)
	return level, suppress
}
