// FILE: lixenwraith/fanlog/config_test.go
package fanlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, "./logs", cfg.Directory)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.True(t, cfg.EnableConsole)
	assert.False(t, cfg.EnableFile)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBytes)
	assert.Equal(t, 7, cfg.BackupCount)
	assert.Equal(t, "warning", cfg.SuppressLevel)
	assert.Equal(t, filepath.Join("logs", "app.log"), cfg.FilePath())
	assert.NoError(t, cfg.validate())

	// Each call returns a fresh copy
	cfg.Name = "changed"
	assert.Equal(t, "app", DefaultConfig().Name)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = "error"
	cfg1.Directory = "/custom/path"

	cfg2 := cfg1.Clone()
	assert.Equal(t, cfg1.Directory, cfg2.Directory)

	cfg1.Level = "info"
	assert.Equal(t, "error", cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:      "valid config",
			modify:    func(c *Config) {},
			wantError: "",
		},
		{
			name:      "numeric level",
			modify:    func(c *Config) { c.Level = "6" },
			wantError: "",
		},
		{
			name:      "empty name",
			modify:    func(c *Config) { c.Name = " " },
			wantError: "log name cannot be empty",
		},
		{
			name:      "extension with dot",
			modify:    func(c *Config) { c.Extension = ".log" },
			wantError: "extension should not start with dot",
		},
		{
			name:      "unknown level",
			modify:    func(c *Config) { c.Level = "verbose" },
			wantError: "invalid level string",
		},
		{
			name:      "unknown suppress level",
			modify:    func(c *Config) { c.SuppressLevel = "mute" },
			wantError: "invalid suppress_level",
		},
		{
			name:      "broken format",
			modify:    func(c *Config) { c.Format = "<red>{message}" },
			wantError: "invalid format",
		},
		{
			name:      "invalid console target",
			modify:    func(c *Config) { c.ConsoleTarget = "stdlog" },
			wantError: "invalid console_target",
		},
		{
			name:      "unknown encoding",
			modify:    func(c *Config) { c.Encoding = "utf-99" },
			wantError: "unknown encoding",
		},
		{
			name:      "negative max bytes",
			modify:    func(c *Config) { c.MaxBytes = -1 },
			wantError: "max_bytes cannot be negative",
		},
		{
			name:      "negative backup count",
			modify:    func(c *Config) { c.BackupCount = -2 },
			wantError: "backup_count cannot be negative",
		},
		{
			name:      "zero buffer size",
			modify:    func(c *Config) { c.BufferSize = 0 },
			wantError: "buffer_size must be positive",
		},
		{
			name:      "rotate retries out of range",
			modify:    func(c *Config) { c.RotateRetries = maxRotateRetries + 1 },
			wantError: "rotate_retries must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fanlog.toml")

	content := `
name = "crawler"
directory = "/var/log/crawler"
level = "info"
enable_file = true
max_bytes = 4096
backup_count = 3
encoding = "gbk"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "crawler", cfg.Name)
	assert.Equal(t, "/var/log/crawler", cfg.Directory)
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.EnableFile)
	assert.Equal(t, int64(4096), cfg.MaxBytes)
	assert.Equal(t, 3, cfg.BackupCount)
	assert.Equal(t, "gbk", cfg.Encoding)
	// Untouched keys keep their defaults
	assert.Equal(t, "warning", cfg.SuppressLevel)
	assert.Equal(t, int64(1024), cfg.BufferSize)

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("FANLOG_LEVEL", "error")
		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Level)
		assert.Equal(t, "crawler", cfg.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(dir, "absent.toml"), nil)
		require.NoError(t, err)
		assert.Equal(t, "app", cfg.Name)
	})

	t.Run("invalid values", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte(`backup_count = -1`), 0644))
		_, err := LoadConfig(bad, nil)
		assert.Error(t, err)
	})
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.toml")

	cfg := DefaultConfig()
	cfg.Name = "saved"
	cfg.MaxBytes = 2048
	cfg.Level = "critical"
	require.NoError(t, cfg.Save(path))
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.Name)
	assert.Equal(t, int64(2048), loaded.MaxBytes)
	assert.Equal(t, "critical", loaded.Level)

	assert.Error(t, cfg.Save(""))
}
