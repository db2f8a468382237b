// FILE: lixenwraith/fanlog/override_test.go
package fanlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOverride(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		verify    func(t *testing.T, cfg *Config)
		wantError string
	}{
		{
			name: "basic overrides",
			overrides: []string{
				"level=-4",
				"directory=/tmp/fanlog",
				"format=json",
				"enable_file=true",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "-4", cfg.Level)
				assert.Equal(t, "/tmp/fanlog", cfg.Directory)
				assert.Equal(t, "json", cfg.Format)
				assert.True(t, cfg.EnableFile)
			},
		},
		{
			name:      "rotation settings",
			overrides: []string{"max_bytes=100", "backup_count=2", "encoding=gbk"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(100), cfg.MaxBytes)
				assert.Equal(t, 2, cfg.BackupCount)
				assert.Equal(t, "gbk", cfg.Encoding)
			},
		},
		{
			name:      "level names and aliases",
			overrides: []string{"level=warn", "suppress_level=fatal"},
			verify: func(t *testing.T, cfg *Config) {
				lvl, suppress := cfg.levels()
				assert.Equal(t, LevelWarning, lvl)
				assert.Equal(t, LevelCritical, suppress)
			},
		},
		{
			name:      "format with equals sign",
			overrides: []string{"format={level}={message}"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "{level}={message}", cfg.Format)
			},
		},
		{
			name:      "unknown key",
			overrides: []string{"colour=true"},
			wantError: "unknown configuration key 'colour'",
		},
		{
			name:      "bad boolean",
			overrides: []string{"async=sometimes"},
			wantError: "invalid boolean value for async",
		},
		{
			name:      "bad integer",
			overrides: []string{"buffer_size=lots"},
			wantError: "invalid integer value for buffer_size",
		},
		{
			name:      "missing separator",
			overrides: []string{"enable_console"},
			wantError: "expected key=value",
		},
		{
			name:      "multiple errors",
			overrides: []string{"level=loud", "color=maybe"},
			wantError: "multiple configuration errors",
		},
		{
			name:      "parses but fails validation",
			overrides: []string{"rotate_retries=0"},
			wantError: "rotate_retries must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ApplyOverride(cfg, tt.overrides...)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				assert.Equal(t, DefaultConfig(), cfg, "failed overrides leave the config untouched")
				return
			}
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		assert.Error(t, ApplyOverride(nil, "level=info"))
	})
}
