// FILE: lixenwraith/fanlog/override.go
package fanlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to cfg.
// Each override should be in the format "key=value". cfg is only modified when every
// override parses and the result validates.
//
// Example:
//
//	cfg := fanlog.DefaultConfig()
//	err := fanlog.ApplyOverride(cfg,
//	    "directory=/var/log/app",
//	    "level=warning",
//	    "enable_file=true",
//	)
func ApplyOverride(cfg *Config, overrides ...string) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	next := cfg.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(next, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := next.validate(); err != nil {
		return err
	}
	*cfg = *next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("fanlog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "fanlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	var err error
	switch key {
	// Basic settings
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "extension":
		cfg.Extension = value
	case "level":
		// Accept both numeric and named values, stored as given
		if _, perr := parseLevelValue(value); perr != nil {
			return fmtErrorf("invalid level value '%s': %w", value, perr)
		}
		cfg.Level = value
	case "format":
		cfg.Format = value

	// Console output
	case "enable_console":
		cfg.EnableConsole, err = parseBoolField(key, value)
	case "console_target":
		cfg.ConsoleTarget = value
	case "color":
		cfg.Color, err = parseBoolField(key, value)

	// File output and rotation
	case "enable_file":
		cfg.EnableFile, err = parseBoolField(key, value)
	case "max_bytes":
		cfg.MaxBytes, err = parseIntField(key, value)
	case "backup_count":
		var n int64
		n, err = parseIntField(key, value)
		cfg.BackupCount = int(n)
	case "encoding":
		cfg.Encoding = value

	// Gate
	case "suppress_level":
		if _, perr := parseLevelValue(value); perr != nil {
			return fmtErrorf("invalid suppress_level value '%s': %w", value, perr)
		}
		cfg.SuppressLevel = value

	// Failure info
	case "exception_details":
		cfg.ExceptionDetails, err = parseBoolField(key, value)

	// Async file writing
	case "async":
		cfg.Async, err = parseBoolField(key, value)
	case "buffer_size":
		cfg.BufferSize, err = parseIntField(key, value)
	case "flush_interval_ms":
		cfg.FlushIntervalMs, err = parseIntField(key, value)

	// Rollover retry
	case "rotate_retries":
		cfg.RotateRetries, err = parseIntField(key, value)
	case "rotate_retry_delay_ms":
		cfg.RotateRetryDelayMs, err = parseIntField(key, value)

	// Internal error handling
	case "internal_errors_to_stderr":
		cfg.InternalErrorsToStderr, err = parseBoolField(key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return err
}

func parseBoolField(key, value string) (bool, error) {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	return boolVal, nil
}

func parseIntField(key, value string) (int64, error) {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	return intVal, nil
}
