// FILE: utility.go
package fanlog

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "fanlog: ") {
		format = "fanlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level converts a level name to its numeric constant.
// Accepts the names used by Python-style configuration files as well ("warn", "fatal").
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, success, warning, error, critical)", levelStr)
	}
}

// LevelName returns the configuration name of a level, or its number if unnamed
func LevelName(level int64) string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	default:
		return strconv.FormatInt(level, 10)
	}
}

// parseLevelValue accepts either a level name or a numeric level
func parseLevelValue(value string) (int64, error) {
	if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
		return numVal, nil
	}
	return Level(value)
}

// msDuration converts a millisecond config value
func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// NameFromPath derives a logger name from a file path: the base name without extension.
// "/srv/app/worker.py" and "logs/worker.log" both give "worker".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
