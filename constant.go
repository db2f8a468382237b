// FILE: lixenwraith/fanlog/constant.go
package fanlog

import (
	"time"
)

// Log level constants, spaced like log/slog so bridged records keep their order
const (
	LevelDebug    int64 = -4
	LevelInfo     int64 = 0
	LevelSuccess  int64 = 2
	LevelWarning  int64 = 4
	LevelError    int64 = 8
	LevelCritical int64 = 12
)

// Sink kinds
const (
	KindConsole = "console"
	KindFile    = "file"
)

// Console targets
const (
	TargetStdout = "stdout"
	TargetStderr = "stderr"
)

// DefaultFormat mirrors the console layout the application used before the move to fanlog
const DefaultFormat = "<green>{time:YYYY-MM-DD HH:mm:ss.SSS}</green> | <level>{level: <8}</level> | " +
	"<cyan>{name}</cyan>:<cyan>{function}</cyan>:<cyan>line:{line}</cyan> | <level>{message}</level>"

// Rotation
const (
	// Fixed delay between retries of a failed rename or reopen during rollover
	defaultRotateRetryDelay = 10 * time.Millisecond
	// Upper bound for the configurable retry count, keeps rollover from blocking writers
	maxRotateRetries = 10
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Diagnostics are throttled to this many lines per second, with a small burst
	diagnosticRate  = 10
	diagnosticBurst = 20
)

// callerSkip is the number of frames between runtime.Caller inside Logger.log and the
// application code calling Debug/Info/...: runtime.Caller -> log -> Info -> caller
const callerSkip = 3
