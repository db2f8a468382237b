package formatter

import (
	"fmt"
	"time"
)

// Fields carries keyword arguments of a record
type Fields map[string]any

// Caller identifies the code that emitted a record
type Caller struct {
	File     string
	Line     int
	Function string
}

// Record is one immutable log event
type Record struct {
	Level   int64
	Time    time.Time
	Name    string // Source (logger) name
	Message string
	Caller  Caller
	Failure error // Optional failure info, rendered after the line
	Fields  Fields
}

// LevelToString converts integer level values to string
func LevelToString(level int64) string {
	switch level {
	case -4:
		return "DEBUG"
	case 0:
		return "INFO"
	case 2:
		return "SUCCESS"
	case 4:
		return "WARNING"
	case 8:
		return "ERROR"
	case 12:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
