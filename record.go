// FILE: lixenwraith/fanlog/record.go
package fanlog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/lixenwraith/fanlog/formatter"
)

// Fields carries keyword arguments of a record. Passed as the last argument of an
// emission call it is taken out of the printf arguments.
type Fields = formatter.Fields

// Caller is the calling context of a record
type Caller = formatter.Caller

// Record represents a single log event. Sinks receive it by value and never modify it.
type Record = formatter.Record

// CallerFromPC resolves a program counter, as carried by slog.Record, into a Caller
func CallerFromPC(pc uintptr) Caller {
	if pc == 0 {
		return Caller{}
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	return Caller{
		File:     filepath.Base(frame.File),
		Line:     frame.Line,
		Function: shortFunctionName(frame.Function),
	}
}

// CaptureCaller returns the calling context skip frames above the function calling
// CaptureCaller. Adapters use it with skip 1 to name the code that called them.
func CaptureCaller(skip int) Caller {
	return captureCaller(skip + 2)
}

// captureCaller returns the calling context skip frames above its own caller
func captureCaller(skip int) Caller {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Caller{Function: "(unknown)"}
	}
	c := Caller{File: filepath.Base(file), Line: line, Function: "(unknown)"}
	if fn := runtime.FuncForPC(pc); fn != nil {
		c.Function = shortFunctionName(fn.Name())
	}
	return c
}

// shortFunctionName trims the package path from a fully qualified function name
func shortFunctionName(full string) string {
	if full == "" {
		return "(unknown)"
	}
	funcName := filepath.Base(full)
	parts := strings.Split(funcName, ".")
	lastPart := parts[len(parts)-1]
	if strings.HasPrefix(lastPart, "func") && len(lastPart) > 4 {
		isAnonymous := true
		for _, r := range lastPart[4:] {
			if !unicode.IsDigit(r) {
				isAnonymous = false
				break
			}
		}
		if isAnonymous && len(parts) > 1 {
			return fmt.Sprintf("(anonymous in %s)", parts[len(parts)-2])
		}
	}
	return lastPart
}

// newRecord builds an immutable record from an emission call
func newRecord(name string, level int64, caller Caller, failure error, format string, args []any) Record {
	msg, fields := renderMessage(format, args)
	return Record{
		Level:   level,
		Time:    time.Now(),
		Name:    name,
		Message: msg,
		Caller:  caller,
		Failure: failure,
		Fields:  fields,
	}
}

// renderMessage applies printf arguments to the message template.
// Bad verbs or panicking Stringers never reach the caller: the message is replaced
// by a fallback line holding the raw template and a dump of the arguments.
func renderMessage(format string, args []any) (msg string, fields Fields) {
	if n := len(args); n > 0 {
		if f, ok := args[n-1].(Fields); ok {
			fields = f
			args = args[:n-1]
		}
	}
	if len(args) == 0 {
		return format, fields
	}

	defer func() {
		if r := recover(); r != nil {
			msg = fallbackMessage(format, args)
		}
	}()

	msg = fmt.Sprintf(format, args...)
	if strings.Contains(msg, "%!") && !strings.Contains(format, "%!") {
		msg = fallbackMessage(format, args)
	}
	return msg, fields
}

// fallbackMessage is the diagnostic line written instead of a malformed message
func fallbackMessage(format string, args []any) string {
	return fmt.Sprintf("fanlog: bad format arguments for %q: %s", format, formatter.Dump(args))
}
