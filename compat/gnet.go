// FILE: lixenwraith/fanlog/compat/gnet.go
package compat

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/fanlog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a fanlog.Logger to implement gnet logging.Logger interface
type GnetAdapter struct {
	logger        *fanlog.Logger
	fatalHandler  func(msg string) // Customizable fatal behavior
	extractFields bool
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *fanlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithFieldExtraction turns "key=%v" verbs of gnet format strings into record fields
func WithFieldExtraction() GnetOption {
	return func(a *GnetAdapter) {
		a.extractFields = true
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.log(fanlog.LevelDebug, format, args)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.log(fanlog.LevelInfo, format, args)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.log(fanlog.LevelWarning, format, args)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.log(fanlog.LevelError, format, args)
}

// Fatalf logs at critical level and triggers fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Log(fanlog.CaptureCaller(1), fanlog.LevelCritical, "%s", msg, fanlog.Fields{"source": "gnet", "fatal": true})

	// Ensure log is flushed before exit
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// log names the gnet call site: 0 log, 1 Debugf..., 2 gnet
func (a *GnetAdapter) log(level int64, format string, args []any) {
	caller := fanlog.CaptureCaller(2)
	if a.extractFields {
		msg, fields := parseFormat(format, args)
		fields["source"] = "gnet"
		a.logger.Log(caller, level, "%s", msg, fields)
		return
	}
	a.logger.Log(caller, level, format, append(args, fanlog.Fields{"source": "gnet"})...)
}

// keyValuePattern detects structured verbs like "key=%v" or "key: %d"
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcUt]`)

// parseFormat extracts key/value verbs from a printf-style format into fields.
// The message keeps the text around them.
func parseFormat(format string, args []any) (string, fanlog.Fields) {
	fields := fanlog.Fields{}
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) || countVerbs(format) != len(args) {
		return fmt.Sprintf(format, args...), fields
	}

	var msg strings.Builder
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		// Text and plain verbs before this match stay in the message
		if match[0] > lastEnd {
			segment := format[lastEnd:match[0]]
			n := countVerbs(segment)
			msg.WriteString(fmt.Sprintf(segment, args[argIndex:argIndex+n]...))
			argIndex += n
		}

		key := format[match[2]:match[3]]
		fields[key] = args[argIndex]
		argIndex++
		lastEnd = match[1]
	}

	if lastEnd < len(format) {
		msg.WriteString(fmt.Sprintf(format[lastEnd:], args[argIndex:]...))
	}

	return strings.Join(strings.Fields(msg.String()), " "), fields
}

// countVerbs counts the arguments consumed by a format fragment
func countVerbs(format string) int {
	return strings.Count(format, "%") - strings.Count(format, "%%")*2
}
