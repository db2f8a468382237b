// FILE: lixenwraith/fanlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/fanlog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// levelKeywords maps lowercase message fragments to a level. The first matching rule wins,
// so fasthttp's own phrasings come before the generic words.
var levelKeywords = []struct {
	level    int64
	keywords []string
}{
	{fanlog.LevelWarning, []string{"cannot be served", "try increasing"}},
	{fanlog.LevelError, []string{"error", "failed", "fatal", "panic"}},
	{fanlog.LevelWarning, []string{"warn", "deprecated"}},
	{fanlog.LevelDebug, []string{"debug", "trace"}},
}

// FastHTTPAdapter is a fasthttp.Logger that emits into a fanlog source. fasthttp has a
// single Printf entry point, so the record level is guessed from the message text.
type FastHTTPAdapter struct {
	logger   *fanlog.Logger
	fallback int64
	detect   func(string) (int64, bool)
	source   string
}

// FastHTTPOption configures a FastHTTPAdapter
type FastHTTPOption func(*FastHTTPAdapter)

// NewFastHTTPAdapter bridges fasthttp server messages into logger
func NewFastHTTPAdapter(logger *fanlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	a := &FastHTTPAdapter{
		logger:   logger,
		fallback: fanlog.LevelInfo,
		detect:   DetectLogLevel,
		source:   "fasthttp",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithDefaultLevel is the level of messages the detector cannot classify
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.fallback = level
	}
}

// WithLevelDetector replaces DetectLogLevel. A nil detector sends every message at the
// default level.
func WithLevelDetector(detector func(string) (int64, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.detect = detector
	}
}

// WithSourceField sets the "source" field attached to every bridged record
func WithSourceField(source string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.source = source
	}
}

// Printf renders the fasthttp message and emits it with the caller of Printf as the
// calling context
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.fallback
	if a.detect != nil {
		if detected, ok := a.detect(msg); ok {
			level = detected
		}
	}

	var fields fanlog.Fields
	if a.source != "" {
		fields = fanlog.Fields{"source": a.source}
	}
	a.logger.Log(fanlog.CaptureCaller(1), level, "%s", msg, fields)
}

// DetectLogLevel classifies a message by keyword, case-insensitively.
// ok is false when no keyword matches.
func DetectLogLevel(msg string) (level int64, ok bool) {
	lower := strings.ToLower(msg)
	for _, rule := range levelKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.level, true
			}
		}
	}
	return 0, false
}
