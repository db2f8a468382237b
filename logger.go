// FILE: lixenwraith/fanlog/logger.go
package fanlog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Emitter is the emission surface of a named logger
type Emitter interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Critical(format string, args ...any)
	Exception(err error, format string, args ...any)
}

var _ Emitter = (*Logger)(nil)

// Logger is the handle of one named source. It is created once per name by its
// Registry and reused; all methods are safe for concurrent use.
type Logger struct {
	name        string
	registry    *Registry
	attachMu    sync.Mutex                    // Serializes attach, emission never takes it
	attachments atomic.Pointer[[]*attachment] // Copy-on-write
}

func newLogger(name string, r *Registry) *Logger {
	l := &Logger{name: name, registry: r}
	empty := make([]*attachment, 0)
	l.attachments.Store(&empty)
	return l
}

// Name returns the source name of the logger
func (l *Logger) Name() string {
	return l.name
}

// Attachments returns the sink configurations attached to the logger, in order
func (l *Logger) Attachments() []SinkConfig {
	current := *l.attachments.Load()
	out := make([]SinkConfig, len(current))
	for i, a := range current {
		out[i] = a.config
	}
	return out
}

// Debug logs a message at debug level
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, nil, format, args)
}

// Info logs a message at info level
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, nil, format, args)
}

// Success logs a message at success level
func (l *Logger) Success(format string, args ...any) {
	l.log(LevelSuccess, nil, format, args)
}

// Warning logs a message at warning level
func (l *Logger) Warning(format string, args ...any) {
	l.log(LevelWarning, nil, format, args)
}

// Error logs a message at error level
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, nil, format, args)
}

// Critical logs a message at critical level
func (l *Logger) Critical(format string, args ...any) {
	l.log(LevelCritical, nil, format, args)
}

// Exception logs a message at error level with err as failure info.
// Errors without a stack trace get one recorded here.
func (l *Logger) Exception(err error, format string, args ...any) {
	if err != nil {
		if _, ok := err.(interface{ StackTrace() errors.StackTrace }); !ok {
			err = errors.WithStack(err)
		}
	}
	l.log(LevelError, err, format, args)
}

// Log logs a message with an explicit calling context, for adapters that know the
// location of the original call better than the call stack does
func (l *Logger) Log(caller Caller, level int64, format string, args ...any) {
	if !l.admit(level) {
		return
	}
	l.dispatch(newRecord(l.name, level, caller, nil, format, args))
}

// LogStructured logs a message with fields at the given level
func (l *Logger) LogStructured(level int64, message string, fields Fields) {
	if !l.admit(level) {
		return
	}
	rec := newRecord(l.name, level, captureCaller(2), nil, message, nil)
	rec.Fields = fields
	l.dispatch(rec)
}

// Emit delivers a prebuilt record. An empty record name is replaced by the logger's.
func (l *Logger) Emit(rec Record) {
	if rec.Name == "" {
		rec.Name = l.name
	}
	if !l.registry.admit(rec.Name, rec.Level) {
		return
	}
	l.dispatch(rec)
}

// log is the single capture boundary of the calling context for the level methods
func (l *Logger) log(level int64, failure error, format string, args []any) {
	if !l.admit(level) {
		return
	}
	l.dispatch(newRecord(l.name, level, captureCaller(callerSkip), failure, format, args))
}

func (l *Logger) admit(level int64) bool {
	return l.registry.admit(l.name, level)
}

// dispatch formats and writes the record to every attachment whose level admits it.
// Sink failures are counted and reported, never returned.
func (l *Logger) dispatch(rec Record) {
	r := l.registry
	r.state.stats.Emitted.Add(1)
	for _, a := range *l.attachments.Load() {
		if rec.Level < a.config.Level {
			continue
		}
		l.deliver(a, rec)
	}
}

func (l *Logger) deliver(a *attachment, rec Record) {
	r := l.registry
	defer func() {
		if p := recover(); p != nil {
			r.state.stats.SinkErrors.Add(1)
			r.diag.internalLog("sink %s panicked: %v", a.describe(), p)
		}
	}()

	line := a.template.Format(rec)
	if _, err := a.sink.Write(line); err != nil {
		r.state.stats.SinkErrors.Add(1)
		r.diag.internalLog("failed to write to sink %s: %v", a.describe(), err)
	}
}

// attach appends an attachment unless one with the same identity exists
func (l *Logger) attach(a *attachment) bool {
	l.attachMu.Lock()
	defer l.attachMu.Unlock()

	current := *l.attachments.Load()
	for _, existing := range current {
		if existing.identity == a.identity {
			return false
		}
	}
	next := make([]*attachment, len(current), len(current)+1)
	copy(next, current)
	next = append(next, a)
	l.attachments.Store(&next)
	return true
}

// hasIdentity reports whether an attachment with the identity exists
func (l *Logger) hasIdentity(identity string) bool {
	for _, existing := range *l.attachments.Load() {
		if existing.identity == identity {
			return true
		}
	}
	return false
}

// Flush syncs all sinks of the registry, see Registry.Flush
func (l *Logger) Flush(timeout time.Duration) error {
	return l.registry.Flush(timeout)
}
