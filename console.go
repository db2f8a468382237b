// FILE: lixenwraith/fanlog/console.go
package fanlog

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"golang.org/x/term"
)

// ConsoleSink writes lines to stdout or stderr. One instance exists per stream.
type ConsoleSink struct {
	mu     sync.Mutex
	target string
	w      io.Writer
	color  bool // Stream accepts ANSI sequences
}

// NewConsoleSink creates the sink for a standard stream. A non-nil w replaces the
// stream and is treated as color capable.
func NewConsoleSink(target string, w io.Writer) *ConsoleSink {
	s := &ConsoleSink{target: target, w: w, color: true}
	if w != nil {
		return s
	}

	f := os.Stdout
	s.w = colorable.NewColorableStdout()
	if target == TargetStderr {
		f = os.Stderr
		s.w = colorable.NewColorableStderr()
	}
	s.color = term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	return s
}

// Target returns the stream name
func (s *ConsoleSink) Target() string {
	return s.target
}

// SupportsColor reports whether colorized attachments get ANSI output on this stream
func (s *ConsoleSink) SupportsColor() bool {
	return s.color
}

// Write emits one line as a single write
func (s *ConsoleSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Sync is a no-op, the standard streams are unbuffered
func (s *ConsoleSink) Sync() error {
	return nil
}

// Close leaves the stream open
func (s *ConsoleSink) Close() error {
	return nil
}
