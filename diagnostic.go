// FILE: lixenwraith/fanlog/diagnostic.go
package fanlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// diagnostics reports problems of the logging machinery itself. Lines go to a plain
// writer, never through a sink, and are throttled so a failing disk cannot flood stderr.
type diagnostics struct {
	mu        sync.Mutex
	w         io.Writer // nil disables output
	limiter   *rate.Limiter
	throttled *stats
}

func newDiagnostics(w io.Writer, enabled bool, st *stats) *diagnostics {
	if !enabled {
		w = nil
	} else if w == nil {
		w = os.Stderr
	}
	return &diagnostics{
		w:         w,
		limiter:   rate.NewLimiter(rate.Limit(diagnosticRate), diagnosticBurst),
		throttled: st,
	}
}

// internalLog writes one "fanlog: " prefixed line
func (d *diagnostics) internalLog(format string, args ...any) {
	if d == nil || d.w == nil {
		return
	}
	if !d.limiter.Allow() {
		if d.throttled != nil {
			d.throttled.ThrottledDiagnostics.Add(1)
		}
		return
	}

	if !strings.HasPrefix(format, "fanlog: ") {
		format = "fanlog: " + format
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, format, args...)
}
