// FILE: lixenwraith/fanlog/async.go
package fanlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// asyncSink moves writes of a slow sink onto a single processor goroutine.
// Enqueue blocks while the buffer is full, records are never dropped.
type asyncSink struct {
	next         Sink
	ch           chan []byte
	flushRequest chan chan error
	done         chan struct{}
	closeMu      sync.RWMutex
	closed       atomic.Bool
	diag         *diagnostics
	stats        *stats
}

func newAsyncSink(next Sink, bufferSize int, flushInterval time.Duration, diag *diagnostics, st *stats) *asyncSink {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	if flushInterval < minWaitTime {
		flushInterval = minWaitTime
	}
	a := &asyncSink{
		next:         next,
		ch:           make(chan []byte, bufferSize),
		flushRequest: make(chan chan error),
		done:         make(chan struct{}),
		diag:         diag,
		stats:        st,
	}
	go a.processLogs(flushInterval)
	return a
}

// processLogs is the processor loop: write, periodic sync, explicit flush, drain on close
func (a *asyncSink) processLogs(flushInterval time.Duration) {
	defer close(a.done)

	flushTicker := time.NewTicker(flushInterval)
	defer flushTicker.Stop()

	for {
		select {
		case line, ok := <-a.ch:
			if !ok {
				if err := a.next.Sync(); err != nil {
					a.diag.internalLog("final sync failed: %v", err)
				}
				return
			}
			a.processLogRecord(line)

		case <-flushTicker.C:
			if err := a.next.Sync(); err != nil {
				a.diag.internalLog("periodic sync failed: %v", err)
			}

		case confirm := <-a.flushRequest:
			// Everything enqueued before the request is written first
			for drained := false; !drained; {
				select {
				case line, ok := <-a.ch:
					if !ok {
						drained = true
						break
					}
					a.processLogRecord(line)
				default:
					drained = true
				}
			}
			confirm <- a.next.Sync()
		}
	}
}

func (a *asyncSink) processLogRecord(line []byte) {
	if _, err := a.next.Write(line); err != nil {
		if a.stats != nil {
			a.stats.SinkErrors.Add(1)
		}
		a.diag.internalLog("async write failed: %v", err)
	}
}

// Write copies the line and enqueues it
func (a *asyncSink) Write(p []byte) (int, error) {
	a.closeMu.RLock()
	defer a.closeMu.RUnlock()
	if a.closed.Load() {
		return 0, fmtErrorf("async sink is closed")
	}
	line := make([]byte, len(p))
	copy(line, p)
	a.ch <- line
	return len(p), nil
}

// Sync waits until all queued lines are written and the underlying sink is synced
func (a *asyncSink) Sync() error {
	if a.closed.Load() {
		return nil
	}
	confirm := make(chan error, 1)
	select {
	case a.flushRequest <- confirm:
	case <-a.done:
		return nil
	}
	select {
	case err := <-confirm:
		return err
	case <-a.done:
		return nil
	}
}

// Close stops accepting lines, drains the queue and closes the underlying sink
func (a *asyncSink) Close() error {
	a.closeMu.Lock()
	if a.closed.Swap(true) {
		a.closeMu.Unlock()
		<-a.done
		return nil
	}
	close(a.ch)
	a.closeMu.Unlock()

	<-a.done
	return a.next.Close()
}
