// FILE: lixenwraith/fanlog/state.go
package fanlog

import (
	"sync/atomic"
	"time"
)

// stats holds the registry counters, shared with sinks and diagnostics
type stats struct {
	Emitted              atomic.Uint64 // Records that passed the gate
	Filtered             atomic.Uint64 // Records dropped by the gate
	Dropped              atomic.Uint64 // Records emitted after shutdown
	SinkErrors           atomic.Uint64 // Failed or panicking sink writes
	Rotations            atomic.Uint64 // Successful rollovers
	RotationFailures     atomic.Uint64 // Rollovers degraded to appending
	ThrottledDiagnostics atomic.Uint64 // Diagnostic lines suppressed by the rate limiter
}

// Stats is a point-in-time snapshot of registry activity
type Stats struct {
	StartTime            time.Time
	Emitted              uint64
	Filtered             uint64
	Dropped              uint64
	SinkErrors           uint64
	Rotations            uint64
	RotationFailures     uint64
	ThrottledDiagnostics uint64
	Loggers              int
	Sinks                int
}

func (s *stats) snapshot() Stats {
	return Stats{
		Emitted:              s.Emitted.Load(),
		Filtered:             s.Filtered.Load(),
		Dropped:              s.Dropped.Load(),
		SinkErrors:           s.SinkErrors.Load(),
		Rotations:            s.Rotations.Load(),
		RotationFailures:     s.RotationFailures.Load(),
		ThrottledDiagnostics: s.ThrottledDiagnostics.Load(),
	}
}

// state encapsulates the lifecycle of a registry
type state struct {
	StartTime      time.Time
	ShutdownCalled atomic.Bool
	stats          stats
}
