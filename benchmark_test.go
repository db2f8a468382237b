// FILE: lixenwraith/fanlog/benchmark_test.go
package fanlog

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// createBenchRegistry creates a registry writing only to <tmp>/app.log
func createBenchRegistry(b *testing.B, overrides ...string) *Registry {
	b.Helper()
	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.Directory = b.TempDir()
	cfg.InternalErrorsToStderr = false
	if err := ApplyOverride(cfg, overrides...); err != nil {
		b.Fatal(err)
	}

	r, err := NewRegistry(cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = r.Shutdown(time.Second) })
	return r
}

// BenchmarkFileSinkWrite benchmarks raw appends with periodic rollover
func BenchmarkFileSinkWrite(b *testing.B) {
	sink, err := NewFileSink(filepath.Join(b.TempDir(), "bench.log"), 1<<20, 3, "")
	if err != nil {
		b.Fatal(err)
	}
	defer sink.Close()

	line := []byte(strings.Repeat("b", 99) + "\n")
	b.SetBytes(int64(len(line)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sink.Write(line); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoggerInfo benchmarks formatting and dispatch to the default file sink
func BenchmarkLoggerInfo(b *testing.B) {
	l := createBenchRegistry(b).Get("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message %d", i)
	}
}

// BenchmarkLoggerJSON benchmarks JSON records with fields
func BenchmarkLoggerJSON(b *testing.B) {
	l := createBenchRegistry(b, "format=json").Get("bench")
	fields := Fields{"user_id": 123, "action": "benchmark", "value": 42.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.LogStructured(LevelInfo, "benchmark", fields)
	}
}

// BenchmarkGatedRecord benchmarks a record rejected by the level gate
func BenchmarkGatedRecord(b *testing.B) {
	l := createBenchRegistry(b, "level=error").Get("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Debug("never written %d", i)
	}
}

// BenchmarkConcurrentLogging benchmarks several sources sharing one file sink
func BenchmarkConcurrentLogging(b *testing.B) {
	r := createBenchRegistry(b, "max_bytes=1048576", "backup_count=2")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		l := r.Get("worker")
		i := 0
		for pb.Next() {
			l.Info("concurrent %d", i)
			i++
		}
	})
}
