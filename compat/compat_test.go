// FILE: lixenwraith/fanlog/compat/compat_test.go
package compat

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fanlog"
)

// createTestCompatBuilder creates a registry writing JSON lines to a buffer
func createTestCompatBuilder(t *testing.T) (*Builder, *fanlog.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	reg, err := fanlog.NewBuilder().
		Directory(t.TempDir()).
		Format("json").
		LevelString("debug").
		EnableConsole(true).
		ConsoleOutput(&buf, nil).
		InternalErrorsToStderr(false).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Shutdown(time.Second) })

	builder := NewBuilder("server").WithRegistry(reg)
	return builder, reg, &buf
}

// readEntries parses every JSON line written so far
func readEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "Failed to parse log line: %s", scanner.Text())
		entries = append(entries, entry)
	}
	return entries
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing registry", func(t *testing.T) {
		builder, reg, _ := createTestCompatBuilder(t)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Equal(t, reg.Get("server"), gnetAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		cfg := fanlog.DefaultConfig()
		cfg.Directory = t.TempDir()
		cfg.EnableConsole = false

		builder := NewBuilder("server").WithConfig(cfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		reg, err := builder.GetRegistry()
		require.NoError(t, err)
		defer reg.Shutdown(time.Second)
		assert.Equal(t, []string{"server"}, reg.Loggers())
	})

	t.Run("nil registry and empty name", func(t *testing.T) {
		_, err := NewBuilder("server").WithRegistry(nil).BuildGnet()
		assert.Error(t, err)

		_, err = NewBuilder("").BuildSlog()
		assert.Error(t, err)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and format
func TestGnetAdapter(t *testing.T) {
	builder, _, buf := createTestCompatBuilder(t)

	var fatalCalled bool
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	expected := []struct{ level, msg string }{
		{"DEBUG", "gnet debug id=1"},
		{"INFO", "gnet info id=2"},
		{"WARNING", "gnet warn id=3"},
		{"ERROR", "gnet error id=4"},
		{"CRITICAL", "gnet fatal id=5"},
	}

	entries := readEntries(t, buf)
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.Equal(t, expected[i].level, entry["level"])
		assert.Equal(t, expected[i].msg, entry["message"])
		assert.Equal(t, "server", entry["name"])
		assert.Equal(t, "compat_test.go", entry["file"], "caller should be the code calling the adapter")

		fields := entry["fields"].(map[string]any)
		assert.Equal(t, "gnet", fields["source"])
	}
	assert.Equal(t, true, entries[4]["fields"].(map[string]any)["fatal"])
	assert.True(t, fatalCalled, "Custom fatal handler should have been called")
}

// TestStructuredGnetAdapter tests the gnet adapter with structured field extraction
func TestStructuredGnetAdapter(t *testing.T) {
	builder, _, buf := createTestCompatBuilder(t)

	adapter, err := builder.BuildGnet(WithFieldExtraction())
	require.NoError(t, err)

	adapter.Infof("request served status=%d client_ip=%s", 200, "127.0.0.1")

	entries := readEntries(t, buf)
	require.Len(t, entries, 1)
	entry := entries[0]

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "request served", entry["message"])
	fields := entry["fields"].(map[string]any)
	assert.Equal(t, 200.0, fields["status"]) // JSON numbers are float64
	assert.Equal(t, "127.0.0.1", fields["client_ip"])
	assert.Equal(t, "gnet", fields["source"])
}

func TestParseFormat(t *testing.T) {
	msg, fields := parseFormat("accepted conn=%v from %s", []any{7, "10.0.0.1"})
	assert.Equal(t, "accepted from 10.0.0.1", msg)
	assert.Equal(t, fanlog.Fields{"conn": 7}, fields)

	msg, fields = parseFormat("no structure %d", []any{1})
	assert.Equal(t, "no structure 1", msg)
	assert.Empty(t, fields)
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output and level detection
func TestFastHTTPAdapter(t *testing.T) {
	builder, _, buf := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []struct{ msg, level string }{
		{"this is some informational message", "INFO"},
		{"a debug message for the developers", "DEBUG"},
		{"warning: something might be wrong", "WARNING"},
		{"an error occurred while processing", "ERROR"},
	}
	for _, tm := range testMessages {
		adapter.Printf("%s", tm.msg)
	}

	entries := readEntries(t, buf)
	require.Len(t, entries, len(testMessages))
	for i, entry := range entries {
		assert.Equal(t, testMessages[i].level, entry["level"])
		assert.Equal(t, testMessages[i].msg, entry["message"])
		assert.Equal(t, "fasthttp", entry["fields"].(map[string]any)["source"])
	}
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg   string
		level int64
		ok    bool
	}{
		{"Server started", 0, false},
		{"Panic recovered in handler", fanlog.LevelError, true},
		{"WARN: slow client", fanlog.LevelWarning, true},
		{"trace id=5", fanlog.LevelDebug, true},
		// fasthttp's own phrasings
		{"The incoming connection cannot be served, because 10 concurrent connections are served. Try increasing Server.Concurrency", fanlog.LevelWarning, true},
		{"error when serving connection \"1.2.3.4:80\"<->\"5.6.7.8:9\": timeout", fanlog.LevelError, true},
		// error rules come before debug rules
		{"debug: request failed", fanlog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			level, ok := DetectLogLevel(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, _, buf := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(fanlog.LevelWarning),
		WithLevelDetector(nil),
		WithSourceField("edge"),
	)
	require.NoError(t, err)

	adapter.Printf("listener %s closed with error", ":8080")

	entries := readEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARNING", entries[0]["level"], "nil detector leaves the default level")
	assert.Equal(t, "listener :8080 closed with error", entries[0]["message"])
	assert.Equal(t, "edge", entries[0]["fields"].(map[string]any)["source"])
}

func TestSlogHandler(t *testing.T) {
	builder, reg, buf := createTestCompatBuilder(t)

	handler, err := builder.BuildSlog()
	require.NoError(t, err)
	logger := slog.New(handler).With("service", "api")

	logger.Info("request",
		"user", "ann",
		slog.Group("req", "id", 7),
		"err", errors.New("upstream timeout"),
	)
	logger.WithGroup("db").Warn("slow query", "ms", 250)

	entries := readEntries(t, buf)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "request", first["message"])
	assert.Equal(t, "compat_test.go", first["file"])
	assert.Equal(t, "upstream timeout", first["exception"])
	fields := first["fields"].(map[string]any)
	assert.Equal(t, "api", fields["service"])
	assert.Equal(t, "ann", fields["user"])
	assert.Equal(t, 7.0, fields["req.id"])

	second := entries[1]
	assert.Equal(t, "WARNING", second["level"])
	assert.Equal(t, 250.0, second["fields"].(map[string]any)["db.ms"])

	t.Run("gate applies to slog records", func(t *testing.T) {
		reg.SetLevel("server", fanlog.LevelError)
		defer reg.SetLevel("server", fanlog.LevelDebug)

		assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
		assert.True(t, handler.Enabled(t.Context(), slog.LevelError))
	})
}
