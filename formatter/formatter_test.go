// FILE: lixenwraith/fanlog/formatter/formatter_test.go
package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() Record {
	return Record{
		Level:   0,
		Time:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Name:    "worker",
		Message: "started",
		Caller:  Caller{File: "main.go", Line: 42, Function: "run"},
	}
}

func TestTemplate(t *testing.T) {
	rec := testRecord()

	t.Run("plain placeholders", func(t *testing.T) {
		tpl, err := Parse("{time:YYYY-MM-DD HH:mm:ss} | {level: <8} | {name}:{function}:line:{line} | {message}", Options{})
		require.NoError(t, err)

		out := string(tpl.Format(rec))
		assert.Equal(t, "2024-01-01 12:00:00 | INFO     | worker:run:line:42 | started\n", out)
	})

	t.Run("markup stripped without color", func(t *testing.T) {
		tpl, err := Parse("<green>{name}</green> <level>{message}</level>", Options{})
		require.NoError(t, err)

		out := string(tpl.Format(rec))
		assert.Equal(t, "worker started\n", out)
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("markup rendered with color", func(t *testing.T) {
		tpl, err := Parse("<green>{name}</green> <level>{message}</level>", Options{Colorize: true})
		require.NoError(t, err)

		out := string(tpl.Format(rec))
		assert.Contains(t, out, "\x1b[")
		assert.Contains(t, out, "worker")
		assert.Contains(t, out, "started")
	})

	t.Run("non markup angle brackets kept", func(t *testing.T) {
		tpl, err := Parse("a <b c> {message}", Options{})
		require.NoError(t, err)
		assert.Equal(t, "a <b c> started\n", string(tpl.Format(rec)))
	})

	t.Run("escaped braces", func(t *testing.T) {
		tpl, err := Parse("{{literal}} {message}", Options{})
		require.NoError(t, err)
		assert.Equal(t, "{literal} started\n", string(tpl.Format(rec)))
	})

	t.Run("alignment", func(t *testing.T) {
		tpl, err := Parse("[{level:>8}][{level:*^9}]", Options{})
		require.NoError(t, err)
		assert.Equal(t, "[    INFO][**INFO***]\n", string(tpl.Format(rec)))
	})

	t.Run("go layout passes through", func(t *testing.T) {
		tpl, err := Parse("{time:2006-01-02T15:04:05Z07:00}", Options{})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01T12:00:00Z\n", string(tpl.Format(rec)))
	})

	t.Run("fields appended to message", func(t *testing.T) {
		r := rec
		r.Fields = Fields{"user": "ann lee", "id": 7}
		tpl := MustParse("{message}", Options{})
		assert.Equal(t, "started id=7 user=\"ann lee\"\n", string(tpl.Format(r)))
	})

	t.Run("failure info follows the line", func(t *testing.T) {
		r := rec
		r.Failure = errors.New("disk gone")
		tpl := MustParse("{message}", Options{})
		assert.Equal(t, "started\ndisk gone\n", string(tpl.Format(r)))
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{"unknown placeholder", "{bogus}"},
		{"unclosed placeholder", "{message"},
		{"bad width", "{level:<x}"},
		{"unclosed tag", "<red>{message}"},
		{"stray closing tag", "{message}</red>"},
		{"mismatched tags", "<red><bold>{message}</red></bold>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.format, Options{})
			assert.Error(t, err)
		})
	}
}

func TestJSONFormat(t *testing.T) {
	rec := testRecord()
	rec.Level = 4
	rec.Fields = Fields{"attempt": 3, "ch": make(chan int)}
	rec.Failure = errors.New("boom")

	tpl, err := Parse("json", Options{})
	require.NoError(t, err)

	data := tpl.Format(rec)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "WARNING", result["level"])
	assert.Equal(t, "worker", result["name"])
	assert.Equal(t, "started", result["message"])
	assert.Equal(t, "boom", result["exception"])

	fields := result["fields"].(map[string]any)
	assert.Equal(t, float64(3), fields["attempt"])
	assert.IsType(t, "", fields["ch"])
}

func TestLevelToString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelToString(-4))
	assert.Equal(t, "INFO", LevelToString(0))
	assert.Equal(t, "SUCCESS", LevelToString(2))
	assert.Equal(t, "WARNING", LevelToString(4))
	assert.Equal(t, "ERROR", LevelToString(8))
	assert.Equal(t, "CRITICAL", LevelToString(12))
	assert.Equal(t, "LEVEL(99)", LevelToString(99))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `""`, FormatValue(""))
	assert.Equal(t, "plain", FormatValue("plain"))
	assert.Equal(t, `"two words"`, FormatValue("two words"))
	assert.Equal(t, "line<0a>break", FormatValue("line\nbreak"))
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "true", FormatValue(true))
}

func TestConvertTimeLayout(t *testing.T) {
	assert.Equal(t, DefaultTimeLayout, convertTimeLayout(""))
	assert.Equal(t, "2006-01-02 15:04:05.000", convertTimeLayout("YYYY-MM-DD HH:mm:ss.SSS"))
	assert.Equal(t, "02 Jan 06 03:04 PM", convertTimeLayout("DD MMM YY hh:mm A"))
}
