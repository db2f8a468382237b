// FILE: lixenwraith/fanlog/formatter/formatter.go
// Package formatter renders log records through brace/markup templates such as
// "<green>{time:YYYY-MM-DD HH:mm:ss}</green> | <level>{level: <8}</level> | {message}".
package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
)

// FormatJSON selects one JSON object per line instead of a text template
const FormatJSON = "json"

// Options control how a parsed template renders records
type Options struct {
	Colorize bool // Emit ANSI sequences for markup tags, otherwise tags are stripped
	Details  bool // Render failure info with stack (%+v) instead of its message only
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segField
)

// segment is one piece of a compiled template
type segment struct {
	kind  segmentKind
	text  string // Literal text or field name
	fill  rune
	align byte // '<', '>', '^' or 0
	width int
	// Time layout for {time}
	layout string
	// Markup active at this point
	attrs      []color.Attribute
	levelColor bool
}

// Template is a compiled format. It is immutable and safe for concurrent use.
type Template struct {
	source   string
	json     bool
	opts     Options
	segments []segment
}

var knownFields = map[string]bool{
	"time":     true,
	"level":    true,
	"name":     true,
	"function": true,
	"line":     true,
	"file":     true,
	"message":  true,
	"process":  true,
}

var pid = strconv.Itoa(os.Getpid())

// Parse compiles a format string. Unknown placeholders, bad width specs and
// unbalanced markup are reported as errors.
func Parse(format string, opts Options) (*Template, error) {
	t := &Template{source: format, opts: opts}
	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		t.json = true
		return t, nil
	}

	var (
		lit   strings.Builder
		stack []string
	)
	flush := func() {
		if lit.Len() == 0 {
			return
		}
		attrs, lvl := stackAttrs(stack)
		t.segments = append(t.segments, segment{kind: segLiteral, text: lit.String(), attrs: attrs, levelColor: lvl})
		lit.Reset()
	}

	for i := 0; i < len(format); {
		c := format[i]
		switch {
		case c == '\\' && i+1 < len(format) && (format[i+1] == '<' || format[i+1] == '{'):
			lit.WriteByte(format[i+1])
			i += 2

		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			lit.WriteByte('{')
			i += 2

		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			lit.WriteByte('}')
			i += 2

		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("formatter: unclosed placeholder at offset %d in %q", i, format)
			}
			seg, err := parsePlaceholder(format[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			flush()
			seg.attrs, seg.levelColor = stackAttrs(stack)
			t.segments = append(t.segments, seg)
			i += end + 1

		case c == '<':
			end := strings.IndexByte(format[i:], '>')
			if end < 0 {
				lit.WriteByte(c)
				i++
				continue
			}
			tag := format[i+1 : i+end]
			closing := strings.HasPrefix(tag, "/")
			name := strings.TrimPrefix(tag, "/")
			if !closing && !isMarkupTag(name) || closing && name != "" && !isMarkupTag(name) {
				// Not markup, keep verbatim
				lit.WriteByte(c)
				i++
				continue
			}
			flush()
			if closing {
				if len(stack) == 0 {
					return nil, fmt.Errorf("formatter: closing tag <%s> without opening tag in %q", tag, format)
				}
				if name != "" && stack[len(stack)-1] != name {
					return nil, fmt.Errorf("formatter: closing tag <%s> does not match <%s> in %q", tag, stack[len(stack)-1], format)
				}
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, name)
			}
			i += end + 1

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	if len(stack) > 0 {
		return nil, fmt.Errorf("formatter: unclosed tag <%s> in %q", stack[len(stack)-1], format)
	}
	return t, nil
}

// MustParse is Parse for static templates, panicking on error
func MustParse(format string, opts Options) *Template {
	t, err := Parse(format, opts)
	if err != nil {
		panic(err)
	}
	return t
}

// parsePlaceholder handles the inside of {name} or {name:spec}
func parsePlaceholder(body string) (segment, error) {
	name, spec, hasSpec := strings.Cut(body, ":")
	name = strings.TrimSpace(name)
	if !knownFields[name] {
		return segment{}, fmt.Errorf("formatter: unknown placeholder {%s}", body)
	}
	seg := segment{kind: segField, text: name, fill: ' '}
	if name == "time" {
		seg.layout = convertTimeLayout(spec)
		return seg, nil
	}
	if !hasSpec || spec == "" {
		return seg, nil
	}

	// [[fill]align][width]
	r, size := utf8.DecodeRuneInString(spec)
	if len(spec) > size && isAlign(spec[size]) {
		seg.fill = r
		seg.align = spec[size]
		spec = spec[size+1:]
	} else if isAlign(spec[0]) {
		seg.align = spec[0]
		spec = spec[1:]
	}
	if spec != "" {
		w, err := strconv.Atoi(spec)
		if err != nil || w < 0 {
			return segment{}, fmt.Errorf("formatter: invalid width in placeholder {%s}", body)
		}
		seg.width = w
	}
	if seg.align == 0 {
		seg.align = '<'
	}
	return seg, nil
}

func isAlign(b byte) bool {
	return b == '<' || b == '>' || b == '^'
}

// Source returns the format string the template was compiled from
func (t *Template) Source() string {
	return t.source
}

// Options returns the render options fixed at parse time
func (t *Template) Options() Options {
	return t.opts
}

// Format renders a record into one line terminated by '\n'. Failure info, if any,
// follows the line before the terminator.
func (t *Template) Format(rec Record) []byte {
	if t.json {
		return t.formatJSON(rec)
	}

	buf := make([]byte, 0, 256)
	for i := range t.segments {
		seg := &t.segments[i]
		var text string
		if seg.kind == segLiteral {
			text = seg.text
		} else {
			text = pad(fieldValue(seg, rec), seg)
		}
		if t.opts.Colorize && (len(seg.attrs) > 0 || seg.levelColor) {
			text = colorize(text, seg.attrs, seg.levelColor, rec.Level)
		}
		buf = append(buf, text...)
	}

	if rec.Failure != nil {
		buf = append(buf, '\n')
		buf = append(buf, t.failureText(rec.Failure)...)
	}
	return append(buf, '\n')
}

// fieldValue resolves a placeholder against a record
func fieldValue(seg *segment, rec Record) string {
	switch seg.text {
	case "time":
		return rec.Time.Format(seg.layout)
	case "level":
		return LevelToString(rec.Level)
	case "name":
		return rec.Name
	case "function":
		return rec.Caller.Function
	case "line":
		return strconv.Itoa(rec.Caller.Line)
	case "file":
		return rec.Caller.File
	case "message":
		if len(rec.Fields) == 0 {
			return rec.Message
		}
		var sb strings.Builder
		sb.WriteString(rec.Message)
		appendFields(&sb, rec.Fields)
		return sb.String()
	case "process":
		return pid
	}
	return ""
}

// pad applies the width spec of a placeholder
func pad(s string, seg *segment) string {
	n := utf8.RuneCountInString(s)
	if seg.width <= n {
		return s
	}
	fill := strings.Repeat(string(seg.fill), seg.width-n)
	switch seg.align {
	case '>':
		return fill + s
	case '^':
		left := (seg.width - n) / 2
		return strings.Repeat(string(seg.fill), left) + s + strings.Repeat(string(seg.fill), seg.width-n-left)
	default:
		return s + fill
	}
}

func (t *Template) failureText(err error) string {
	if t.opts.Details {
		return strings.TrimRight(fmt.Sprintf("%+v", err), "\n")
	}
	return err.Error()
}

// jsonRecord is the JSON line layout
type jsonRecord struct {
	Time      string         `json:"time"`
	Level     string         `json:"level"`
	Name      string         `json:"name"`
	Message   string         `json:"message"`
	Function  string         `json:"function,omitempty"`
	File      string         `json:"file,omitempty"`
	Line      int            `json:"line,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Exception string         `json:"exception,omitempty"`
}

// formatJSON renders one JSON object followed by '\n'
func (t *Template) formatJSON(rec Record) []byte {
	jr := jsonRecord{
		Time:     rec.Time.Format(time.RFC3339Nano),
		Level:    LevelToString(rec.Level),
		Name:     rec.Name,
		Message:  rec.Message,
		Function: rec.Caller.Function,
		File:     rec.Caller.File,
		Line:     rec.Caller.Line,
	}
	if len(rec.Fields) > 0 {
		jr.Fields = rec.Fields
	}
	if rec.Failure != nil {
		jr.Exception = t.failureText(rec.Failure)
	}

	data, err := json.Marshal(jr)
	if err != nil {
		// Unmarshalable field values fall back to their dumped text
		safe := make(map[string]any, len(rec.Fields))
		for k, v := range rec.Fields {
			if _, merr := json.Marshal(v); merr != nil {
				safe[k] = Dump(v)
			} else {
				safe[k] = v
			}
		}
		jr.Fields = safe
		if data, err = json.Marshal(jr); err != nil {
			data = []byte(fmt.Sprintf(`{"_marshal_error":%q}`, err.Error()))
		}
	}
	return append(data, '\n')
}
