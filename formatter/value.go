package formatter

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// dumpConfig renders complex values on a single line
var dumpConfig = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          false,
	SortKeys:                true,
}

// Dump returns a compact, deterministic rendering of any value
func Dump(v any) string {
	return strings.Join(strings.Fields(dumpConfig.Sprintf("%v", v)), " ")
}

// appendFields writes " k=v" pairs in key order
func appendFields(sb *strings.Builder, fields Fields) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(FormatValue(fields[k]))
	}
}

// FormatValue renders a field value for text output
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return quoteIfNeeded(val)
	case []byte:
		return quoteIfNeeded(string(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case time.Duration:
		return val.String()
	case error:
		return quoteIfNeeded(val.Error())
	case fmt.Stringer:
		return quoteIfNeeded(val.String())
	default:
		return quoteIfNeeded(Dump(val))
	}
}

// quoteIfNeeded keeps k=v pairs on one line: values with spaces, quotes or '=' are
// quoted, non-printable runes are hex encoded as <XX>.
func quoteIfNeeded(s string) string {
	s = escapeNonPrintable(s)
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " =\"\\") {
		return strconv.Quote(s)
	}
	return s
}

func escapeNonPrintable(s string) string {
	clean := true
	for _, r := range s {
		if !strconv.IsPrint(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if strconv.IsPrint(r) {
			sb.WriteRune(r)
			continue
		}
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		sb.WriteByte('<')
		sb.WriteString(hex.EncodeToString(rb[:n]))
		sb.WriteByte('>')
	}
	return sb.String()
}
