package formatter

import (
	"strings"
)

// DefaultTimeLayout is used by {time} without a layout
const DefaultTimeLayout = "2006-01-02 15:04:05.000"

// timeTokens maps loguru/moment style tokens to Go layout elements.
// Ordered longest first so "YYYY" wins over "YY".
var timeTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"DD", "02"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"SSSSSS", "000000"},
	{"SSS", "000"},
	{"ZZ", "-0700"},
	{"Z", "-07:00"},
	{"A", "PM"},
}

// convertTimeLayout turns a token layout such as "YYYY-MM-DD HH:mm:ss.SSS" into a Go
// reference layout. Layouts that already use the Go reference date pass through.
func convertTimeLayout(spec string) string {
	if spec == "" {
		return DefaultTimeLayout
	}
	if strings.Contains(spec, "2006") || strings.Contains(spec, "15:04") {
		return spec
	}

	var sb strings.Builder
	for i := 0; i < len(spec); {
		matched := false
		for _, t := range timeTokens {
			if strings.HasPrefix(spec[i:], t.token) {
				sb.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(spec[i])
			i++
		}
	}
	return sb.String()
}
