package formatter

import (
	"strings"

	"github.com/fatih/color"
)

// markupAttrs maps markup tag names to terminal attributes
var markupAttrs = map[string][]color.Attribute{
	"black":         {color.FgBlack},
	"red":           {color.FgRed},
	"green":         {color.FgGreen},
	"yellow":        {color.FgYellow},
	"blue":          {color.FgBlue},
	"magenta":       {color.FgMagenta},
	"cyan":          {color.FgCyan},
	"white":         {color.FgWhite},
	"light-black":   {color.FgHiBlack},
	"light-red":     {color.FgHiRed},
	"light-green":   {color.FgHiGreen},
	"light-yellow":  {color.FgHiYellow},
	"light-blue":    {color.FgHiBlue},
	"light-magenta": {color.FgHiMagenta},
	"light-cyan":    {color.FgHiCyan},
	"light-white":   {color.FgHiWhite},
	"bold":          {color.Bold},
	"b":             {color.Bold},
	"dim":           {color.Faint},
	"d":             {color.Faint},
	"italic":        {color.Italic},
	"i":             {color.Italic},
	"underline":     {color.Underline},
	"u":             {color.Underline},
	"strike":        {color.CrossedOut},
	"s":             {color.CrossedOut},
	"reverse":       {color.ReverseVideo},
	"r":             {color.ReverseVideo},
}

// levelAttrs is what <level> resolves to per record level
var levelAttrs = map[int64][]color.Attribute{
	-4: {color.FgBlue, color.Bold},
	0:  {color.Bold},
	2:  {color.FgGreen, color.Bold},
	4:  {color.FgYellow, color.Bold},
	8:  {color.FgRed, color.Bold},
	12: {color.BgRed, color.Bold},
}

const levelTag = "level"

func isMarkupTag(name string) bool {
	if name == levelTag {
		return true
	}
	_, ok := markupAttrs[strings.ToLower(name)]
	return ok
}

// stackAttrs flattens the open tags into one attribute list
func stackAttrs(stack []string) (attrs []color.Attribute, level bool) {
	for _, name := range stack {
		if name == levelTag {
			level = true
			continue
		}
		attrs = append(attrs, markupAttrs[strings.ToLower(name)]...)
	}
	return attrs, level
}

// colorize wraps text in ANSI sequences. Color is forced on: whether a sink wants color
// is decided when its template is compiled, not by the global tty detection of fatih/color.
func colorize(text string, attrs []color.Attribute, withLevel bool, level int64) string {
	if text == "" {
		return text
	}
	all := attrs
	if withLevel {
		all = append(append([]color.Attribute(nil), attrs...), levelAttrs[level]...)
	}
	if len(all) == 0 {
		return text
	}
	c := color.New(all...)
	c.EnableColor()
	return c.Sprint(text)
}
