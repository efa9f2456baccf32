package output

import (
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
)

func Indent(spaces int, multilineText string) string {
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(multilineText, "\n")
	var indented strings.Builder
	for i, line := range lines {
		indented.WriteString(indent)
		indented.WriteString(line)
		if len(lines) > 1 && i < len(lines)-1 {
			indented.WriteRune('\n') //unless last line or only line
		}
	}
	return indented.String()
}

func Plural(countable interface{}, singular string, plural string) string {
	switch c := countable.(type) {

	case int:
		if c != 1 {
			return plural
		}
	default:
		if reflect.ValueOf(c).Len() != 1 {
			return plural
		}
	}
	return singular
}

// Count renders an amount with thousands separators and the matching noun, e.g. "1,024 files".
func Count(n int, singular string, plural string) string {
	return humanize.Comma(int64(n)) + " " + Plural(n, singular, plural)
}
