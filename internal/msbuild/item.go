package msbuild

import (
	"fmt"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
)

// Item is one element inside an <ItemGroup>, such as a ClCompile or Filter record.
type Item struct {
	Kind     string
	Include  string
	Metadata map[string]string //one-line child elements only
	Raw      []string          //verbatim lines, start tag to end tag
}

// ReadItem consumes the item whose start tag is lines[start].
// It returns the index of the first line after the item.
func ReadItem(lines []string, start int) (item Item, next int, err error) {
	tag, err := ParseTag(lines[start])
	if err != nil {
		return Item{}, start, fmt.Errorf("line %d: %w", start+1, err)
	}
	item = Item{Kind: tag.Name, Include: tag.Attrs["Include"], Metadata: map[string]string{}}
	if SelfClosing(lines[start]) || Closes(lines[start], tag.Name) {
		if name, value, ok := ParseElement(stripOuter(lines[start], tag.Name)); ok {
			item.Metadata[name] = value
		}
		item.Raw = slices.Clone(lines[start : start+1])
		return item, start + 1, nil
	}
	for next = start + 1; next < len(lines); next++ {
		if Closes(lines[next], tag.Name) {
			item.Raw = slices.Clone(lines[start : next+1])
			return item, next + 1, nil
		}
		if Closes(lines[next], "ItemGroup") {
			break
		}
		if name, value, ok := ParseElement(lines[next]); ok {
			item.Metadata[name] = value
		}
	}
	return Item{}, start, fmt.Errorf("%w: line %d: <%s> is never closed", fault.ErrParse, start+1, tag.Name)
}

// stripOuter reduces `<A x="1"><B>v</B></A>` to `<B>v</B>` so single-line items yield their metadata.
func stripOuter(line string, name string) string {
	openEnd := -1
	for i := 0; i < len(line); i++ {
		if line[i] == '"' {
			for i++; i < len(line) && line[i] != '"'; i++ {
			}
			continue
		}
		if line[i] == '>' {
			openEnd = i
			break
		}
	}
	closeStart := len(line)
	if i := strings.LastIndex(line, "</"+name+">"); i >= 0 {
		closeStart = i
	}
	if openEnd < 0 || openEnd+1 > closeStart {
		return ""
	}
	return line[openEnd+1 : closeStart]
}
