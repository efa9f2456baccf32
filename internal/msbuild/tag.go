package msbuild

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
)

// Tag is a parsed start tag.
type Tag struct {
	Name  string
	Attrs map[string]string
}

// Attr is an attribute to emit, in order.
type Attr struct {
	Name  string
	Value string
}

// ParseTag reads the first start tag found on the line, e.g. `<ClCompile Include="a\b.c" />`.
func ParseTag(line string) (tag Tag, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: tag %q: %s", fault.ErrParse, strings.TrimSpace(line), err)
		}
	}()
	decoder := xml.NewDecoder(strings.NewReader(line))
	for {
		var token xml.Token
		token, err = decoder.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("no start tag")
			}
			return
		}
		if start, ok := token.(xml.StartElement); ok {
			tag = Tag{Name: start.Name.Local, Attrs: make(map[string]string, len(start.Attr))}
			for _, attr := range start.Attr {
				tag.Attrs[attr.Name.Local] = attr.Value
			}
			return
		}
	}
}

// ParseElement reads a one-line element such as `<Filter>src\core</Filter>`.
// ok is false if the line holds anything else.
func ParseElement(line string) (name string, value string, ok bool) {
	decoder := xml.NewDecoder(strings.NewReader(strings.TrimSpace(line)))
	var text strings.Builder
	depth := 0
	for {
		token, err := decoder.RawToken()
		if err != nil {
			return name, text.String(), errors.Is(err, io.EOF) && depth == 0 && name != ""
		}
		switch t := token.(type) {
		case xml.StartElement:
			if depth > 0 || name != "" {
				return "", "", false //nested or repeated
			}
			name = t.Name.Local
			depth++
		case xml.EndElement:
			if depth != 1 || t.Name.Local != name {
				return "", "", false
			}
			depth--
		case xml.CharData:
			if depth == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return "", "", false
				}
				continue
			}
			text.Write(t)
		}
	}
}

// FormatTag writes a start tag, or an empty element if selfClosing is set.
func FormatTag(name string, attrs []Attr, selfClosing bool) string {
	var tag strings.Builder
	tag.WriteString("<" + name)
	for _, attr := range attrs {
		fmt.Fprintf(&tag, ` %s="%s"`, attr.Name, Escape(attr.Value))
	}
	if selfClosing {
		tag.WriteString(" />")
	} else {
		tag.WriteString(">")
	}
	return tag.String()
}

// FormatElement writes a one-line element with text content.
func FormatElement(name string, value string) string {
	return "<" + name + ">" + Escape(value) + "</" + name + ">"
}

// Escape replaces the characters XML reserves, leaving backslashes and everything else as is.
func Escape(text string) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(text)) //writing to a strings.Builder never fails
	return escaped.String()
}
