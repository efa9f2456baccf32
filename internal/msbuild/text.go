// Package msbuild reads and writes the small part of MSBuild XML the documents care about.
// Documents are handled line by line so unrelated content survives untouched;
// encoding/xml is only ever fed a single tag or a single one-line element.
package msbuild

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Layout records the byte-level conventions of a document so they can be reproduced on write.
type Layout struct {
	BOM      bool
	EOL      string
	FinalEOL bool
}

// DefaultLayout matches what Visual Studio writes for new files.
var DefaultLayout = Layout{BOM: true, EOL: "\r\n", FinalEOL: false}

// Split breaks a document into lines without terminators.
func Split(data []byte) (lines []string, layout Layout) {
	layout.EOL = "\n"
	if bytes.HasPrefix(data, utf8BOM) {
		layout.BOM = true
		data = data[len(utf8BOM):]
	}
	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		layout.EOL = "\r\n"
	}
	text := string(data)
	if strings.HasSuffix(text, "\n") {
		layout.FinalEOL = true
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
	}
	if text == "" {
		return nil, layout
	}
	lines = strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return
}

// Join is the inverse of Split.
func (l Layout) Join(lines []string) []byte {
	var buf bytes.Buffer
	if l.BOM {
		buf.Write(utf8BOM)
	}
	buf.WriteString(strings.Join(lines, l.EOL))
	if l.FinalEOL && len(lines) > 0 {
		buf.WriteString(l.EOL)
	}
	return buf.Bytes()
}

// Indentation is the leading whitespace of a line.
func Indentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Opens reports whether the line starts an element with the given name.
func Opens(line string, name string) bool {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), "<"+name)
	if !found {
		return false
	}
	return rest == "" || strings.ContainsAny(rest[:1], " \t>/")
}

// Closes reports whether the line contains the end tag of the given element.
func Closes(line string, name string) bool {
	return strings.Contains(line, "</"+name+">")
}

// SelfClosing reports whether a start tag line ends with "/>".
func SelfClosing(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), "/>")
}
