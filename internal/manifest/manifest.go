// Package manifest models the compile entries of a .vcxproj file.
// Only <ClCompile Include="..."> records inside item groups are understood,
// every other line is carried through to the output unchanged.
package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/msbuild"
	"github.com/n2code/vsprojm/internal/pathkey"
)

const (
	compileItem = "ClCompile"
	itemGroup   = "ItemGroup"
)

// Entry is one tracked source file.
type Entry struct {
	Key     pathkey.Key
	Include string //as stored, backslash separated
}

// NewEntry derives the entry for a path relative to the project directory.
func NewEntry(relative string) (Entry, error) {
	cleaned, err := pathkey.Clean(relative)
	if err != nil {
		return Entry{}, err
	}
	key, err := pathkey.Normalize(cleaned)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Include: pathkey.Include(cleaned)}, nil
}

type fragmentKind int

const (
	opaque fragmentKind = iota
	entry
	groupStart
	groupEnd
)

type fragment struct {
	kind  fragmentKind
	lines []string
	entry Entry
	group int //item group membership of entries and group delimiters
}

// Document is an ordered list of fragments, entries interleaved with untouched text.
type Document struct {
	layout    msbuild.Layout
	fragments []fragment
	groups    int
}

// Parse reads a project file.
func Parse(data []byte) (*Document, error) {
	lines, layout := msbuild.Split(data)
	doc := &Document{layout: layout}
	closed := false
	group := -1
	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case group < 0 && msbuild.Opens(line, itemGroup) && !msbuild.SelfClosing(line) && !msbuild.Closes(line, itemGroup):
			group = doc.groups
			doc.groups++
			doc.fragments = append(doc.fragments, fragment{kind: groupStart, lines: []string{line}, group: group})
			i++
		case group >= 0 && msbuild.Closes(line, itemGroup):
			doc.fragments = append(doc.fragments, fragment{kind: groupEnd, lines: []string{line}, group: group})
			group = -1
			i++
		case group >= 0 && msbuild.Opens(line, compileItem):
			item, next, err := msbuild.ReadItem(lines, i)
			if err != nil {
				return nil, fmt.Errorf("project file: %w", err)
			}
			if item.Include == "" {
				return nil, fmt.Errorf("%w: project file line %d: compile entry without Include", fault.ErrParse, i+1)
			}
			e, err := NewEntry(item.Include)
			if err != nil {
				return nil, fmt.Errorf("%w: project file line %d: %w", fault.ErrParse, i+1, err)
			}
			e.Include = item.Include
			doc.fragments = append(doc.fragments, fragment{kind: entry, lines: item.Raw, entry: e, group: group})
			i = next
		default:
			if msbuild.Closes(line, "Project") {
				closed = true
			}
			doc.fragments = append(doc.fragments, fragment{kind: opaque, lines: []string{line}})
			i++
		}
	}
	if !closed {
		return nil, fmt.Errorf("%w: project file lacks </Project>", fault.ErrParse)
	}
	return doc, nil
}

// Entries lists every tracked file once, in document order.
func (d *Document) Entries() (entries []Entry) {
	seen := make(map[pathkey.Key]bool)
	for _, f := range d.fragments {
		if f.kind == entry && !seen[f.entry.Key] {
			seen[f.entry.Key] = true
			entries = append(entries, f.entry)
		}
	}
	return
}

func (d *Document) Contains(key pathkey.Key) bool {
	return slices.ContainsFunc(d.fragments, func(f fragment) bool {
		return f.kind == entry && f.entry.Key == key
	})
}

func (d *Document) Len() int {
	return len(d.Entries())
}

// Add appends entries that are not tracked yet, in the given order, and returns those.
// They go right after the last existing compile entry, or into a new item group before </Project>.
func (d *Document) Add(entries []Entry) (added []Entry) {
	pending := make(map[pathkey.Key]bool)
	for _, e := range entries {
		if d.Contains(e.Key) || pending[e.Key] {
			continue
		}
		pending[e.Key] = true
		added = append(added, e)
	}
	if len(added) == 0 {
		return
	}

	at, indent, group := d.insertionPoint()
	newGroup := group < 0
	var groupIndent string
	var inserted []fragment
	if newGroup {
		group = d.groups
		d.groups++
		groupIndent = d.itemGroupIndent()
		indent = groupIndent + "  "
		inserted = append(inserted, fragment{kind: groupStart, lines: []string{groupIndent + "<" + itemGroup + ">"}, group: group})
	}
	for _, e := range added {
		line := indent + msbuild.FormatTag(compileItem, []msbuild.Attr{{Name: "Include", Value: e.Include}}, true)
		inserted = append(inserted, fragment{kind: entry, lines: []string{line}, entry: e, group: group})
	}
	if newGroup {
		inserted = append(inserted, fragment{kind: groupEnd, lines: []string{groupIndent + "</" + itemGroup + ">"}, group: group})
	}
	d.fragments = slices.Insert(d.fragments, at, inserted...)
	return
}

// Remove drops every entry that matches and returns them in document order.
// An item group emptied by the removal disappears as well.
func (d *Document) Remove(match func(Entry) bool) (removed []Entry) {
	emptied := make(map[int]bool)
	kept := d.fragments[:0:0]
	for _, f := range d.fragments {
		if f.kind == entry && match(f.entry) {
			removed = append(removed, f.entry)
			emptied[f.group] = true
			continue
		}
		kept = append(kept, f)
	}
	d.fragments = kept
	for group := range emptied {
		d.dropGroupIfEmpty(group)
	}
	return
}

// ByKey matches exactly one file.
func ByKey(key pathkey.Key) func(Entry) bool {
	return func(e Entry) bool { return e.Key == key }
}

// ByFolder matches every file below the directory.
func ByFolder(dir string) func(Entry) bool {
	return func(e Entry) bool { return e.Key.Within(dir) }
}

// ByExtension matches case-insensitively, with or without the leading dot.
func ByExtension(ext string) func(Entry) bool {
	return func(e Entry) bool { return pathkey.MatchExtension(e.Key, ext) }
}

// Serialize writes the document back with the detected BOM and line endings.
func (d *Document) Serialize() []byte {
	var lines []string
	for _, f := range d.fragments {
		lines = append(lines, f.lines...)
	}
	return d.layout.Join(lines)
}

func (d *Document) insertionPoint() (at int, indent string, group int) {
	for i := len(d.fragments) - 1; i >= 0; i-- {
		if f := d.fragments[i]; f.kind == entry {
			return i + 1, msbuild.Indentation(f.lines[0]), f.group
		}
	}
	for i := len(d.fragments) - 1; i >= 0; i-- {
		if d.fragments[i].kind == opaque && msbuild.Closes(d.fragments[i].lines[0], "Project") {
			return i, "", -1
		}
	}
	return len(d.fragments), "", -1 //unreachable for parsed documents
}

func (d *Document) itemGroupIndent() string {
	for _, f := range d.fragments {
		if f.kind == groupStart {
			return msbuild.Indentation(f.lines[0])
		}
	}
	for _, f := range d.fragments {
		if f.kind == opaque && msbuild.Opens(f.lines[0], "PropertyGroup") {
			return msbuild.Indentation(f.lines[0])
		}
	}
	return "  "
}

func (d *Document) dropGroupIfEmpty(group int) {
	start, end := -1, -1
	for i, f := range d.fragments {
		if f.group != group || (f.kind != groupStart && f.kind != groupEnd) {
			continue
		}
		if f.kind == groupStart {
			start = i
		} else {
			end = i
		}
	}
	if start < 0 || end < start {
		return
	}
	for _, f := range d.fragments[start+1 : end] {
		if f.kind != opaque || strings.TrimSpace(strings.Join(f.lines, "")) != "" {
			return
		}
	}
	d.fragments = slices.Delete(d.fragments, start, end+1)
}
