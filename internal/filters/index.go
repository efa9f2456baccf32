// Package filters models a .vcxproj.filters file: the folder hierarchy shown in the IDE
// and which folder each compile entry is sorted into.
package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/msbuild"
	"github.com/n2code/vsprojm/internal/pathkey"
)

const (
	filterItem    = "Filter"
	compileItem   = "ClCompile"
	itemGroup     = "ItemGroup"
	identifierTag = "UniqueIdentifier"
	extensionsTag = "Extensions"
	indentUnit    = "  "
)

var defaultHeader = []string{
	`<?xml version="1.0" encoding="utf-8"?>`,
	`<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">`,
}

type Filter struct {
	Path       Path
	Identifier string
	Extensions string //optional file pattern hint, passed through
}

// Assignment sorts one compile entry into a filter. An empty Filter lists the file at the root.
type Assignment struct {
	Key     pathkey.Key
	Include string
	Filter  Path
}

// foreignItem is any item other than a filter or compile entry, e.g. headers, kept verbatim.
// Its filter reference still counts as content of that filter.
type foreignItem struct {
	kind   string
	raw    []string
	filter Path
}

// Index holds the filter set and the assignments, each in document order followed by creation order.
type Index struct {
	layout      msbuild.Layout
	header      []string
	trailer     []string
	filters     []*Filter
	byPath      map[Path]*Filter
	assignments []*Assignment
	byKey       map[pathkey.Key]*Assignment
	foreign     []*foreignItem
	identifiers IdentifierSource
	repaired    []Path
}

// Empty creates an index for a project without a filter file.
func Empty(identifiers IdentifierSource) *Index {
	if identifiers == nil {
		identifiers = NewIdentifier
	}
	return &Index{
		layout:      msbuild.DefaultLayout,
		header:      slices.Clone(defaultHeader),
		byPath:      make(map[Path]*Filter),
		byKey:       make(map[pathkey.Key]*Assignment),
		identifiers: identifiers,
	}
}

// Parse reads a filter file. Filters missing for assignments or as ancestors are created on the fly
// and listed by Repaired.
func Parse(data []byte, identifiers IdentifierSource) (*Index, error) {
	x := Empty(identifiers)
	lines, layout := msbuild.Split(data)
	x.layout = layout
	x.header = nil

	var needsIdentifier []*Filter
	seenGroup, inGroup, closed := false, false, false
	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case !inGroup && msbuild.Opens(line, itemGroup):
			seenGroup = true
			inGroup = !msbuild.SelfClosing(line) && !msbuild.Closes(line, itemGroup)
			i++
		case inGroup && msbuild.Closes(line, itemGroup):
			inGroup = false
			i++
		case inGroup && strings.TrimSpace(line) == "":
			i++
		case inGroup:
			item, next, err := msbuild.ReadItem(lines, i)
			if err != nil {
				return nil, fmt.Errorf("filter file: %w", err)
			}
			if item.Include == "" {
				return nil, fmt.Errorf("%w: filter file line %d: <%s> without Include", fault.ErrParse, i+1, item.Kind)
			}
			filter, err := x.readItem(item)
			if err != nil {
				return nil, fmt.Errorf("%w: filter file line %d: %w", fault.ErrParse, i+1, err)
			}
			if filter != nil && filter.Identifier == "" {
				needsIdentifier = append(needsIdentifier, filter)
			}
			i = next
		case msbuild.Closes(line, "Project"):
			closed = true
			i++
		case !seenGroup:
			x.header = append(x.header, line)
			i++
		default:
			if strings.TrimSpace(line) != "" {
				x.trailer = append(x.trailer, line)
			}
			i++
		}
	}
	if !closed {
		return nil, fmt.Errorf("%w: filter file lacks </Project>", fault.ErrParse)
	}
	if len(x.header) == 0 || !slices.ContainsFunc(x.header, func(line string) bool { return msbuild.Opens(line, "Project") }) {
		return nil, fmt.Errorf("%w: filter file lacks a <Project> start tag", fault.ErrParse)
	}
	x.repair(needsIdentifier)
	return x, nil
}

func (x *Index) readItem(item msbuild.Item) (*Filter, error) {
	switch item.Kind {
	case filterItem:
		p, err := NewPath(item.Include)
		if err != nil {
			return nil, err
		}
		if _, exists := x.byPath[p]; exists {
			return nil, fmt.Errorf("filter %s defined twice", p)
		}
		f := &Filter{Path: p, Identifier: item.Metadata[identifierTag], Extensions: item.Metadata[extensionsTag]}
		if f.Identifier != "" && x.identifierTaken(f.Identifier) {
			f.Identifier = "" //duplicate, replaced during repair
		}
		x.filters = append(x.filters, f)
		x.byPath[p] = f
		return f, nil
	case compileItem:
		cleaned, err := pathkey.Clean(item.Include)
		if err != nil {
			return nil, err
		}
		key, err := pathkey.Normalize(cleaned)
		if err != nil {
			return nil, err
		}
		if _, exists := x.byKey[key]; exists {
			return nil, nil //first assignment wins
		}
		a := &Assignment{Key: key, Include: item.Include}
		if ref, ok := item.Metadata[filterItem]; ok && strings.TrimSpace(ref) != "" {
			if a.Filter, err = NewPath(ref); err != nil {
				return nil, err
			}
		}
		x.assignments = append(x.assignments, a)
		x.byKey[key] = a
	default:
		foreign := &foreignItem{kind: item.Kind, raw: item.Raw}
		if ref, err := NewPath(item.Metadata[filterItem]); err == nil {
			foreign.filter = ref
		}
		x.foreign = append(x.foreign, foreign)
	}
	return nil, nil
}

// repair restores the invariants a hand-edited file may break.
func (x *Index) repair(needsIdentifier []*Filter) {
	for _, f := range needsIdentifier {
		f.Identifier = x.freshIdentifier()
		x.repaired = append(x.repaired, f.Path)
	}
	var required []Path
	for _, f := range x.filters {
		required = append(required, f.Path.Parent())
	}
	for _, a := range x.assignments {
		required = append(required, a.Filter)
	}
	for _, foreign := range x.foreign {
		required = append(required, foreign.filter)
	}
	for _, p := range required {
		x.repaired = append(x.repaired, x.EnsurePath(p)...)
	}
}

// Repaired lists the filters that Parse had to create or give a new identifier.
func (x *Index) Repaired() []Path {
	return x.repaired
}

// Filters lists all filters in file order.
func (x *Index) Filters() []Filter {
	list := make([]Filter, len(x.filters))
	for i, f := range x.filters {
		list[i] = *f
	}
	return list
}

func (x *Index) Lookup(p Path) (Filter, bool) {
	if f, exists := x.byPath[p]; exists {
		return *f, true
	}
	return Filter{}, false
}

func (x *Index) Has(p Path) bool {
	_, exists := x.byPath[p]
	return exists
}

// Spelled returns p with every segment written like an existing filter that differs only in letter case.
// Visual Studio treats such filters as one folder.
func (x *Index) Spelled(p Path) Path {
	var spelled []string
	for _, segment := range p.Segments() {
		candidate := JoinPath(append(spelled, segment)...)
		if !x.Has(candidate) {
			for _, f := range x.filters {
				if f.Path.Parent() == candidate.Parent() && strings.EqualFold(f.Path.Name(), segment) {
					candidate = f.Path
					break
				}
			}
		}
		spelled = candidate.Segments()
	}
	return JoinPath(spelled...)
}

// Assignments lists all compile entries known to the filter file, assigned or not.
func (x *Index) Assignments() []Assignment {
	list := make([]Assignment, len(x.assignments))
	for i, a := range x.assignments {
		list[i] = *a
	}
	return list
}

// AssignmentOf yields the filter of a file, the root if it is listed without one.
func (x *Index) AssignmentOf(key pathkey.Key) (p Path, listed bool) {
	if a, exists := x.byKey[key]; exists {
		return a.Filter, true
	}
	return "", false
}

// FilesUnder lists the files assigned to p or any filter below it.
func (x *Index) FilesUnder(p Path) (keys []pathkey.Key) {
	for _, a := range x.assignments {
		if !a.Filter.IsRoot() && p.Contains(a.Filter) {
			keys = append(keys, a.Key)
		}
	}
	return
}

// IsEmpty is true if there is nothing worth writing.
func (x *Index) IsEmpty() bool {
	return len(x.filters) == 0 && len(x.assignments) == 0 && len(x.foreign) == 0
}

// Serialize writes filters, then compile entries, then every other item kind in its own group.
func (x *Index) Serialize() []byte {
	lines := slices.Clone(x.header)
	group := func(items [][]string) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, indentUnit+"<"+itemGroup+">")
		for _, item := range items {
			lines = append(lines, item...)
		}
		lines = append(lines, indentUnit+"</"+itemGroup+">")
	}

	var filterItems [][]string
	for _, f := range x.filters {
		item := []string{
			indentUnit + indentUnit + msbuild.FormatTag(filterItem, []msbuild.Attr{{Name: "Include", Value: f.Path.String()}}, false),
			indentUnit + indentUnit + indentUnit + msbuild.FormatElement(identifierTag, f.Identifier),
		}
		if f.Extensions != "" {
			item = append(item, indentUnit+indentUnit+indentUnit+msbuild.FormatElement(extensionsTag, f.Extensions))
		}
		filterItems = append(filterItems, append(item, indentUnit+indentUnit+"</"+filterItem+">"))
	}
	group(filterItems)

	var compileItems [][]string
	for _, a := range x.assignments {
		include := []msbuild.Attr{{Name: "Include", Value: a.Include}}
		if a.Filter.IsRoot() {
			compileItems = append(compileItems, []string{indentUnit + indentUnit + msbuild.FormatTag(compileItem, include, true)})
			continue
		}
		compileItems = append(compileItems, []string{
			indentUnit + indentUnit + msbuild.FormatTag(compileItem, include, false),
			indentUnit + indentUnit + indentUnit + msbuild.FormatElement(filterItem, a.Filter.String()),
			indentUnit + indentUnit + "</" + compileItem + ">",
		})
	}
	group(compileItems)

	var kinds []string
	for _, foreign := range x.foreign {
		if !slices.Contains(kinds, foreign.kind) {
			kinds = append(kinds, foreign.kind)
		}
	}
	for _, kind := range kinds {
		var items [][]string
		for _, foreign := range x.foreign {
			if foreign.kind == kind {
				items = append(items, foreign.raw)
			}
		}
		group(items)
	}

	lines = append(lines, x.trailer...)
	lines = append(lines, "</Project>")
	return x.layout.Join(lines)
}
