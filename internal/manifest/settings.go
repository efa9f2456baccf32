package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/msbuild"
)

const definitionGroup = "ItemDefinitionGroup"

// Tool and property names used by the settings commands.
const (
	CompilerTool            = "ClCompile"
	LinkerTool              = "Link"
	IncludeDirectories      = "AdditionalIncludeDirectories"
	LibraryDirectories      = "AdditionalLibraryDirectories"
	AdditionalDependencies  = "AdditionalDependencies"
	inheritedValueDelimiter = ";"
)

// PrependSetting puts value in front of the list in <tool><property> of every configuration's item definition group,
// keeping the rest of the list intact. Missing tool or property elements are created,
// inheriting the parent value through %(property). It returns the configurations that changed.
func (d *Document) PrependSetting(tool string, property string, value string) (changed []string, err error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, inheritedValueDelimiter) {
		return nil, fmt.Errorf("%w: setting value %q must be a single non-empty entry", fault.ErrInvalidPath, value)
	}
	found := false
	for i := 0; i < len(d.fragments); i++ {
		f := d.fragments[i]
		if f.kind != opaque || !msbuild.Opens(f.lines[0], definitionGroup) {
			continue
		}
		tag, err := msbuild.ParseTag(f.lines[0])
		if err != nil {
			return nil, fmt.Errorf("project file: %w", err)
		}
		found = true
		end := d.findClosing(i+1, definitionGroup)
		if end < 0 {
			return nil, fmt.Errorf("%w: project file: <%s> is never closed", fault.ErrParse, definitionGroup)
		}
		edited, err := d.appendInDefinition(i, end, tool, property, value)
		if err != nil {
			return nil, err
		}
		if edited {
			changed = append(changed, conditionLabel(tag.Attrs["Condition"]))
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: project file has no item definition groups to edit", fault.ErrNotFound)
	}
	return changed, nil
}

// appendInDefinition edits the group delimited by the fragments start and end.
func (d *Document) appendInDefinition(start int, end int, tool string, property string, value string) (bool, error) {
	groupIndent := msbuild.Indentation(d.fragments[start].lines[0])
	toolStart := -1
	for i := start + 1; i < end; i++ {
		if msbuild.Opens(d.fragments[i].lines[0], tool) {
			toolStart = i
			break
		}
	}
	if toolStart < 0 {
		toolIndent := groupIndent + "  "
		d.insertOpaque(end,
			toolIndent+"<"+tool+">",
			toolIndent+"  "+msbuild.FormatElement(property, inherit(value, property)),
			toolIndent+"</"+tool+">")
		return true, nil
	}
	toolLine := d.fragments[toolStart].lines[0]
	if msbuild.SelfClosing(toolLine) {
		toolIndent := msbuild.Indentation(toolLine)
		d.fragments[toolStart].lines = []string{toolIndent + "<" + tool + ">"}
		d.insertOpaque(toolStart+1,
			toolIndent+"  "+msbuild.FormatElement(property, inherit(value, property)),
			toolIndent+"</"+tool+">")
		return true, nil
	}
	toolEnd := d.findClosing(toolStart+1, tool)
	if toolEnd < 0 || toolEnd > end {
		return false, fmt.Errorf("%w: project file: <%s> is never closed", fault.ErrParse, tool)
	}
	for i := toolStart + 1; i < toolEnd; i++ {
		line := d.fragments[i].lines[0]
		if !msbuild.Opens(line, property) {
			continue
		}
		_, current, ok := msbuild.ParseElement(line)
		if !ok {
			return false, fmt.Errorf("%w: project file: <%s> is not a single-line value", fault.ErrParse, property)
		}
		if slices.ContainsFunc(strings.Split(current, inheritedValueDelimiter), func(existing string) bool {
			return strings.EqualFold(strings.TrimSpace(existing), value)
		}) {
			return false, nil
		}
		updated := value + inheritedValueDelimiter + current
		if current == "" {
			updated = inherit(value, property)
		}
		d.fragments[i].lines = []string{msbuild.Indentation(line) + msbuild.FormatElement(property, updated)}
		return true, nil
	}
	propertyIndent := msbuild.Indentation(toolLine) + "  "
	d.insertOpaque(toolEnd, propertyIndent+msbuild.FormatElement(property, inherit(value, property)))
	return true, nil
}

func (d *Document) findClosing(from int, name string) int {
	for i := from; i < len(d.fragments); i++ {
		if d.fragments[i].kind == opaque && msbuild.Closes(d.fragments[i].lines[0], name) {
			return i
		}
	}
	return -1
}

func (d *Document) insertOpaque(at int, lines ...string) {
	inserted := make([]fragment, len(lines))
	for i, line := range lines {
		inserted[i] = fragment{kind: opaque, lines: []string{line}}
	}
	d.fragments = slices.Insert(d.fragments, at, inserted...)
}

func inherit(value string, property string) string {
	return value + inheritedValueDelimiter + "%(" + property + ")"
}

// conditionLabel turns '$(Configuration)|$(Platform)'=='Debug|x64' into Debug|x64.
func conditionLabel(condition string) string {
	if _, label, found := strings.Cut(condition, "=="); found {
		return strings.Trim(strings.TrimSpace(label), "'")
	}
	if condition == "" {
		return "(all configurations)"
	}
	return condition
}
