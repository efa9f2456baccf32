package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/msbuild"
	"github.com/n2code/vsprojm/internal/pathkey"
)

// RenameOutcome describes what a rename did so callers can report it.
type RenameOutcome struct {
	Merged  bool          //target existed, contents were combined
	Moved   []pathkey.Key //files whose filter changed
	Created []Path
	Removed []Path
}

// EnsurePath makes p and all of its ancestors exist, creating them top-down with fresh identifiers.
func (x *Index) EnsurePath(p Path) (created []Path) {
	for _, step := range p.Lineage() {
		if x.Has(step) {
			continue
		}
		f := &Filter{Path: step, Identifier: x.freshIdentifier()}
		x.filters = append(x.filters, f)
		x.byPath[step] = f
		created = append(created, step)
	}
	return
}

// Assign sorts a file into p, or lists it at the root if p is empty.
// Missing filters are created. An existing assignment is overwritten in place.
func (x *Index) Assign(key pathkey.Key, include string, p Path) (created []Path) {
	created = x.EnsurePath(p)
	if a, exists := x.byKey[key]; exists {
		a.Filter = p
		return
	}
	a := &Assignment{Key: key, Include: include, Filter: p}
	x.assignments = append(x.assignments, a)
	x.byKey[key] = a
	return
}

// Unassign forgets the file. The filter it was in stays.
func (x *Index) Unassign(key pathkey.Key) (previous Path, existed bool) {
	a, existed := x.byKey[key]
	if !existed {
		return "", false
	}
	delete(x.byKey, key)
	x.assignments = slices.DeleteFunc(x.assignments, func(other *Assignment) bool { return other == a })
	return a.Filter, true
}

// UnassignAndPrune forgets the file and removes its filter and each ancestor in turn
// until reaching one that still has content.
func (x *Index) UnassignAndPrune(key pathkey.Key) (pruned []Path) {
	previous, existed := x.Unassign(key)
	if !existed {
		return nil
	}
	return x.Prune(previous)
}

// Prune climbs from p towards the root and removes every filter without content.
// Content is an assigned file, a foreign item referring to the filter, or any sub-filter.
func (x *Index) Prune(p Path) (pruned []Path) {
	for step := p; !step.IsRoot(); step = step.Parent() {
		if !x.Has(step) || x.hasContent(step) {
			break
		}
		x.removeFilters(func(f *Filter) bool { return f.Path == step })
		pruned = append(pruned, step)
	}
	return
}

func (x *Index) hasContent(p Path) bool {
	for _, a := range x.assignments {
		if a.Filter == p {
			return true
		}
	}
	for _, foreign := range x.foreign {
		if foreign.filter == p {
			return true
		}
	}
	for _, f := range x.filters {
		if f.Path.Parent() == p {
			return true
		}
	}
	return false
}

// Rename relabels the subtree at from to live at to, keeping identifiers.
// If to already exists the subtrees are merged instead: every file under from moves to the
// corresponding filter under to and the from subtree is deleted.
func (x *Index) Rename(from Path, to Path) (outcome RenameOutcome, err error) {
	if err = x.validateRename(from, to); err != nil {
		return
	}
	outcome.Merged = x.Has(to)

	for _, a := range x.assignments {
		if !a.Filter.IsRoot() && from.Contains(a.Filter) {
			outcome.Moved = append(outcome.Moved, a.Key)
		}
	}

	if !outcome.Merged {
		outcome.Created = x.EnsurePath(to.Parent())
		for _, f := range x.filters {
			if from.Contains(f.Path) {
				relabeled := f.Path.Rebase(from, to)
				delete(x.byPath, f.Path)
				f.Path = relabeled
				x.byPath[relabeled] = f
			}
		}
		x.rebaseReferences(from, to)
		return
	}

	//targets may lie inside from when merging onto an ancestor, so they are ensured after the removal
	targets := x.rebaseReferences(from, to)
	outcome.Removed = x.removeFilters(func(f *Filter) bool { return from.Contains(f.Path) })
	for _, target := range targets {
		outcome.Created = append(outcome.Created, x.EnsurePath(target)...)
	}
	return
}

// PreviewRename tells whether Rename would merge without changing anything.
func (x *Index) PreviewRename(from Path, to Path) (merge bool, err error) {
	if err = x.validateRename(from, to); err != nil {
		return false, err
	}
	return x.Has(to), nil
}

func (x *Index) validateRename(from Path, to Path) error {
	switch {
	case from.IsRoot() || to.IsRoot():
		return fmt.Errorf("%w: rename needs a source and a target filter", fault.ErrInvalidPath)
	case !x.Has(from):
		return fmt.Errorf("%w: filter %s", fault.ErrNotFound, from)
	case from == to:
		return fmt.Errorf("%w: %s cannot be renamed to itself", fault.ErrInvalidPath, from)
	case from.Contains(to):
		return fmt.Errorf("%w: %s cannot be moved into its own sub-filter %s", fault.ErrInvalidPath, from, to)
	}
	return nil
}

// rebaseReferences points every assignment and foreign item below from at the matching path below to.
func (x *Index) rebaseReferences(from Path, to Path) (targets []Path) {
	for _, a := range x.assignments {
		if !a.Filter.IsRoot() && from.Contains(a.Filter) {
			a.Filter = a.Filter.Rebase(from, to)
			targets = append(targets, a.Filter)
		}
	}
	for _, foreign := range x.foreign {
		if !foreign.filter.IsRoot() && from.Contains(foreign.filter) {
			target := foreign.filter.Rebase(from, to)
			foreign.retarget(target)
			targets = append(targets, target)
		}
	}
	return
}

// DeleteSubtree removes p, all filters below it, and the assignments of their files.
// Foreign items referring to the subtree are moved to the root.
func (x *Index) DeleteSubtree(p Path) (files []pathkey.Key, removed []Path) {
	if p.IsRoot() || !x.Has(p) {
		return nil, nil
	}
	files = x.FilesUnder(p)
	for _, key := range files {
		x.Unassign(key)
	}
	for _, foreign := range x.foreign {
		if !foreign.filter.IsRoot() && p.Contains(foreign.filter) {
			foreign.retarget("")
		}
	}
	removed = x.removeFilters(func(f *Filter) bool { return p.Contains(f.Path) })
	return
}

func (x *Index) removeFilters(match func(*Filter) bool) (removed []Path) {
	x.filters = slices.DeleteFunc(x.filters, func(f *Filter) bool {
		if match(f) {
			delete(x.byPath, f.Path)
			removed = append(removed, f.Path)
			return true
		}
		return false
	})
	return
}

// retarget rewrites the <Filter> reference inside the verbatim lines, dropping it for the root.
func (item *foreignItem) retarget(to Path) {
	old := msbuild.FormatElement(filterItem, item.filter.String())
	replacement := ""
	if !to.IsRoot() {
		replacement = msbuild.FormatElement(filterItem, to.String())
	}
	var raw []string
	for _, line := range item.raw {
		if !strings.Contains(line, old) {
			raw = append(raw, line)
			continue
		}
		rewritten := strings.Replace(line, old, replacement, 1)
		if strings.TrimSpace(rewritten) == "" {
			continue
		}
		raw = append(raw, rewritten)
	}
	item.raw = raw
	item.filter = to
}
