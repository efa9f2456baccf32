package project

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/filters"
	"github.com/n2code/vsprojm/internal/manifest"
	"github.com/n2code/vsprojm/internal/pathkey"
)

type AddRequest struct {
	Extension     string
	Candidates    []string     //absolute, or relative to the project directory
	DefaultFilter filters.Path //for files directly in the project directory, empty keeps them at the root
}

type AddResult struct {
	Added          []manifest.Entry
	AlreadyTracked []pathkey.Key
	CreatedFilters []filters.Path
}

// Add tracks every candidate with the requested extension and sorts it into the filter mirroring its directory.
// Candidates with other extensions are skipped unchecked, any other invalid candidate aborts the whole
// request before anything changes.
func (p *Project) Add(request AddRequest) (result AddResult, err error) {
	if pathkey.NormalizeExtension(request.Extension) == "" {
		return result, fmt.Errorf("%w: no extension given", fault.ErrInvalidPath)
	}

	wanted := pathkey.NormalizeExtension(request.Extension)
	var planned []manifest.Entry
	seen := mapset.NewThreadUnsafeSet[pathkey.Key]()
	for _, candidate := range request.Candidates {
		if pathkey.NormalizeExtension(path.Ext(strings.ReplaceAll(candidate, `\`, "/"))) != wanted {
			continue
		}
		relative := candidate
		if filepath.IsAbs(candidate) {
			if relative, err = pathkey.Relative(p.Dir(), candidate); err != nil {
				return AddResult{}, fmt.Errorf("adding %s: %w", candidate, err)
			}
		}
		entry, entryErr := manifest.NewEntry(relative)
		if entryErr != nil {
			return AddResult{}, fmt.Errorf("adding %s: %w", candidate, entryErr)
		}
		if !seen.Add(entry.Key) {
			continue
		}
		if p.manifest.Contains(entry.Key) {
			result.AlreadyTracked = append(result.AlreadyTracked, entry.Key)
			continue
		}
		planned = append(planned, entry)
	}

	result.Added = p.manifest.Add(planned)
	for _, entry := range result.Added {
		target := request.DefaultFilter
		if segments := dirSegments(entry); len(segments) > 0 {
			target = filters.JoinPath(segments...)
		}
		result.CreatedFilters = append(result.CreatedFilters, p.index.Assign(entry.Key, entry.Include, p.index.Spelled(target))...)
	}
	p.log.Debug("files added", "added", len(result.Added), "tracked", len(result.AlreadyTracked), "filters", len(result.CreatedFilters))
	return result, nil
}

// dirSegments takes the folder names from the stored include text so their letter case is kept.
func dirSegments(entry manifest.Entry) []string {
	cleaned, err := pathkey.Clean(entry.Include)
	if err != nil {
		return entry.Key.DirSegments()
	}
	return pathkey.Key(cleaned).DirSegments()
}

// DeleteRequest names either a target or an extension.
type DeleteRequest struct {
	Target    string                  //filter path, file path, or folder path
	Extension string
	Match     func(pathkey.Key) bool //optional, narrows the files affected
}

type DeleteResult struct {
	RemovedFiles   []pathkey.Key
	RemovedFilters []filters.Path
	ByFilter       bool //target was resolved as a filter
}

// Delete removes files from both documents. A target is resolved in this order:
// an existing filter (whole subtree), a tracked file, a folder prefix of tracked files.
func (p *Project) Delete(request DeleteRequest) (result DeleteResult, err error) {
	switch {
	case request.Target == "" && request.Extension == "":
		return result, fmt.Errorf("%w: nothing to delete given", fault.ErrInvalidPath)
	case request.Target != "" && request.Extension != "":
		return result, fmt.Errorf("%w: target and extension are mutually exclusive", fault.ErrInvalidPath)
	case request.Extension != "":
		if pathkey.NormalizeExtension(request.Extension) == "" {
			return result, fmt.Errorf("%w: no extension given", fault.ErrInvalidPath)
		}
		return p.deleteFiles(request, manifest.ByExtension(request.Extension), "extension "+request.Extension)
	}

	if filter, pathErr := filters.NewPath(request.Target); pathErr == nil && p.index.Has(filter) {
		if request.Match != nil {
			result, err = p.deleteFiles(request, func(e manifest.Entry) bool {
				assigned, listed := p.index.AssignmentOf(e.Key)
				return listed && !assigned.IsRoot() && filter.Contains(assigned)
			}, "filter "+filter.String())
			result.ByFilter = err == nil
			return result, err
		}
		return p.deleteFilter(filter), nil
	}

	key, keyErr := pathkey.Normalize(request.Target)
	if keyErr != nil {
		return result, fmt.Errorf("deleting %s: %w", request.Target, keyErr)
	}
	if p.manifest.Contains(key) {
		return p.deleteFiles(request, manifest.ByKey(key), "file "+request.Target)
	}
	return p.deleteFiles(request, manifest.ByFolder(request.Target), "folder "+request.Target)
}

// PreviewDelete reports what Delete would remove, leaving the project unchanged.
func (p *Project) PreviewDelete(request DeleteRequest) (DeleteResult, error) {
	scratch, err := p.scratchCopy()
	if err != nil {
		return DeleteResult{}, err
	}
	return scratch.Delete(request)
}

// scratchCopy re-reads the current in-memory state into detached documents.
func (p *Project) scratchCopy() (*Project, error) {
	doc, err := manifest.Parse(p.manifest.Serialize())
	if err != nil {
		return nil, fmt.Errorf("copying project file: %w", err)
	}
	index, err := filters.Parse(p.index.Serialize(), nil)
	if err != nil {
		return nil, fmt.Errorf("copying filter file: %w", err)
	}
	return &Project{manifestPath: p.manifestPath, filtersPath: p.filtersPath, manifest: doc, index: index, log: p.log}, nil
}

func (p *Project) deleteFilter(filter filters.Path) (result DeleteResult) {
	result.ByFilter = true
	doomed := mapset.NewThreadUnsafeSet(p.index.FilesUnder(filter)...)
	for _, entry := range p.manifest.Remove(func(e manifest.Entry) bool { return doomed.Contains(e.Key) }) {
		result.RemovedFiles = append(result.RemovedFiles, entry.Key)
	}
	_, result.RemovedFilters = p.index.DeleteSubtree(filter)
	result.RemovedFilters = append(result.RemovedFilters, p.index.Prune(filter.Parent())...)
	p.log.Debug("filter deleted", "filter", filter, "files", len(result.RemovedFiles), "filters", len(result.RemovedFilters))
	return
}

func (p *Project) deleteFiles(request DeleteRequest, match func(manifest.Entry) bool, description string) (result DeleteResult, err error) {
	selected := func(e manifest.Entry) bool {
		return match(e) && (request.Match == nil || request.Match(e.Key))
	}
	found := false
	for _, entry := range p.manifest.Entries() {
		if selected(entry) {
			found = true
			break
		}
	}
	if !found {
		return result, fmt.Errorf("%w: %s", fault.ErrNotFound, description)
	}

	for _, entry := range p.manifest.Remove(selected) {
		result.RemovedFiles = append(result.RemovedFiles, entry.Key)
		result.RemovedFilters = append(result.RemovedFilters, p.index.UnassignAndPrune(entry.Key)...)
	}
	p.log.Debug("files deleted", "selection", description, "files", len(result.RemovedFiles), "filters", len(result.RemovedFilters))
	return result, nil
}

type RenameResult = filters.RenameOutcome

// Rename moves a filter subtree, merging into the target if it exists. Files on disk are never touched.
func (p *Project) Rename(from string, to string) (result RenameResult, err error) {
	source, target, err := renamePaths(from, to)
	if err != nil {
		return result, err
	}
	if result, err = p.index.Rename(source, target); err != nil {
		return result, fmt.Errorf("renaming %s to %s: %w", from, to, err)
	}
	p.log.Debug("filter renamed", "from", source, "to", target, "merged", result.Merged, "moved", len(result.Moved))
	return result, nil
}

// PreviewRename tells whether Rename would merge, so callers can ask before proceeding.
func (p *Project) PreviewRename(from string, to string) (merge bool, err error) {
	source, target, err := renamePaths(from, to)
	if err != nil {
		return false, err
	}
	if merge, err = p.index.PreviewRename(source, target); err != nil {
		return false, fmt.Errorf("renaming %s to %s: %w", from, to, err)
	}
	return merge, nil
}

func renamePaths(from string, to string) (source filters.Path, target filters.Path, err error) {
	if source, err = filters.NewPath(from); err != nil {
		return "", "", fmt.Errorf("rename source: %w", err)
	}
	if target, err = filters.NewPath(to); err != nil {
		return "", "", fmt.Errorf("rename target: %w", err)
	}
	return
}

// PrependSetting edits every configuration of the project file, see manifest.Document.PrependSetting.
func (p *Project) PrependSetting(tool string, property string, value string) ([]string, error) {
	return p.manifest.PrependSetting(tool, property, value)
}
