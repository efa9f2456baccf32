// Package project coordinates a .vcxproj file and its .vcxproj.filters companion.
// It is the only code that changes both documents, and it writes them as a pair.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/filters"
	"github.com/n2code/vsprojm/internal/foldertree"
	"github.com/n2code/vsprojm/internal/manifest"
)

const (
	FiltersSuffix            = ".filters"
	workInProgressFileSuffix = ".wip"
	lockFileSuffix           = ".lock"
)

// ErrLocked is returned by Lock if another process works on the same project.
var ErrLocked = errors.New("project is locked by another process")

type Options struct {
	Identifiers filters.IdentifierSource //defaults to random GUIDs
	Logger      *slog.Logger             //defaults to slog.Default()
}

type Project struct {
	manifestPath string //absolute, system-native
	filtersPath  string
	manifest     *manifest.Document
	index        *filters.Index
	loaded       map[string][]byte //on-disk content as last read or written, nil if absent
	lock         *flock.Flock
	log          *slog.Logger
}

// Load reads the project file and its filter file. A missing filter file yields an empty index.
func Load(manifestPath string, options Options) (p *Project, err error) {
	absolute, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrIoFailure, err)
	}
	p = &Project{
		manifestPath: absolute,
		filtersPath:  absolute + FiltersSuffix,
		loaded:       make(map[string][]byte),
		log:          options.Logger,
	}
	if p.log == nil {
		p.log = slog.Default()
	}

	for _, path := range []string{p.manifestPath, p.filtersPath} {
		if _, statErr := os.Stat(path + workInProgressFileSuffix); !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: leftover %s exists, manual intervention necessary", fault.ErrIoFailure, path+workInProgressFileSuffix)
		}
	}

	manifestData, err := os.ReadFile(p.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading project file: %w", fault.ErrIoFailure, err)
	}
	p.loaded[p.manifestPath] = manifestData
	if p.manifest, err = manifest.Parse(manifestData); err != nil {
		return nil, err
	}

	filtersData, err := os.ReadFile(p.filtersPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		p.log.Debug("no filter file, starting empty", "path", p.filtersPath)
		p.index = filters.Empty(options.Identifiers)
	case err != nil:
		return nil, fmt.Errorf("%w: reading filter file: %w", fault.ErrIoFailure, err)
	default:
		p.loaded[p.filtersPath] = filtersData
		if p.index, err = filters.Parse(filtersData, options.Identifiers); err != nil {
			return nil, err
		}
	}

	for _, repaired := range p.index.Repaired() {
		p.log.Warn("filter file repaired", "filter", repaired)
	}
	p.dropOrphans()
	p.log.Debug("project loaded", "project", p.manifestPath, "files", p.manifest.Len(), "filters", len(p.index.Filters()))
	return p, nil
}

// dropOrphans forgets filter file entries for files the project does not compile.
func (p *Project) dropOrphans() {
	for _, a := range p.index.Assignments() {
		if !p.manifest.Contains(a.Key) {
			p.index.Unassign(a.Key)
			p.log.Warn("dropping filter entry of file missing from project", "file", a.Include)
		}
	}
}

func (p *Project) ManifestPath() string {
	return p.manifestPath
}

func (p *Project) FiltersPath() string {
	return p.filtersPath
}

// Dir is the directory all entries are relative to.
func (p *Project) Dir() string {
	return filepath.Dir(p.manifestPath)
}

// Name is the file name of the project, e.g. app.vcxproj.
func (p *Project) Name() string {
	return filepath.Base(p.manifestPath)
}

func (p *Project) Entries() []manifest.Entry {
	return p.manifest.Entries()
}

func (p *Project) Filters() []filters.Filter {
	return p.index.Filters()
}

// AssignmentOf yields the filter a file is sorted into, empty for the root.
func (p *Project) AssignmentOf(entry manifest.Entry) filters.Path {
	filter, _ := p.index.AssignmentOf(entry.Key)
	return filter
}

// Tree builds a fresh view of the current in-memory state.
func (p *Project) Tree() *foldertree.Tree {
	return foldertree.Build(p.index, p.manifest)
}

func (p *Project) Summary() foldertree.Summary {
	return p.Tree().Summary()
}

// Lock takes an advisory lock next to the project file for the lifetime of an operation.
func (p *Project) Lock() error {
	if p.lock == nil {
		p.lock = flock.New(p.manifestPath + lockFileSuffix)
	}
	locked, err := p.lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: locking project: %w", fault.ErrIoFailure, err)
	}
	if !locked {
		return fmt.Errorf("%w (%s)", ErrLocked, p.lock.Path())
	}
	return nil
}

func (p *Project) Unlock() error {
	if p.lock == nil || !p.lock.Locked() {
		return nil
	}
	if err := p.lock.Unlock(); err != nil {
		return fmt.Errorf("%w: unlocking project: %w", fault.ErrIoFailure, err)
	}
	if err := os.Remove(p.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Debug("lock file not removed", "path", p.lock.Path(), "error", err)
	}
	return nil
}
