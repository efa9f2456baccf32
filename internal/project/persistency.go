package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/n2code/vsprojm/internal/fault"
)

const defaultFileMode fs.FileMode = 0644

// overridable in tests to provoke failures halfway through a save
var (
	writeFile  = os.WriteFile
	renameFile = os.Rename
)

type rollbackStep func() error

type pendingWrite struct {
	path     string
	document string //for messages
	data     []byte
}

// Pending lists the documents Save would write, i.e. those whose content changed.
func (p *Project) Pending() (paths []string) {
	for _, write := range p.pendingWrites() {
		paths = append(paths, write.path)
	}
	return
}

func (p *Project) pendingWrites() (writes []pendingWrite) {
	candidates := []pendingWrite{
		{path: p.manifestPath, document: "project file", data: p.manifest.Serialize()},
	}
	if _, existed := p.loaded[p.filtersPath]; existed || !p.index.IsEmpty() {
		candidates = append(candidates, pendingWrite{path: p.filtersPath, document: "filter file", data: p.index.Serialize()})
	}
	for _, candidate := range candidates {
		if previous, existed := p.loaded[candidate.path]; !existed || !bytes.Equal(previous, candidate.data) {
			writes = append(writes, candidate)
		}
	}
	return
}

// Save writes both documents or neither. Each goes to a work-in-progress file first, then all of them
// replace their originals. If a replacement fails, already replaced documents get their previous content back.
func (p *Project) Save() (err error) {
	writes := p.pendingWrites()
	if len(writes) == 0 {
		p.log.Debug("nothing to save")
		return nil
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: saving project failed: %w", fault.ErrIoFailure, err)
		}
	}()

	var written []string
	removeWorkInProgress := func() {
		for _, path := range written {
			if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				p.log.Warn("work-in-progress file left behind", "path", path, "error", removeErr)
			}
		}
	}

	for _, write := range writes {
		tempPath := write.path + workInProgressFileSuffix
		if err = writeFile(tempPath, write.data, fileMode(write.path)); err != nil {
			removeWorkInProgress()
			return fmt.Errorf("writing %s: %w", write.document, err)
		}
		written = append(written, tempPath)
	}

	var rollbackLog []rollbackStep //executed in reverse order
	for i, write := range writes {
		tempPath := write.path + workInProgressFileSuffix
		if err = renameFile(tempPath, write.path); err != nil {
			err = fmt.Errorf("replacing %s with %s: %w", write.document, tempPath, err)
			if rollbackErr := p.rollback(rollbackLog); rollbackErr != nil {
				err = errors.Join(err, rollbackErr)
			}
			written = written[i:]
			removeWorkInProgress()
			return err
		}
		rollbackLog = append(rollbackLog, p.restoreStep(write.path))
	}

	for _, write := range writes {
		p.loaded[write.path] = write.data
	}
	p.log.Debug("project saved", "documents", len(writes))
	return nil
}

// restoreStep puts back what was on disk before, or removes a document that did not exist.
func (p *Project) restoreStep(path string) rollbackStep {
	previous, existed := p.loaded[path]
	mode := fileMode(path)
	return func() error {
		if !existed {
			return os.Remove(path)
		}
		return os.WriteFile(path, previous, mode)
	}
}

func (p *Project) rollback(steps []rollbackStep) error {
	var issues []error
	for i := len(steps) - 1; i >= 0; i-- {
		if err := steps[i](); err != nil {
			issues = append(issues, fmt.Errorf("rollback issue: %w", err)) //continue for the best partial rollback
		}
	}
	if len(issues) == 0 && len(steps) > 0 {
		p.log.Info("save rolled back", "documents", len(steps))
	}
	return errors.Join(issues...)
}

func fileMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return defaultFileMode
}
