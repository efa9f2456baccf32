package vsprojm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const projectExtension = ".vcxproj"

// locateProject accepts a project file, or a directory in which case the single project file
// in it or in the closest parent having one is chosen.
func locateProject(absolute string) (projectFile string, err error) {
	stat, err := os.Stat(absolute)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIoFailure, err)
	}
	if stat.Mode().IsRegular() {
		if !strings.EqualFold(filepath.Ext(absolute), projectExtension) {
			return "", fmt.Errorf("%w: %s is not a %s file", ErrInvalidPath, absolute, projectExtension)
		}
		return absolute, nil
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("project not found: %w", err)
		}
	}()
	currentDir := absolute
	for {
		candidates, globErr := filepath.Glob(filepath.Join(currentDir, "*"+projectExtension))
		if globErr != nil {
			return "", globErr
		}
		switch len(candidates) {
		case 0:
			parent := filepath.Dir(currentDir)
			if parent == currentDir {
				return "", fmt.Errorf("%w: stopping at filesystem root", ErrNotFound)
			}
			currentDir = parent
		case 1:
			return candidates[0], nil
		default:
			return "", fmt.Errorf("%w: multiple project files in %s, choose one", ErrInvalidPath, currentDir)
		}
	}
}
