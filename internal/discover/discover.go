// Package discover finds candidate source files below a directory.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/pathkey"
	gitignore "github.com/sabhiram/go-gitignore"
)

const ignoreFileName = ".gitignore"

// build output and tool state of Visual Studio and git
var defaultIgnoreLines = []string{
	".git/",
	".vs/",
	"x64/",
	"Debug/",
	"Release/",
	"*.wip",
}

type Options struct {
	Root      string
	Extension string
	Recursive bool
	Pattern   *regexp.Regexp //optional, matched against the slash-separated path relative to Root
	Negate    bool           //keep only files NOT matching Pattern
	Ignore    []string       //extra lines in .gitignore syntax
	Logger    *slog.Logger
}

// Find lists the absolute paths of all files with the requested extension, sorted.
func Find(options Options) (found []string, err error) {
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	if pathkey.NormalizeExtension(options.Extension) == "" {
		return nil, fmt.Errorf("%w: no extension given", fault.ErrInvalidPath)
	}
	root, err := filepath.Abs(options.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrIoFailure, err)
	}
	if stat, statErr := os.Stat(root); statErr != nil {
		return nil, fmt.Errorf("%w: searching %s: %w", fault.ErrIoFailure, root, statErr)
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", fault.ErrInvalidPath, root)
	}

	ignore, err := loadIgnoreRules(root, options.Ignore)
	if err != nil {
		return nil, err
	}

	glob := "*"
	if options.Recursive {
		glob = "**/*"
	}
	skipped := 0
	walkErr := doublestar.GlobWalk(os.DirFS(root), glob, func(relative string, _ fs.DirEntry) error {
		key, keyErr := pathkey.Normalize(relative)
		if keyErr != nil || !pathkey.MatchExtension(key, options.Extension) {
			return nil
		}
		if ignore.MatchesPath(relative) {
			skipped++
			return nil
		}
		if options.Pattern != nil && options.Pattern.MatchString(relative) == options.Negate {
			return nil
		}
		found = append(found, filepath.Join(root, filepath.FromSlash(relative)))
		return nil
	}, doublestar.WithFilesOnly())
	if walkErr != nil {
		return nil, fmt.Errorf("%w: searching %s: %w", fault.ErrIoFailure, root, walkErr)
	}

	slices.Sort(found)
	log.Debug("candidates discovered", "root", root, "found", len(found), "ignored", skipped)
	return found, nil
}

func loadIgnoreRules(root string, extra []string) (*gitignore.GitIgnore, error) {
	lines := slices.Concat(defaultIgnoreLines, extra)
	ignorePath := filepath.Join(root, ignoreFileName)
	ignore, err := gitignore.CompileIgnoreFileAndLines(ignorePath, lines...)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return gitignore.CompileIgnoreLines(lines...), nil
	case err != nil:
		return nil, fmt.Errorf("%w: reading %s: %w", fault.ErrIoFailure, ignorePath, err)
	}
	return ignore, nil
}
