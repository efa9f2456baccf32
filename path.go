package vsprojm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/vsprojm/internal"
	"github.com/n2code/vsprojm/internal/output"
)

const projectRootScheme = "project:" + string(filepath.Separator) + string(filepath.Separator)

func (v *vsprojm) displayablePath(absolutePath string) string {
	pleasant := pleasantPath(filepath.Clean(absolutePath), v.project.Dir(), mustGetwd(), true, false)
	if strings.HasPrefix(pleasant, projectRootScheme) {
		pleasant = strings.Replace(pleasant, projectRootScheme, v.printer.Style(output.FaintIntensity, projectRootScheme), 1)
	}
	return pleasant
}

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	internal.AssertNoError(err, "paths should both be nice and not of mixed nature")
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path into something easily understandable from the current context.
// If the working directory is inside the project directory a relative path is emitted, with leading "./" to stress relativity (opt-out possible).
// If the current location is outside the project directory an anchored path is printed and the project directory is abbreviated.
// If the [absolute] input path is a target outside the project directory it is reflected unchanged.
func pleasantPath(absolute string, root string, wd string, collapseRoot bool, omitDotSlash bool) string {
	if wdAboveRoot := isChildOf(root, wd); wdAboveRoot {
		if !collapseRoot || !isChildOf(absolute, root) {
			return absolute
		}
		anchored, _ := filepath.Rel(root, absolute) //error impossible because both are rooted
		return projectRootScheme + anchored
	}

	prefix := ""
	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if !omitDotSlash && !strings.HasPrefix(relative, doubleDotDirSeparator) {
		prefix = dotDirSeparator
	}
	return prefix + relative
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

// mustAbsFilepath calls filepath.Abs and asserts that it is successful
func mustAbsFilepath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
