// Package vsprojm keeps a Visual Studio C/C++ project file and its filter file in sync
// while source files are added, deleted, or reorganized into filters.
package vsprojm

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/n2code/vsprojm/internal/filters"
	out "github.com/n2code/vsprojm/internal/output"
	"github.com/n2code/vsprojm/internal/project"
)

type VerbosityLevel int

const (
	DefaultVerbosity VerbosityLevel = iota //normal level of information, all noteworthy facts without too much noise
	VerboseMode                            //exhaustive information about what is happening, repeating context
	QuietMode                              //only output errors and information that was explicitly requested (-> Print* functions)
)

// DefaultFilterName is where files directly in the project directory are sorted into unless configured otherwise.
const DefaultFilterName = "Source Files"

// CreateConfig holds a set of common configuration switches that concern all calls to the vsprojm API.
// The zero value is a sensible default.
type CreateConfig struct {
	Verbosity     VerbosityLevel
	DryRun        bool   //changes are computed and reported but never written
	DefaultFilter string //empty means DefaultFilterName, "\" keeps root files unfiltered
	FancyTerminal bool   //allow escape sequences for colors
	Logger        *slog.Logger
	Output        io.Writer //defaults to stdout
	ErrorOutput   io.Writer //defaults to stderr

	identifiers filters.IdentifierSource //for reproducible tests
}

type vsprojm struct {
	project       *project.Project
	defaultFilter filters.Path
	dryRun        bool
	printer       out.Printer
	log           *slog.Logger
}

// Open loads the given project file. If a directory is given instead, the single project file in it
// or the closest of its parents is used.
func Open(projectFile string, config CreateConfig) (Vsprojm, error) {
	handle := makeVsprojm(config)
	if err := handle.loadProject(projectFile, config); err != nil {
		return nil, fmt.Errorf("project load error: %w", err)
	}
	return handle, nil
}

func makeVsprojm(config CreateConfig) (instance *vsprojm) {
	instance = &vsprojm{dryRun: config.DryRun, log: config.Logger}
	if instance.log == nil {
		instance.log = slog.Default()
	}

	classes := []out.Class{out.Required, out.Error}
	switch config.Verbosity {
	case VerboseMode:
		classes = append(classes, out.Verbose)
		fallthrough
	case DefaultVerbosity:
		classes = append(classes, out.Normal)
	}
	instance.printer = out.NewPrinter(classes, config.FancyTerminal)
	if config.Output != nil || config.ErrorOutput != nil {
		terminal, diagnosis := config.Output, config.ErrorOutput
		if terminal == nil {
			terminal = io.Discard
		}
		if diagnosis == nil {
			diagnosis = io.Discard
		}
		instance.printer = instance.printer.Redirect(terminal, diagnosis)
	}

	instance.defaultFilter = filters.Path(DefaultFilterName)
	if config.DefaultFilter != "" {
		instance.defaultFilter, _ = filters.NewPath(config.DefaultFilter) //only separators means root
	}
	return
}

func (v *vsprojm) loadProject(projectFile string, config CreateConfig) error {
	location, err := locateProject(mustAbsFilepath(projectFile))
	if err != nil {
		return err
	}
	v.project, err = project.Load(location, project.Options{Identifiers: config.identifiers, Logger: v.log})
	if err != nil {
		return err
	}
	if !v.dryRun {
		if err := v.project.Lock(); err != nil {
			return err
		}
	}
	v.Print(out.Verbose, "Project: %s (%s)\n", v.displayablePath(location), v.project.Summary())
	return nil
}

func (v *vsprojm) PersistChanges() error {
	pending := v.project.Pending()
	if len(pending) == 0 {
		v.Print(out.Verbose, "Nothing to write.\n")
		return nil
	}
	if v.dryRun {
		for _, path := range pending {
			v.Print(out.Normal, "Dry run, not writing %s\n", v.displayablePath(path))
		}
		return nil
	}
	if err := v.project.Save(); err != nil {
		return newCommandError("project save error", err)
	}
	for _, path := range pending {
		v.Print(out.Verbose, "Wrote %s\n", v.displayablePath(path))
	}
	return nil
}

func (v *vsprojm) Close() error {
	return v.project.Unlock()
}

func (v *vsprojm) Print(class out.Class, format string, values ...interface{}) {
	v.printer.Out(class, format, values...)
}
