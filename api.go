package vsprojm

import "regexp"

// Vsprojm lets you edit a project whose handle was retrieved using Open.
// All changes are made in memory and need to be committed with PersistChanges.
type Vsprojm interface {

	// AddFiles discovers files with the requested extension and adds those not yet compiled by the project.
	// Each new file is sorted into the filter mirroring its directory, missing filters are created.
	// Files directly in the project directory go to the configured default filter.
	AddFiles(scan ScanRequest) (AddReport, error)

	// Delete removes files from the project and the filter file, together with filters left empty.
	// A target is resolved as a filter first, then as a file, then as a folder.
	// The user is asked for confirmation before anything changes; declining yields ErrCancelled.
	Delete(request DeleteRequest, choice RequestChoice) (DeleteReport, error)

	// Rename relabels a filter and its subtree. If the new name exists the two are merged after confirmation.
	// Files on disk and the project file entries are not touched.
	Rename(from string, to string, choice RequestChoice) (merged bool, err error)

	// PrintTree outputs the filter hierarchy with the files sorted into it, uncommitted changes included.
	// A level of 0 shows only filters, a positive level limits the depth, AllLevels shows everything.
	PrintTree(filesOnly bool, level int) error

	// AddIncludeDirectory adds a directory to the compiler search path of every configuration.
	AddIncludeDirectory(directory string) (configurations []string, err error)

	// AddLibraryDirectory adds a directory to the linker search path of every configuration.
	AddLibraryDirectory(directory string) (configurations []string, err error)

	// AddLibrary adds a library to the linker inputs of every configuration.
	AddLibrary(name string) (configurations []string, err error)

	// PersistChanges writes the project file and the filter file as a pair.
	// In dry run mode it only reports what would be written.
	PersistChanges() error

	// Close releases the project lock. Uncommitted changes are discarded.
	Close() error
}

// ScanRequest selects the files AddFiles considers.
type ScanRequest struct {
	Extension string
	Directory string //defaults to the project directory
	Recursive bool
	Pattern   *regexp.Regexp //optional, matched against the path relative to Directory
	Negate    bool           //keep files NOT matching Pattern
	Ignore    []string       //extra ignore rules in .gitignore syntax
}

type AddReport struct {
	Added          []string //include paths as stored in the project
	AlreadyTracked int
	CreatedFilters []string
}

// DeleteRequest names either a target (filter, file, or folder) or an extension.
type DeleteRequest struct {
	Target    string
	Extension string
	Pattern   *regexp.Regexp //optional, narrows the files affected
	Negate    bool
}

type DeleteReport struct {
	RemovedFiles   []string
	RemovedFilters []string
}

// RequestChoice represents a single-choice decision callback, the first option is considered the default "yes"-like choice.
// If the choice is aborted an empty string must be returned.
// If cleanup is set the implementation is recommended to remove the choice presentation after selection.
type RequestChoice func(request string, options []string, cleanup bool) (choice string)

const ChoiceAborted = ""
