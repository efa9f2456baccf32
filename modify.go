package vsprojm

import (
	"errors"
	"fmt"

	"github.com/n2code/vsprojm/internal"
	"github.com/n2code/vsprojm/internal/manifest"
	out "github.com/n2code/vsprojm/internal/output"
	"github.com/n2code/vsprojm/internal/pathkey"
	"github.com/n2code/vsprojm/internal/project"
)

func (v *vsprojm) Delete(request DeleteRequest, choice RequestChoice) (report DeleteReport, err error) {
	engineRequest := project.DeleteRequest{Target: request.Target, Extension: request.Extension}
	if request.Pattern != nil {
		pattern, negate := request.Pattern, request.Negate
		engineRequest.Match = func(key pathkey.Key) bool {
			return pattern.MatchString(key.String()) != negate
		}
	}
	subject := request.Target
	if subject == "" {
		subject = "*." + pathkey.NormalizeExtension(request.Extension)
	}

	preview, err := v.project.PreviewDelete(engineRequest)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return report, newCommandError(fmt.Sprintf("nothing to delete for %s", subject), err)
		}
		return report, newCommandError(fmt.Sprintf("cannot delete %s", subject), err)
	}

	if confirmed, cancelled := v.confirmDeletion(subject, preview, choice); !confirmed {
		if cancelled {
			v.Print(out.Normal, "Deletion aborted.\n")
		} else {
			v.Print(out.Normal, "Nothing deleted.\n")
		}
		return report, ErrCancelled
	}

	result, err := v.project.Delete(engineRequest)
	internal.AssertNoError(err, "deletion was previewed on identical state")

	for _, key := range result.RemovedFiles {
		report.RemovedFiles = append(report.RemovedFiles, pathkey.Include(key.String()))
		v.Print(out.Verbose, "Removed %s\n", pathkey.Include(key.String()))
	}
	for _, filter := range result.RemovedFilters {
		report.RemovedFilters = append(report.RemovedFilters, filter.String())
		v.Print(out.Verbose, "Removed filter %s\n", filter)
	}
	v.Print(out.Normal, "Deleted %s and %s.\n",
		out.Count(len(report.RemovedFiles), "file", "files"),
		out.Count(len(report.RemovedFilters), "filter", "filters"))
	return report, nil
}

func (v *vsprojm) Rename(from string, to string, choice RequestChoice) (merged bool, err error) {
	merge, err := v.project.PreviewRename(from, to)
	if err != nil {
		return false, newCommandError(fmt.Sprintf("cannot rename %s to %s", from, to), err)
	}
	if merge {
		switch v.confirmMerge(from, to, choice) {
		case mergeDeclined:
			return false, newCommandError(fmt.Sprintf("filter %s kept apart", to), ErrAlreadyExists)
		case mergeAborted:
			v.Print(out.Normal, "Rename aborted.\n")
			return false, ErrCancelled
		}
	}

	outcome, err := v.project.Rename(from, to)
	internal.AssertNoError(err, "rename was previewed on identical state")

	for _, created := range outcome.Created {
		v.Print(out.Verbose, "Created filter %s\n", created)
	}
	for _, removed := range outcome.Removed {
		v.Print(out.Verbose, "Removed filter %s\n", removed)
	}
	if outcome.Merged {
		v.Print(out.Normal, "Merged %s into %s, %s moved.\n", from, to, out.Count(len(outcome.Moved), "file", "files"))
	} else {
		v.Print(out.Normal, "Renamed %s to %s.\n", from, to)
	}
	return outcome.Merged, nil
}

func (v *vsprojm) AddIncludeDirectory(directory string) ([]string, error) {
	return v.prependSetting(manifest.CompilerTool, manifest.IncludeDirectories, directory, "include directory")
}

func (v *vsprojm) AddLibraryDirectory(directory string) ([]string, error) {
	return v.prependSetting(manifest.LinkerTool, manifest.LibraryDirectories, directory, "library directory")
}

func (v *vsprojm) AddLibrary(name string) ([]string, error) {
	return v.prependSetting(manifest.LinkerTool, manifest.AdditionalDependencies, name, "library")
}

func (v *vsprojm) prependSetting(tool string, property string, value string, description string) ([]string, error) {
	changed, err := v.project.PrependSetting(tool, property, value)
	if err != nil {
		return nil, newCommandError(fmt.Sprintf("cannot add %s %s", description, value), err)
	}
	if len(changed) == 0 {
		v.Print(out.Normal, "The %s %s is already part of every configuration.\n", description, value)
		return nil, nil
	}
	for _, configuration := range changed {
		v.Print(out.Verbose, "Added %s %s to %s\n", description, value, configuration)
	}
	v.Print(out.Normal, "Added %s %s to %s.\n", description, value, out.Count(len(changed), "configuration", "configurations"))
	return changed, nil
}
