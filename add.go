package vsprojm

import (
	"fmt"

	"github.com/n2code/vsprojm/internal/discover"
	out "github.com/n2code/vsprojm/internal/output"
	"github.com/n2code/vsprojm/internal/project"
)

func (v *vsprojm) AddFiles(scan ScanRequest) (report AddReport, err error) {
	directory := v.project.Dir()
	if scan.Directory != "" {
		directory = mustAbsFilepath(scan.Directory)
	}
	v.Print(out.Verbose, "Searching *.%s in %s ...\n", scan.Extension, v.displayablePath(directory))

	candidates, err := discover.Find(discover.Options{
		Root:      directory,
		Extension: scan.Extension,
		Recursive: scan.Recursive,
		Pattern:   scan.Pattern,
		Negate:    scan.Negate,
		Ignore:    scan.Ignore,
		Logger:    v.log,
	})
	if err != nil {
		return report, newCommandError("file search failed", err)
	}
	if len(candidates) == 0 {
		v.Print(out.Normal, "No *.%s files found.\n", scan.Extension)
		return report, nil
	}

	result, err := v.project.Add(project.AddRequest{
		Extension:     scan.Extension,
		Candidates:    candidates,
		DefaultFilter: v.defaultFilter,
	})
	if err != nil {
		return report, newCommandError("adding files failed", err)
	}

	for _, created := range result.CreatedFilters {
		report.CreatedFilters = append(report.CreatedFilters, created.String())
		v.Print(out.Verbose, "Created filter %s\n", created)
	}
	for _, entry := range result.Added {
		report.Added = append(report.Added, entry.Include)
		filter := v.project.AssignmentOf(entry)
		if filter.IsRoot() {
			v.Print(out.Normal, "Added %s\n", v.printer.Style(out.Green, entry.Include))
		} else {
			v.Print(out.Normal, "Added %s %s\n", v.printer.Style(out.Green, entry.Include), v.printer.Style(out.FaintIntensity, fmt.Sprintf("[%s]", filter)))
		}
	}
	report.AlreadyTracked = len(result.AlreadyTracked)

	v.Print(out.Normal, "%s added, %s already in project, %s created.\n",
		out.Count(len(report.Added), "file", "files"),
		out.Count(report.AlreadyTracked, "file", "files"),
		out.Count(len(report.CreatedFilters), "filter", "filters"))
	return report, nil
}
