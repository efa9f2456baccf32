package vsprojm

import (
	"fmt"
	"strings"

	out "github.com/n2code/vsprojm/internal/output"
	"github.com/n2code/vsprojm/internal/pathkey"
	"github.com/n2code/vsprojm/internal/project"
)

// confirmDeletion presents what a deletion would remove and lets the user decide.
// Listing the affected files does not count as a decision.
func (v *vsprojm) confirmDeletion(subject string, preview project.DeleteResult, choice RequestChoice) (confirmed bool, cancelled bool) {
	question := fmt.Sprintf("Delete %s from %s (%s, %s)?",
		v.printer.Style(out.BoldIntensity, subject), v.project.Name(),
		out.Count(len(preview.RemovedFiles), "file", "files"),
		out.Count(len(preview.RemovedFilters), "filter", "filters"))
	options := []string{"Yes", "No", "List"}
	for {
		switch choice(question, options, false) {
		case "Yes":
			return true, false
		case "List":
			var listing []string
			for _, key := range preview.RemovedFiles {
				listing = append(listing, v.printer.Style(out.Red, pathkey.Include(key.String())))
			}
			for _, filter := range preview.RemovedFilters {
				listing = append(listing, v.printer.Style(out.Yellow, filter.String()+`\`))
			}
			v.Print(out.Required, "%s\n", out.Indent(4, strings.Join(listing, "\n")))
			options = []string{"Yes", "No"}
			continue
		case ChoiceAborted:
			return false, true
		default:
			return false, false
		}
	}
}

type mergeDecision int

const (
	mergeAccepted mergeDecision = iota
	mergeDeclined
	mergeAborted
)

func (v *vsprojm) confirmMerge(from string, to string, choice RequestChoice) mergeDecision {
	question := fmt.Sprintf("Filter %s exists already, merge %s into it?",
		v.printer.Style(out.BoldIntensity, to), v.printer.Style(out.BoldIntensity, from))
	switch choice(question, []string{"Merge", "Keep apart"}, false) {
	case "Merge":
		return mergeAccepted
	case ChoiceAborted:
		return mergeAborted
	default:
		return mergeDeclined
	}
}
