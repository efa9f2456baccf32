package vsprojm

import (
	"fmt"

	"github.com/n2code/vsprojm/internal/foldertree"
	out "github.com/n2code/vsprojm/internal/output"
)

// AllLevels makes PrintTree show the whole hierarchy.
const AllLevels = foldertree.AllLevels

func (v *vsprojm) PrintTree(filesOnly bool, level int) error {
	if level < AllLevels {
		return newCommandError(fmt.Sprintf("bad level %d", level), ErrInvalidPath)
	}
	tree := v.project.Tree()
	v.Print(out.Required, "%s", foldertree.Render(tree, foldertree.Options{
		FilesOnly: filesOnly,
		MaxLevel:  level,
		Label:     v.project.Name(),
	}))
	v.Print(out.Normal, "\n%s\n", tree.Summary())
	return nil
}
