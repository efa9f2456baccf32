package output

import (
	"github.com/disiqueira/gotree/v3"
)

// VisualTree draws a hierarchy with box characters. Branches are addressed by an id chosen by the caller
// and appear in insertion order, so callers insert in the order they want to see.
type VisualTree struct {
	tree     gotree.Tree
	branches map[string]gotree.Tree
}

// RootBranch addresses the top of every VisualTree.
const RootBranch = ""

func NewVisualTree(rootLabel string) VisualTree {
	root := gotree.New(rootLabel)
	return VisualTree{tree: root, branches: map[string]gotree.Tree{RootBranch: root}}
}

// InsertBranch adds a labelled branch below parent and makes it addressable as id.
// Unknown parents attach to the root.
func (t VisualTree) InsertBranch(parent string, id string, label string) {
	t.branches[id] = t.getBranch(parent).Add(label)
}

// InsertLeaf adds a labelled line below parent.
func (t VisualTree) InsertLeaf(parent string, label string) {
	t.getBranch(parent).Add(label)
}

func (t VisualTree) getBranch(id string) gotree.Tree {
	if branch, exists := t.branches[id]; exists {
		return branch
	}
	return t.tree
}

func (t VisualTree) Render() string {
	return t.tree.Print()
}
