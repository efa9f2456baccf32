// Package foldertree projects the filter index and the manifest into a hierarchy for display.
// Trees are rebuilt from the documents on every read and never stored.
package foldertree

import (
	"cmp"
	"slices"
	"strings"

	"github.com/n2code/vsprojm/internal/filters"
	"github.com/n2code/vsprojm/internal/manifest"
	"github.com/n2code/vsprojm/internal/output"
	"github.com/n2code/vsprojm/internal/pathkey"
)

// Node is a filter, or the implicit root when Path is empty.
type Node struct {
	Name     string
	Path     filters.Path
	Children []*Node
	Files    []pathkey.Key
}

type Tree struct {
	Root    *Node
	filters int
}

// Build links every filter to its parent and attaches each manifest entry to its assigned filter.
// Files without an assignment, or assigned to a filter that does not exist, sit at the root.
func Build(index *filters.Index, doc *manifest.Document) *Tree {
	root := &Node{}
	nodes := map[filters.Path]*Node{"": root}
	var ensure func(p filters.Path) *Node
	ensure = func(p filters.Path) *Node {
		if node, exists := nodes[p]; exists {
			return node
		}
		node := &Node{Name: p.Name(), Path: p}
		nodes[p] = node
		parent := ensure(p.Parent())
		parent.Children = append(parent.Children, node)
		return node
	}

	list := index.Filters()
	for _, f := range list {
		ensure(f.Path)
	}
	for _, e := range doc.Entries() {
		target := root
		if p, listed := index.AssignmentOf(e.Key); listed && index.Has(p) {
			target = nodes[p]
		}
		target.Files = append(target.Files, e.Key)
	}
	root.sort()
	return &Tree{Root: root, filters: len(list)}
}

func (n *Node) sort() {
	slices.SortFunc(n.Children, func(a, b *Node) int { return compareNames(a.Name, b.Name) })
	slices.SortFunc(n.Files, func(a, b pathkey.Key) int {
		if order := compareNames(a.Base(), b.Base()); order != 0 {
			return order
		}
		return cmp.Compare(a, b)
	})
	for _, child := range n.Children {
		child.sort()
	}
}

// compareNames orders case-insensitively and falls back to byte order for a total order.
func compareNames(a string, b string) int {
	if order := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); order != 0 {
		return order
	}
	return cmp.Compare(a, b)
}

// FileCount counts the files of the node and everything below it.
func (n *Node) FileCount() (count int) {
	count = len(n.Files)
	for _, child := range n.Children {
		count += child.FileCount()
	}
	return
}

func (n *Node) Depth() int {
	return n.Path.Depth()
}

// Summary holds the totals printed below a tree.
type Summary struct {
	Files   int
	Filters int
}

func (t *Tree) Summary() Summary {
	return Summary{Files: t.Root.FileCount(), Filters: t.filters}
}

func (s Summary) String() string {
	return output.Count(s.Files, "file", "files") + " in " + output.Count(s.Filters, "filter", "filters")
}

// AllLevels disables the depth limit of Options.MaxLevel.
const AllLevels = -1

type Options struct {
	FilesOnly bool   //omit filters without any file below them
	MaxLevel  int    //AllLevels, 0 for filters only, N for filters and files up to depth N
	Label     string //root line
}

// Render draws sub-filters before files, each group alphabetically. Filter names end with a slash.
func Render(tree *Tree, options Options) string {
	label := options.Label
	if label == "" {
		label = "."
	}
	visual := output.NewVisualTree(label)
	var walk func(node *Node, branch string)
	walk = func(node *Node, branch string) {
		for _, child := range node.Children {
			if options.FilesOnly && child.FileCount() == 0 {
				continue
			}
			if options.MaxLevel > 0 && child.Depth() > options.MaxLevel {
				continue
			}
			id := child.Path.String()
			visual.InsertBranch(branch, id, child.Name+"/")
			walk(child, id)
		}
		showFiles := options.MaxLevel < 0 || (options.MaxLevel > 0 && node.Depth()+1 <= options.MaxLevel)
		if !showFiles {
			return
		}
		for _, file := range node.Files {
			visual.InsertLeaf(branch, file.Base())
		}
	}
	walk(tree.Root, output.RootBranch)
	return visual.Render()
}
