package dom

import (
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the tree rooted at n as a branch diagram, one node per line.
// It is meant for debugging a surprising parse; the String form is the one
// tests compare against.
func (n *Node) Dump() string {
	tree := treeprint.NewWithRoot(n.dumpLabel())
	for _, c := range n.Children {
		c.dumpInto(tree)
	}
	return tree.String()
}

func (n *Node) dumpInto(parent treeprint.Tree) {
	if len(n.Children) == 0 {
		parent.AddNode(n.dumpLabel())
		return
	}
	branch := parent.AddBranch(n.dumpLabel())
	for _, c := range n.Children {
		c.dumpInto(branch)
	}
}

func (n *Node) dumpLabel() string {
	switch n.Type {
	case DocumentNode:
		return "#document"
	case ElementNode:
		label := namespacePrefix(n.Namespace) + n.Tag
		if len(n.Attrs) > 0 {
			label += " [" + strings.Join(n.attrLines(), " ") + "]"
		}
		return label
	default:
		return n.label()
	}
}
