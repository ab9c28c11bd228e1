package inorder

import (
	"strings"

	"go.lepak.sg/rotations/tree"
)

// String returns a drawing of the tree.
// ["a", "b", ["c", "d", "e"]] looks like this:
//
//	b
//	├─L─a
//	└─R─d
//	    ├─L─c
//	    └─R─e
//
// A node with one child only draws that child, labelled with its side.
func (t *Tree) String() string {
	var sb strings.Builder

	if t == nil || t.root == nil {
		return ""
	}

	printvisit(&sb, t.root, "", "", true, false)

	return sb.String()
}

const (
	treeMidBranch    = "├─"
	treeLastBranch   = "└─"
	treeLeftBranch   = "L─"
	treeRightBranch  = "R─"
	treeMidContinue  = "│   "
	treeLastContinue = "    "
)

func printvisit(sb *strings.Builder, n *tree.Node[string], prefix, branch string, initial, isMid bool) {
	if !initial {
		sb.WriteString(prefix)
		if isMid {
			prefix += treeMidContinue
			sb.WriteString(treeMidBranch)
		} else {
			prefix += treeLastContinue
			sb.WriteString(treeLastBranch)
		}
		sb.WriteString(branch)
	}
	sb.WriteString(n.Key)
	sb.WriteRune('\n')

	if n.Left != nil {
		printvisit(sb, n.Left, prefix, treeLeftBranch, false, n.Right != nil)
	}

	if n.Right != nil {
		printvisit(sb, n.Right, prefix, treeRightBranch, false, false)
	}
}
