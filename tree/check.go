package tree

import "github.com/cockroachdb/errors"

// CheckLinks walks the tree rooted at root and verifies that the
// child links form a tree (no node reachable twice, which also rules
// out cycles) and that every Parent points back at the node that
// holds it. The root must have a nil Parent.
// It returns the number of nodes reached.
func CheckLinks[T comparable](root *Node[T]) (int, error) {
	if root == nil {
		return 0, nil
	}

	if root.Parent != nil {
		return 0, errors.AssertionFailedf("root %v has parent %v", root.Key, root.Parent.Key)
	}

	seen := make(map[*Node[T]]struct{})
	stack := []*Node[T]{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[n]; ok {
			return 0, errors.AssertionFailedf("node %v is reachable twice", n.Key)
		}
		seen[n] = struct{}{}

		if n.Left != nil && n.Left == n.Right {
			return 0, errors.AssertionFailedf("node %v holds %v on both sides", n.Key, n.Left.Key)
		}

		for _, c := range [2]*Node[T]{n.Left, n.Right} {
			if c == nil {
				continue
			}
			if c.Parent != n {
				return 0, errors.AssertionFailedf("node %v: child %v points back at %v",
					n.Key, c.Key, parentKey(c))
			}
			stack = append(stack, c)
		}
	}

	return len(seen), nil
}

func parentKey[T comparable](n *Node[T]) any {
	if n.Parent == nil {
		return "<nil>"
	}
	return n.Parent.Key
}
