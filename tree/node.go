// Package tree holds the linked binary tree node shared by the
// tree implementations in this module, and the primitive
// operations on it.
package tree

// Node is a binary tree vertex.
// Left and Right are owned by the node; Parent is only a
// back-reference to whichever node holds this one as a child,
// and is nil at the root.
type Node[T comparable] struct {
	Key                 T
	Left, Right, Parent *Node[T]
}

func NodeOf[T comparable](k T) *Node[T] {
	return &Node[T]{
		Key: k,
	}
}

// Leaf reports whether n has no children.
func (n *Node[T]) Leaf() bool {
	return n.Left == nil && n.Right == nil
}

// Child returns the child of n on side d.
func (n *Node[T]) Child(d Direction) *Node[T] {
	if d == Left {
		return n.Left
	}
	return n.Right
}

// SetChild attaches c on side d of n and points c back at n.
// Whatever was on that side before is detached but its
// Parent is left alone; the caller decides where it goes.
func (n *Node[T]) SetChild(d Direction, c *Node[T]) {
	if d == Left {
		n.Left = c
	} else {
		n.Right = c
	}

	if c != nil {
		c.Parent = n
	}
}
