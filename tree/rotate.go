package tree

import "github.com/cockroachdb/errors"

var ErrMissingPivot = errors.New("cannot establish rotation pivot")

// RotateLeft rotates n to the left and returns the node that now
// occupies its old position.
// For example, this is the result of calling n.RotateLeft:
//
//	  -> n            p
//	    / \          / \
//	   m   p   ->   n   q
//	      / \      / \
//	     o   q    m   o
//
// The right child p is returned. o may be nil.
// If n has no right child, ErrMissingPivot is returned and nothing changes.
func (n *Node[T]) RotateLeft() (*Node[T], error) {
	return n.Rotate(Left)
}

// RotateRight rotates n to the right and returns the node that now
// occupies its old position.
// For example, this is the result of calling n.RotateRight:
//
//	  -> n            l
//	    / \          / \
//	   l   o   ->   k   n
//	  / \              / \
//	 k   m            m   o
//
// The left child l is returned. m may be nil.
// If n has no left child, ErrMissingPivot is returned and nothing changes.
func (n *Node[T]) RotateRight() (*Node[T], error) {
	return n.Rotate(Right)
}

// Rotate turns n in direction d: the child on the opposite side (the
// pivot) takes n's place under n's parent, n becomes the pivot's child
// on side d, and the pivot's old child on side d (the nephew) moves
// across to n.
// The in-order sequence of the subtree is unchanged.
// If the returned pivot has a nil Parent, it is the new root and the
// caller holding the old root must update its reference.
func (n *Node[T]) Rotate(d Direction) (*Node[T], error) {
	if n == nil {
		panic("cannot Rotate on nil")
	}

	inner := d.Opposite()
	p := n.Child(inner)
	if p == nil {
		return nil, ErrMissingPivot
	}

	n.replaceWith(p)

	nephew := p.Child(d)
	n.SetChild(inner, nephew)
	p.SetChild(d, n)

	return p, nil
}

// replaceWith puts c wherever n hangs: in the matching child slot
// of n's parent, or nowhere if n is the root.
func (n *Node[T]) replaceWith(c *Node[T]) {
	parent := n.Parent

	switch {
	case parent == nil:
	case parent.Left == n:
		parent.Left = c
	case parent.Right == n:
		parent.Right = c
	default:
		panic(errors.AssertionFailedf("node %v is not a child of its parent %v", n.Key, parent.Key))
	}

	c.Parent = parent
}
