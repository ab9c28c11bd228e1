package iterator

import (
	"go.lepak.sg/rotations/tree"
)

var _ Iterator[string] = (*InOrderStack[string])(nil)

// InOrderStack is an iterator object over a binary tree.
// It is functionally equivalent to InOrder, but this does
// not rely on the node parent pointer, instead keeping
// an internal stack of previous nodes.
type InOrderStack[T comparable] struct {
	root    *tree.Node[T]
	stack   []*tree.Node[T]
	started bool
}

// Recursive in order iteration looks like this:
//	func visit(n *Node, f func(*Node)) {
//		if n == nil {
//			return
//		}
//		visit(n.Left, f)	--(1)
//		f(n)
//		visit(n.Right, f)	--(2)
//	}
// When Next is called, everything up to (1) can be run,
// all the way down to the leftmost child node. This adds
// visit stack frames and we can replicate this in i.stack.
// The associated call to Item is equivalent to f(n), where
// n is the top of i.stack.
// The next call to Next pops n and continues from (2),
// pushing the left spine of n.Right.

// NewInOrderStack creates a new in-order iterator.
// If the tree's height is known, pass it as heightHint.
// Otherwise it's safe to leave it as 0.
func NewInOrderStack[T comparable](root *tree.Node[T], heightHint int) *InOrderStack[T] {
	return &InOrderStack[T]{
		root:  root,
		stack: make([]*tree.Node[T], 0, heightHint+1),
	}
}

func (i *InOrderStack[T]) pushLeft(n *tree.Node[T]) {
	for n != nil {
		i.stack = append(i.stack, n)
		n = n.Left
	}
}

func (i *InOrderStack[T]) Next() bool {
	if !i.started {
		i.started = true
		i.pushLeft(i.root)
		return len(i.stack) > 0
	}

	if len(i.stack) == 0 {
		return false
	}

	pop := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	i.pushLeft(pop.Right)

	return len(i.stack) > 0
}

func (i *InOrderStack[T]) Item() T {
	return i.stack[len(i.stack)-1].Key
}
