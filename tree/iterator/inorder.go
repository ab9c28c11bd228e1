package iterator

import (
	"go.lepak.sg/rotations/tree"
)

var _ Iterator[string] = (*InOrder[string])(nil)

// InOrder is an iterator object over a binary tree.
// It finds successors by walking Parent links, so it needs
// no extra memory.
// The iterator may be abandoned at any time.
// The result of mutating the tree (rotating, for example) while
// iterating over it is undefined.
type InOrder[T comparable] struct {
	root, at *tree.Node[T]
	done     bool
}

// NewInOrder returns a new InOrder iterator over the tree rooted at root.
func NewInOrder[T comparable](root *tree.Node[T]) *InOrder[T] {
	return &InOrder[T]{
		root: root,
	}
}

// Next returns true if there is a next node to yield with Item.
// Once Next has returned false it keeps returning false.
func (i *InOrder[T]) Next() bool {
	// https://www.cs.odu.edu/~zeil/cs361/latest/Public/treetraversal/index.html
	if i.done {
		return false
	}

	if i.at == nil {
		i.at = i.root
		if i.at == nil {
			i.done = true
			return false
		}

		for i.at.Left != nil {
			i.at = i.at.Left
		}
		return true
	}

	if i.at.Right != nil {
		i.at = i.at.Right

		for i.at.Left != nil {
			i.at = i.at.Left
		}

		return true
	}

	// climb until we arrive from a left child
	var child *tree.Node[T]
	for i.at != nil {
		i.at, child = i.at.Parent, i.at
		if i.at != nil && i.at.Left == child {
			return true
		}
	}

	i.done = true
	return false
}

// Item returns the current key of the iterator.
func (i *InOrder[T]) Item() T {
	return i.at.Key
}
