// Package inorder builds binary trees from their nested inorder
// representation, writes them back out, and rotates nodes addressed
// by key.
//
// Rotations are primitives: the Tree does no balancing of its own,
// and the caller decides which rotations to apply.
// A Tree is not safe for concurrent use.
package inorder

import (
	"github.com/cockroachdb/errors"
	"go.lepak.sg/rotations/tree"
	"go.lepak.sg/rotations/tree/iterator"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// KeyIndex maps each key to the node carrying it.
// The nodes belong to the Tree; the index only points at them.
type KeyIndex map[string]*tree.Node[string]

// Tree is a binary tree of string keys.
//
// Invariants:
//   - The Left/Right links form a tree: every node but the root has
//     exactly one node holding it as a child.
//   - Every node's Parent is the node holding it, and the root's
//     Parent is nil.
//   - index[k] is the node built for key k. Rotation moves links
//     around but never changes which node a key maps to.
//
// Keys are expected to be unique. If they are not, the index keeps
// the node registered last, which is the one built last in post-order.
type Tree struct {
	root  *tree.Node[string]
	index KeyIndex
	size  int
}

// Build creates a Tree from r.
func Build(r *Repr) (*Tree, error) {
	if r == nil {
		return nil, errors.Wrap(ErrMalformedRepresentation, "nothing to build")
	}

	t := &Tree{index: make(KeyIndex)}
	t.root = t.build(r)

	return t, nil
}

// build is plain recursion, so its depth follows the input's depth.
func (t *Tree) build(r *Repr) *tree.Node[string] {
	var left, right *tree.Node[string]
	if r.Left != nil {
		left = t.build(r.Left)
	}
	if r.Right != nil {
		right = t.build(r.Right)
	}

	n := tree.NodeOf(r.Key)
	n.SetChild(tree.Left, left)
	n.SetChild(tree.Right, right)

	t.index[r.Key] = n
	t.size++

	return n
}

// Parse decodes s as JSON and builds a Tree from it.
func Parse(s string) (*Tree, error) {
	r, err := ParseRepr(s)
	if err != nil {
		return nil, err
	}
	return Build(r)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Tree {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Repr returns the representation of the tree, or nil if it is empty.
// A node without children comes out as a leaf, even if it was built
// from a triple with both sides null.
func (t *Tree) Repr() *Repr {
	if t == nil || t.root == nil {
		return nil
	}
	return nodeRepr(t.root)
}

func nodeRepr(n *tree.Node[string]) *Repr {
	if n.Leaf() {
		return Leaf(n.Key)
	}

	var left, right *Repr
	if n.Left != nil {
		left = nodeRepr(n.Left)
	}
	if n.Right != nil {
		right = nodeRepr(n.Right)
	}

	return Triple(left, n.Key, right)
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	return t.Repr().MarshalJSON()
}

// Rotate rotates the node with the given key in direction d.
// A right rotation promotes the node's left child into its place,
// a left rotation its right child.
// It returns ErrUnknownKey if no node has that key, and ErrMissingPivot
// if there is no child to promote. The tree is unchanged on error.
func (t *Tree) Rotate(key string, d tree.Direction) error {
	n, ok := t.index[key]
	if !ok {
		return errors.Wrapf(ErrUnknownKey, "rotate %s %q", d, key)
	}

	p, err := n.Rotate(d)
	if err != nil {
		return errors.Wrapf(err, "rotate %s %q", d, key)
	}

	if p.Parent == nil {
		t.root = p
	}

	return nil
}

func (t *Tree) RotateLeft(key string) error {
	return t.Rotate(key, tree.Left)
}

func (t *Tree) RotateRight(key string) error {
	return t.Rotate(key, tree.Right)
}

// Root returns the key at the root.
func (t *Tree) Root() (string, bool) {
	if t == nil || t.root == nil {
		return "", false
	}
	return t.root.Key, true
}

// Len returns the number of nodes, counting duplicated keys separately.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Contains reports whether key is in the index.
func (t *Tree) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Child returns the key of the child on side d of the node with the
// given key. ok is false if there is no such node or no such child.
func (t *Tree) Child(key string, d tree.Direction) (child string, ok bool) {
	n, ok := t.index[key]
	if !ok {
		return "", false
	}

	c := n.Child(d)
	if c == nil {
		return "", false
	}
	return c.Key, true
}

// Parent returns the key of the parent of the node with the given key.
// ok is false for the root and for unknown keys.
func (t *Tree) Parent(key string) (parent string, ok bool) {
	n, ok := t.index[key]
	if !ok || n.Parent == nil {
		return "", false
	}
	return n.Parent.Key, true
}

// Keys returns every key in in-order sequence.
// Rotations never change this sequence.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return iterator.Collect[string](iterator.NewInOrder(t.root))
}

// IndexKeys returns the indexed keys in sorted order.
func (t *Tree) IndexKeys() []string {
	if t == nil {
		return nil
	}

	keys := maps.Keys(t.index)
	slices.Sort(keys)
	return keys
}

// Check verifies the tree's invariants, and is meant for tests and
// for callers that want to assert a tree is still sound after a run of
// rotations.
func (t *Tree) Check() error {
	if t == nil {
		return nil
	}

	count, err := tree.CheckLinks(t.root)
	if err != nil {
		return err
	}

	if count != t.size {
		return errors.AssertionFailedf("reached %d nodes, but %d were built", count, t.size)
	}

	for k, n := range t.index {
		if n.Key != k {
			return errors.AssertionFailedf("index entry %q holds node %q", k, n.Key)
		}
		if err := t.reachable(n); err != nil {
			return errors.Wrapf(err, "index entry %q", k)
		}
	}

	byParent := t.Keys()
	byStack := iterator.Collect[string](iterator.NewInOrderStack(t.root, 0))
	if !slices.Equal(byParent, byStack) {
		return errors.AssertionFailedf("in-order walks disagree: %q by parent links, %q by stack",
			byParent, byStack)
	}

	for _, k := range byStack {
		if !t.Contains(k) {
			return errors.AssertionFailedf("key %q is not indexed", k)
		}
	}

	return nil
}

// reachable climbs from n to the root, checking at each step that the
// parent really holds the child.
func (t *Tree) reachable(n *tree.Node[string]) error {
	for steps := 0; steps <= t.size; steps++ {
		p := n.Parent
		if p == nil {
			if n != t.root {
				return errors.AssertionFailedf("node %q is detached", n.Key)
			}
			return nil
		}

		if p.Left != n && p.Right != n {
			return errors.AssertionFailedf("node %q is not held by its parent %q", n.Key, p.Key)
		}
		n = p
	}

	return errors.AssertionFailedf("parent links loop")
}
