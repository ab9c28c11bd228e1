package inorder

import (
	"github.com/cockroachdb/errors"
	"go.lepak.sg/rotations/tree"
)

var (
	// ErrMalformedRepresentation is returned when a representation is
	// neither a bare key nor a (left, key, right) triple with a string key.
	ErrMalformedRepresentation = errors.New("malformed representation")

	// ErrMalformedOp is returned when a rotation op is not a
	// [direction, key] pair of strings.
	ErrMalformedOp = errors.New("malformed rotation op")

	// ErrUnknownKey is returned when a rotation names a key that is
	// not in the tree.
	ErrUnknownKey = errors.New("unknown key")

	// ErrMissingPivot is returned when the node to rotate has no child
	// on the side that would be promoted.
	ErrMissingPivot = tree.ErrMissingPivot
)
