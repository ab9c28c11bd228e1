package tree

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrUnknownDirection = errors.New("unknown rotation direction")

// Direction names a side of a node, and the way a rotation turns.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "<invalid tree.Direction>"
	}
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

// ParseDirection accepts "left" or "right" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, errors.Wrapf(ErrUnknownDirection, "%q", s)
	}
}
