package inorder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"go.lepak.sg/rotations/tree"
)

// Op is a single rotation request.
// In JSON it is written as a [direction, key] pair, like ["left", "b"].
type Op struct {
	Dir tree.Direction
	Key string
}

// String formats o as direction:key, the form ParseOp accepts.
func (o Op) String() string {
	return o.Dir.String() + ":" + o.Key
}

// ParseOp parses an op written as direction:key, for example "right:d".
// Everything after the first colon is the key.
func ParseOp(s string) (Op, error) {
	dir, key, ok := strings.Cut(s, ":")
	if !ok {
		return Op{}, errors.Wrapf(ErrMalformedOp, "%q: want direction:key", s)
	}

	d, err := tree.ParseDirection(dir)
	if err != nil {
		return Op{}, errors.Wrapf(err, "op %q", s)
	}

	return Op{Dir: d, Key: key}, nil
}

func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{o.Dir.String(), o.Key})
}

func (o *Op) UnmarshalJSON(data []byte) error {
	s := string(data)
	if !gjson.Valid(s) {
		return errors.Wrap(ErrMalformedOp, "invalid JSON")
	}

	op, err := decodeOp(gjson.Parse(s), "$")
	if err != nil {
		return err
	}

	*o = op
	return nil
}

// ParseOps decodes a JSON array of ops:
//
//	[["left", "b"], ["right", "d"]]
func ParseOps(s string) ([]Op, error) {
	if !gjson.Valid(s) {
		return nil, errors.Wrap(ErrMalformedOp, "invalid JSON")
	}

	v := gjson.Parse(s)
	if !v.IsArray() {
		return nil, errors.Wrapf(ErrMalformedOp, "$: %s is not a list of ops", kindOf(v))
	}

	elems := v.Array()
	ops := make([]Op, 0, len(elems))
	for i, e := range elems {
		op, err := decodeOp(e, fmt.Sprintf("$[%d]", i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}

func decodeOp(v gjson.Result, path string) (Op, error) {
	if !v.IsArray() {
		return Op{}, errors.Wrapf(ErrMalformedOp, "%s: %s is not a [direction, key] pair", path, kindOf(v))
	}

	pair := v.Array()
	if len(pair) != 2 {
		return Op{}, errors.Wrapf(ErrMalformedOp, "%s: pair has %d elements", path, len(pair))
	}

	for i, e := range pair {
		if e.Type != gjson.String {
			return Op{}, errors.Wrapf(ErrMalformedOp, "%s[%d]: %s, not a string", path, i, kindOf(e))
		}
	}

	d, err := tree.ParseDirection(pair[0].Str)
	if err != nil {
		return Op{}, errors.Wrapf(err, "%s[0]", path)
	}

	return Op{Dir: d, Key: pair[1].Str}, nil
}

// Apply runs ops in order, stopping at the first one that fails.
// Ops before the failing one stay applied; the failing one changes
// nothing. The error names the index of the failing op.
func (t *Tree) Apply(ops ...Op) error {
	for i, op := range ops {
		if err := t.Rotate(op.Key, op.Dir); err != nil {
			return errors.Wrapf(err, "op %d", i)
		}
	}
	return nil
}
