// Package caseset loads traversal and rotation case files and runs
// them against inorder trees.
//
// A traversal file is a JSON list of representations; each one must
// come back unchanged after building a tree from it:
//
//	["x", ["a", "b", ["c", "d", "e"]]]
//
// A rotation file is a JSON list of cases; applying the operations to
// a tree built from initial must produce final:
//
//	[{"name": "promote d", "initial": ["a", "b", ["c", "d", "e"]],
//	  "operations": [["left", "b"]], "final": [["a", "b", "c"], "d", "e"]}]
package caseset

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"go.lepak.sg/rotations/tree/inorder"
)

var ErrBadCaseFile = errors.New("bad case file")

// Rotation is one rotation case.
type Rotation struct {
	Name       string
	Initial    *inorder.Repr
	Operations []inorder.Op
	Final      *inorder.Repr
}

// ParseTraversals decodes a traversal case file.
func ParseTraversals(data []byte) ([]*inorder.Repr, error) {
	list, err := caseList(data)
	if err != nil {
		return nil, err
	}

	out := make([]*inorder.Repr, 0, len(list))
	for i, c := range list {
		r, err := inorder.ParseRepr(c.Raw)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, ErrBadCaseFile), "case %d", i)
		}
		out = append(out, r)
	}

	return out, nil
}

// ParseRotations decodes a rotation case file.
// initial, operations and final are all required; name is optional.
func ParseRotations(data []byte) ([]Rotation, error) {
	list, err := caseList(data)
	if err != nil {
		return nil, err
	}

	out := make([]Rotation, 0, len(list))
	for i, c := range list {
		if !c.IsObject() {
			return nil, errors.Wrapf(ErrBadCaseFile, "case %d: not an object", i)
		}

		rc, err := decodeRotation(c)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, ErrBadCaseFile), "case %d", i)
		}

		out = append(out, rc)
	}

	return out, nil
}

// LoadTraversals reads and decodes a traversal case file.
func LoadTraversals(path string) ([]*inorder.Repr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cases, err := ParseTraversals(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cases, nil
}

// LoadRotations reads and decodes a rotation case file.
func LoadRotations(path string) ([]Rotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cases, err := ParseRotations(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cases, nil
}

func caseList(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrBadCaseFile, "invalid JSON")
	}

	v := gjson.ParseBytes(data)
	if !v.IsArray() {
		return nil, errors.Wrap(ErrBadCaseFile, "not a list of cases")
	}

	return v.Array(), nil
}

func decodeRotation(c gjson.Result) (Rotation, error) {
	rc := Rotation{Name: c.Get("name").String()}

	var err error
	if rc.Initial, err = reprField(c, "initial"); err != nil {
		return Rotation{}, err
	}

	raw, err := field(c, "operations")
	if err != nil {
		return Rotation{}, err
	}
	if rc.Operations, err = inorder.ParseOps(raw); err != nil {
		return Rotation{}, errors.Wrap(err, "operations")
	}

	if rc.Final, err = reprField(c, "final"); err != nil {
		return Rotation{}, err
	}

	return rc, nil
}

func reprField(c gjson.Result, name string) (*inorder.Repr, error) {
	raw, err := field(c, name)
	if err != nil {
		return nil, err
	}

	r, err := inorder.ParseRepr(raw)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return r, nil
}

func field(c gjson.Result, name string) (string, error) {
	v := c.Get(name)
	if !v.Exists() {
		return "", errors.Newf("%s: missing", name)
	}
	return v.Raw, nil
}
