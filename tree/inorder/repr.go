package inorder

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Repr is the nested inorder representation of a tree.
// It is either a bare key (a leaf) or a (Left, Key, Right) triple
// where either side may be nil.
//
// In JSON a leaf is a string and a triple is a three element array:
//
//	["a", "b", ["c", "d", "e"]]
//
// is b with a leaf a on the left and the subtree d(c, e) on the right.
type Repr struct {
	Key         string
	Left, Right *Repr

	// triple is set when the value was written in the bracketed form,
	// so that [null, "x", null] can be told apart from "x".
	triple bool
}

// Leaf returns a bare key representation.
func Leaf(key string) *Repr {
	return &Repr{Key: key}
}

// Triple returns a (left, key, right) representation.
// Either side may be nil.
func Triple(left *Repr, key string, right *Repr) *Repr {
	return &Repr{
		Key:    key,
		Left:   left,
		Right:  right,
		triple: true,
	}
}

// IsLeaf reports whether r has no subtrees.
// A triple with both sides nil is a leaf too.
func (r *Repr) IsLeaf() bool {
	return r.Left == nil && r.Right == nil
}

// IsTriple reports whether r is written in the bracketed form.
func (r *Repr) IsTriple() bool {
	return r.triple || !r.IsLeaf()
}

// Equal reports whether r and o have the same surface shape:
// the same keys in the same places, written in the same forms.
func (r *Repr) Equal(o *Repr) bool {
	if r == nil || o == nil {
		return r == o
	}

	return r.Key == o.Key &&
		r.IsTriple() == o.IsTriple() &&
		r.Left.Equal(o.Left) &&
		r.Right.Equal(o.Right)
}

func (r *Repr) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	if !r.IsTriple() {
		return json.Marshal(r.Key)
	}

	return json.Marshal([]any{r.Left, r.Key, r.Right})
}

func (r *Repr) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRepr(string(data))
	if err != nil {
		return err
	}

	*r = *parsed
	return nil
}

// String returns r as compact JSON.
func (r *Repr) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}

// ParseRepr decodes a representation from JSON text.
func ParseRepr(s string) (*Repr, error) {
	if !gjson.Valid(s) {
		return nil, errors.Wrap(ErrMalformedRepresentation, "invalid JSON")
	}

	return decodeRepr(gjson.Parse(s), "$")
}

func decodeRepr(v gjson.Result, path string) (*Repr, error) {
	switch {
	case v.Type == gjson.String:
		return Leaf(v.Str), nil

	case v.IsArray():
		elems := v.Array()
		if len(elems) != 3 {
			return nil, errors.Wrapf(ErrMalformedRepresentation,
				"%s: triple has %d elements", path, len(elems))
		}

		if elems[1].Type != gjson.String {
			return nil, errors.Wrapf(ErrMalformedRepresentation,
				"%s[1]: key is %s, not a string", path, kindOf(elems[1]))
		}

		left, err := decodeSide(elems[0], path+"[0]")
		if err != nil {
			return nil, err
		}

		right, err := decodeSide(elems[2], path+"[2]")
		if err != nil {
			return nil, err
		}

		return Triple(left, elems[1].Str, right), nil

	default:
		return nil, errors.Wrapf(ErrMalformedRepresentation,
			"%s: %s is neither a key nor a triple", path, kindOf(v))
	}
}

func decodeSide(v gjson.Result, path string) (*Repr, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	return decodeRepr(v, path)
}

func kindOf(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if v.IsArray() {
			return "array"
		}
		return "object"
	}
}

// ReprOf converts a plain Go value into a representation.
// A string is a leaf; a []any or []string of length 3 is a triple,
// where nil on either side means no subtree there. *Repr values are
// accepted anywhere and used as they are.
//
//	ReprOf([]any{"a", "b", []any{"c", "d", "e"}})
func ReprOf(v any) (*Repr, error) {
	return reprOf(v, "$")
}

func reprOf(v any, path string) (*Repr, error) {
	switch v := v.(type) {
	case string:
		return Leaf(v), nil

	case *Repr:
		if v == nil {
			return nil, errors.Wrapf(ErrMalformedRepresentation, "%s: nil *Repr", path)
		}
		return v, nil

	case []string:
		if len(v) != 3 {
			return nil, errors.Wrapf(ErrMalformedRepresentation,
				"%s: triple has %d elements", path, len(v))
		}
		return Triple(Leaf(v[0]), v[1], Leaf(v[2])), nil

	case []any:
		if len(v) != 3 {
			return nil, errors.Wrapf(ErrMalformedRepresentation,
				"%s: triple has %d elements", path, len(v))
		}

		key, ok := v[1].(string)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedRepresentation,
				"%s[1]: key is %T, not a string", path, v[1])
		}

		left, err := reprSide(v[0], path+"[0]")
		if err != nil {
			return nil, err
		}

		right, err := reprSide(v[2], path+"[2]")
		if err != nil {
			return nil, err
		}

		return Triple(left, key, right), nil

	default:
		return nil, errors.Wrapf(ErrMalformedRepresentation,
			"%s: %T is neither a key nor a triple", path, v)
	}
}

func reprSide(v any, path string) (*Repr, error) {
	if v == nil {
		return nil, nil
	}
	if r, ok := v.(*Repr); ok && r == nil {
		return nil, nil
	}
	return reprOf(v, path)
}

// MustRepr is like ReprOf but panics on error.
// It is meant for tests and literals.
func MustRepr(v any) *Repr {
	r, err := ReprOf(v)
	if err != nil {
		panic(err)
	}
	return r
}
