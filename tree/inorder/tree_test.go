package inorder

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lepak.sg/rotations/tree"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		in   any
		post func(t *testing.T, tr *Tree)
	}{
		{
			name: "leaf",
			in:   "x",
			post: func(t *testing.T, tr *Tree) {
				root, ok := tr.Root()
				assert.True(t, ok)
				assert.Equal(t, "x", root)
				assert.Equal(t, 1, tr.Len())
				assert.Nil(t, tr.root.Parent)
				assert.True(t, tr.root.Leaf())
			},
		},
		{
			name: "nested",
			in:   []any{"a", "b", []any{"c", "d", "e"}},
			post: func(t *testing.T, tr *Tree) {
				root, _ := tr.Root()
				assert.Equal(t, "b", root)
				assert.Equal(t, 5, tr.Len())

				l, ok := tr.Child("b", tree.Left)
				assert.True(t, ok)
				assert.Equal(t, "a", l)
				r, ok := tr.Child("b", tree.Right)
				assert.True(t, ok)
				assert.Equal(t, "d", r)

				p, ok := tr.Parent("c")
				assert.True(t, ok)
				assert.Equal(t, "d", p)
				_, ok = tr.Parent("b")
				assert.False(t, ok, "root has no parent")

				assert.Same(t, tr.root.Right, tr.index["d"])
				assert.Same(t, tr.root, tr.index["d"].Parent)
			},
		},
		{
			name: "one child",
			in:   []any{nil, "a", []string{"b", "c", "d"}},
			post: func(t *testing.T, tr *Tree) {
				_, ok := tr.Child("a", tree.Left)
				assert.False(t, ok)
				r, ok := tr.Child("a", tree.Right)
				assert.True(t, ok)
				assert.Equal(t, "c", r)
				assert.Equal(t, []string{"a", "b", "c", "d"}, tr.Keys())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ReprOf(tt.in)
			require.NoError(t, err)

			tr, err := Build(r)
			require.NoError(t, err)
			require.NoError(t, tr.Check())

			assert.True(t, r.Equal(tr.Repr()), "round trip: %s != %s", r, tr.Repr())
			tt.post(t, tr)
		})
	}
}

func TestBuild_Nil(t *testing.T) {
	tr, err := Build(nil)
	assert.Nil(t, tr)
	assert.True(t, errors.Is(err, ErrMalformedRepresentation))
}

func TestTree_Zero(t *testing.T) {
	var tr Tree

	assert.Nil(t, tr.Repr())
	assert.Equal(t, "", tr.String())
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Keys())
	assert.Empty(t, tr.IndexKeys())
	assert.NoError(t, tr.Check())

	_, ok := tr.Root()
	assert.False(t, ok)

	err := tr.RotateLeft("a")
	assert.True(t, errors.Is(err, ErrUnknownKey))

	b, err := tr.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestRotate_Scenario(t *testing.T) {
	tr := MustParse(`["a","b",["c","d","e"]]`)

	require.NoError(t, tr.RotateLeft("b"))
	require.NoError(t, tr.Check())

	root, _ := tr.Root()
	assert.Equal(t, "d", root)
	assert.Equal(t, MustRepr([]any{[]any{"a", "b", "c"}, "d", "e"}), tr.Repr())
	assert.Equal(t, `[["a","b","c"],"d","e"]`, tr.Repr().String())

	r, _ := tr.Child("b", tree.Right)
	assert.Equal(t, "c", r)
}

func TestRotate_Failures(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  string
		dir  tree.Direction
		err  error
	}{
		{name: "leaf left", in: `"x"`, key: "x", dir: tree.Left, err: ErrMissingPivot},
		{name: "leaf right", in: `"x"`, key: "x", dir: tree.Right, err: ErrMissingPivot},
		{name: "no left child", in: `[null,"a","b"]`, key: "a", dir: tree.Right, err: ErrMissingPivot},
		{name: "no right child", in: `["a","b",null]`, key: "b", dir: tree.Left, err: ErrMissingPivot},
		{name: "unknown", in: `["a","b","c"]`, key: "z", dir: tree.Left, err: ErrUnknownKey},
		{name: "empty key", in: `["a","b","c"]`, key: "", dir: tree.Right, err: ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := MustParse(tt.in)
			before := tr.Repr()

			err := tr.Rotate(tt.key, tt.dir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "%v", err)
			assert.Contains(t, err.Error(), fmt.Sprintf("rotate %s %q", tt.dir, tt.key))

			assert.True(t, before.Equal(tr.Repr()))
			assert.Equal(t, tt.in, tr.Repr().String())
			assert.NoError(t, tr.Check())
		})
	}
}

func TestRotate_RootUpdate(t *testing.T) {
	tr := MustParse(`[["a","b","c"],"d","e"]`)

	require.NoError(t, tr.RotateRight("d"))
	root, _ := tr.Root()
	assert.Equal(t, "b", root)
	assert.Nil(t, tr.root.Parent)
	assert.Same(t, tr.index["b"], tr.root)

	// rotating below the root leaves it alone
	require.NoError(t, tr.RotateLeft("d"))
	root, _ = tr.Root()
	assert.Equal(t, "b", root)
	assert.Equal(t, `["a","b",[["c","d",null],"e",null]]`, tr.Repr().String())
	assert.NoError(t, tr.Check())
}

func TestRotate_KeepsIndex(t *testing.T) {
	tr := MustParse(`[["a","b","c"],"d",["e","f","g"]]`)

	nodes := make(map[string]*tree.Node[string], len(tr.index))
	for k, n := range tr.index {
		nodes[k] = n
	}

	require.NoError(t, tr.Apply(
		Op{Dir: tree.Left, Key: "d"},
		Op{Dir: tree.Right, Key: "f"},
		Op{Dir: tree.Left, Key: "b"},
	))
	require.NoError(t, tr.Check())

	assert.Len(t, tr.index, len(nodes))
	for k, n := range nodes {
		assert.Same(t, n, tr.index[k], "key %q moved to another node", k)
		assert.Equal(t, k, n.Key)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, tr.IndexKeys())
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, tr.Keys())
}

func TestBothNullTriple(t *testing.T) {
	in := `[null,"x",null]`

	r, err := ParseRepr(in)
	require.NoError(t, err)
	assert.True(t, r.IsTriple())
	assert.True(t, r.IsLeaf())
	assert.Equal(t, in, r.String())

	tr, err := Build(r)
	require.NoError(t, err)

	// the node is a leaf, so it comes back in the bare form
	out := tr.Repr()
	assert.Equal(t, `"x"`, out.String())
	assert.False(t, r.Equal(out))
	assert.Equal(t, r.Key, out.Key)
}

func TestDuplicateKeys(t *testing.T) {
	tr := MustParse(`[["k","a","k"],"k",null]`)

	assert.Equal(t, 4, tr.Len())
	assert.Equal(t, []string{"a", "k"}, tr.IndexKeys())
	assert.Equal(t, []string{"k", "a", "k", "k"}, tr.Keys())

	// the root was built last, so it owns "k"
	assert.Same(t, tr.root, tr.index["k"])
	require.NoError(t, tr.Check())

	require.NoError(t, tr.RotateRight("k"))
	root, _ := tr.Root()
	assert.Equal(t, "a", root)
	assert.Equal(t, `["k","a",["k","k",null]]`, tr.Repr().String())
	require.NoError(t, tr.Check())
}

func TestCheck_Corrupted(t *testing.T) {
	tests := []struct {
		name   string
		damage func(tr *Tree)
		err    string
	}{
		{
			name:   "stale parent",
			damage: func(tr *Tree) { tr.root.Right.Left.Parent = tr.root },
			err:    `node d: child c points back at b`,
		},
		{
			name:   "detached index entry",
			damage: func(tr *Tree) { tr.index["z"] = tree.NodeOf("z") },
			err:    `index entry "z": node "z" is detached`,
		},
		{
			name:   "index points at wrong node",
			damage: func(tr *Tree) { tr.index["a"] = tr.index["e"] },
			err:    `index entry "a" holds node "e"`,
		},
		{
			name:   "missing index entry",
			damage: func(tr *Tree) { delete(tr.index, "c") },
			err:    `key "c" is not indexed`,
		},
		{
			name:   "wrong size",
			damage: func(tr *Tree) { tr.size++ },
			err:    `reached 5 nodes, but 6 were built`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := MustParse(`["a","b",["c","d","e"]]`)
			require.NoError(t, tr.Check())

			tt.damage(tr)

			err := tr.Check()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestMustParse(t *testing.T) {
	assert.Panics(t, func() {
		MustParse(`["a","b"]`)
	})
	assert.NotPanics(t, func() {
		MustParse(`"a"`)
	})
}

func TestTree_MarshalJSON(t *testing.T) {
	tr := MustParse(`[null,"a",["b","c",null]]`)

	b, err := tr.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[null,"a",["b","c",null]]`, string(b))
}

func randomKeys(num int) []string {
	keys := make([]string, num)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%04d", i)
	}
	return keys
}

// randomRepr builds a random shape over keys, keeping them in order,
// so that keys is always the in-order sequence of the result.
func randomRepr(rd *rand.Rand, keys []string) *Repr {
	if len(keys) == 0 {
		return nil
	}

	i := rd.Intn(len(keys))
	left := randomRepr(rd, keys[:i])
	right := randomRepr(rd, keys[i+1:])
	if left == nil && right == nil {
		return Leaf(keys[i])
	}

	return Triple(left, keys[i], right)
}

func TestRoundTrip_Random(t *testing.T) {
	rd := rand.New(rand.NewSource(0x123456789abcdef0))
	const rounds = 100

	for i := 0; i < rounds; i++ {
		keys := randomKeys(1 + rd.Intn(64))
		r := randomRepr(rd, keys)

		t.Run(fmt.Sprintf("round=%d/size=%d", i, len(keys)), func(t *testing.T) {
			tr, err := Build(r)
			require.NoError(t, err)
			require.NoError(t, tr.Check())

			assert.True(t, r.Equal(tr.Repr()), "different tree was recreated")
			assert.Equal(t, keys, tr.Keys())

			text := r.String()
			parsed, err := ParseRepr(text)
			require.NoError(t, err)
			assert.True(t, r.Equal(parsed))
			assert.Equal(t, text, tr.Repr().String())
		})
	}
}

func TestRotate_Random(t *testing.T) {
	rd := rand.New(rand.NewSource(0x0fedcba987654321))
	const rounds = 20
	const opsPerRound = 200

	for i := 0; i < rounds; i++ {
		keys := randomKeys(1 + rd.Intn(32))
		tr, err := Build(randomRepr(rd, keys))
		require.NoError(t, err)

		t.Run(fmt.Sprintf("round=%d/size=%d", i, len(keys)), func(t *testing.T) {
			for j := 0; j < opsPerRound; j++ {
				key := keys[rd.Intn(len(keys))]
				dir := tree.Direction(rd.Intn(2))
				before := tr.Repr()
				wasRoot, _ := tr.Root()

				err := tr.Rotate(key, dir)
				if err != nil {
					require.True(t, errors.Is(err, ErrMissingPivot), "%v", err)
					require.True(t, before.Equal(tr.Repr()), "failed rotation changed the tree")
					continue
				}

				require.NoError(t, tr.Check())
				require.Equal(t, keys, tr.Keys(), "in-order sequence changed")
				require.Equal(t, keys, tr.IndexKeys())

				pivot, ok := tr.Parent(key)
				require.True(t, ok, "rotated node must hang off its pivot")
				if wasRoot == key {
					root, _ := tr.Root()
					require.Equal(t, pivot, root)
				}

				// undo, check, and redo
				require.NoError(t, tr.Rotate(pivot, dir.Opposite()))
				require.True(t, before.Equal(tr.Repr()), "rotation did not reverse")
				require.NoError(t, tr.Rotate(key, dir))
			}
		})
	}
}

var trForBench *Tree

func BenchmarkBuild(b *testing.B) {
	rd := rand.New(rand.NewSource(0x123456789abcdef0))
	sizes := []int{10, 100, 10000}

	for _, size := range sizes {
		r := randomRepr(rd, randomKeys(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				trForBench, _ = Build(r)
			}
		})
	}
}

func BenchmarkRotate(b *testing.B) {
	tr := MustParse(`[["a","b","c"],"d",["e","f","g"]]`)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.RotateLeft("d")
		_ = tr.RotateRight("f")
	}
}
