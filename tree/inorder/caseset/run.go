package caseset

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"go.lepak.sg/rotations/tree/inorder"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// Result is the outcome of one case.
type Result struct {
	Index int
	Name  string
	Want  *inorder.Repr
	Got   *inorder.Repr
	// Err is set if the case could not run to the end,
	// e.g. a rotation failed or the tree broke an invariant.
	Err error
}

// OK reports whether the case ran and produced what it wanted.
func (r Result) OK() bool {
	return r.Err == nil && r.Want.Equal(r.Got)
}

func (r Result) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Want.String()
}

// RunTraversal builds a tree from c and reads it back.
func RunTraversal(i int, c *inorder.Repr) Result {
	res := Result{Index: i, Want: c}

	tr, err := inorder.Build(c)
	if err != nil {
		res.Err = err
		return res
	}

	res.Got = tr.Repr()
	res.Err = tr.Check()
	return res
}

// RunRotation builds a tree from c.Initial and applies c.Operations.
// Got holds the tree as it stood when the run stopped, even on error.
func RunRotation(i int, c Rotation) Result {
	res := Result{Index: i, Name: c.Name, Want: c.Final}

	tr, err := inorder.Build(c.Initial)
	if err != nil {
		res.Err = err
		return res
	}

	res.Err = tr.Apply(c.Operations...)
	if res.Err == nil {
		res.Err = tr.Check()
	}
	res.Got = tr.Repr()

	return res
}

// Runner runs cases concurrently, one tree per case.
// The zero Runner uses DefaultWorkers and slog.Default().
type Runner struct {
	Workers int
	Log     *slog.Logger
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return DefaultWorkers
	}
	return r.Workers
}

func (r *Runner) log() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// Traversals runs every traversal case. Results are in case order.
// The only error is the context's, if it ends before all cases ran.
func (r *Runner) Traversals(ctx context.Context, cases []*inorder.Repr) ([]Result, error) {
	return runAll(ctx, r, "traversal", cases, RunTraversal)
}

// Rotations runs every rotation case. Results are in case order.
func (r *Runner) Rotations(ctx context.Context, cases []Rotation) ([]Result, error) {
	return runAll(ctx, r, "rotation", cases, RunRotation)
}

func runAll[C any](ctx context.Context, r *Runner, kind string, cases []C, run func(int, C) Result) ([]Result, error) {
	results := make([]Result, len(cases))
	log := r.log().With("kind", kind)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())

	for i, c := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := run(i, c)
			results[i] = res

			if res.OK() {
				log.Debug("case passed", "index", i, "case", res.label())
			} else {
				log.Warn("case failed", "index", i, "case", res.label(), "err", res.Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Diff returns a unified diff of the wanted and actual trees, each
// drawn as its JSON text followed by its diagram.
func Diff(want, got *inorder.Repr) string {
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(render(want)),
		B:        difflib.SplitLines(render(got)),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("<diff: %v>\n", err)
	}
	return d
}

func render(r *inorder.Repr) string {
	if r == nil {
		return "null\n"
	}

	tr, err := inorder.Build(r)
	if err != nil {
		return fmt.Sprintf("%s\n<%v>\n", r, err)
	}
	return r.String() + "\n" + tr.String()
}

// Report writes one line per result to w, followed by the error or a
// diff for each failure, and returns the number of failures.
func Report(w io.Writer, results []Result) (failed int) {
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(w, "ok   %3d %s\n", res.Index, res.label())
			continue
		}

		failed++
		fmt.Fprintf(w, "FAIL %3d %s\n", res.Index, res.label())
		if res.Err != nil {
			fmt.Fprintf(w, "         %v\n", res.Err)
		}
		if !res.Want.Equal(res.Got) {
			fmt.Fprint(w, Diff(res.Want, res.Got))
		}
	}

	fmt.Fprintf(w, "%d passed, %d failed\n", len(results)-failed, failed)
	return failed
}
