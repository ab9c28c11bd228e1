package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.lepak.sg/rotations/tree/inorder"
	"go.lepak.sg/rotations/tree/inorder/caseset"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "cases",
		Usage:   "build, rotate and check inorder trees",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "log every case, not just failures",
				EnvVars: []string{"CASES_VERBOSE"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of cases to run at once",
				Value:   caseset.DefaultWorkers,
				EnvVars: []string{"CASES_WORKERS"},
			},
		},
		Commands: []*cli.Command{
			traversalsCmd,
			rotationsCmd,
			showCmd,
			rotateCmd,
		},
	}
}

func newLogger(cctx *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if cctx.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: logLevel}))
}

var traversalsCmd = &cli.Command{
	Name:      "traversals",
	Usage:     "check that each representation in the files survives a round trip",
	ArgsUsage: "FILE...",
	Action: func(cctx *cli.Context) error {
		return runFiles(cctx, "traversal", caseset.LoadTraversals,
			func(r *caseset.Runner, ctx context.Context, cases []*inorder.Repr) ([]caseset.Result, error) {
				return r.Traversals(ctx, cases)
			})
	},
}

var rotationsCmd = &cli.Command{
	Name:      "rotations",
	Usage:     "apply each case's operations to its initial tree and compare with its final tree",
	ArgsUsage: "FILE...",
	Action: func(cctx *cli.Context) error {
		return runFiles(cctx, "rotation", caseset.LoadRotations,
			func(r *caseset.Runner, ctx context.Context, cases []caseset.Rotation) ([]caseset.Result, error) {
				return r.Rotations(ctx, cases)
			})
	},
}

func runFiles[C any](
	cctx *cli.Context,
	kind string,
	load func(string) ([]C, error),
	run func(*caseset.Runner, context.Context, []C) ([]caseset.Result, error),
) error {
	if cctx.NArg() == 0 {
		return errors.Newf("no %s case files given", kind)
	}

	log := newLogger(cctx)
	runner := &caseset.Runner{
		Workers: cctx.Int("workers"),
		Log:     log,
	}

	failed := 0
	for _, path := range cctx.Args().Slice() {
		cases, err := load(path)
		if err != nil {
			return err
		}

		log.Info("running cases", "kind", kind, "path", path, "cases", len(cases))
		results, err := run(runner, cctx.Context, cases)
		if err != nil {
			return errors.Wrapf(err, "%s", path)
		}

		fmt.Fprintf(cctx.App.Writer, "== %s\n", path)
		failed += caseset.Report(cctx.App.Writer, results)
	}

	if failed > 0 {
		return errors.Newf("%d %s cases failed", failed, kind)
	}
	return nil
}

var showCmd = &cli.Command{
	Name:      "show",
	Usage:     "draw the tree for a representation",
	ArgsUsage: "REPR",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return errors.New("show takes exactly one representation")
		}

		tr, err := inorder.Parse(cctx.Args().First())
		if err != nil {
			return err
		}

		printTree(cctx, tr)
		return nil
	},
}

var rotateCmd = &cli.Command{
	Name:      "rotate",
	Usage:     "apply rotations, written as left:KEY or right:KEY, to a representation",
	ArgsUsage: "REPR OP...",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() < 1 {
			return errors.New("rotate needs a representation")
		}

		tr, err := inorder.Parse(cctx.Args().First())
		if err != nil {
			return err
		}

		ops := make([]inorder.Op, 0, cctx.NArg()-1)
		for _, s := range cctx.Args().Tail() {
			op, err := inorder.ParseOp(s)
			if err != nil {
				return err
			}
			ops = append(ops, op)
		}

		log := newLogger(cctx)
		log.Debug("applying", "ops", len(ops), "root", tr.Repr())

		err = tr.Apply(ops...)
		printTree(cctx, tr)
		return err
	},
}

func printTree(cctx *cli.Context, tr *inorder.Tree) {
	fmt.Fprintln(cctx.App.Writer, tr.Repr())
	fmt.Fprint(cctx.App.Writer, tr)
}
