package cmd

import (
	"context"
	_ "embed"
	"io/fs"
	"path/filepath"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/ezerfernandes/tagfix/internal/fix"
	"github.com/ezerfernandes/tagfix/internal/recipe"
	"github.com/spf13/cobra"
)

//go:embed help/run.md
var runHelp string

func runCmd(opts *options) *cobra.Command {
	var (
		dir   string
		steps []string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "run [flags] [recipe]",
		Short: "Apply the steps of a recipe file, or the built-in recipe",
		Long:  runHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, base, err := loadRecipe(opts, args)
			if err != nil {
				return err
			}

			if len(dir) != 0 {
				if base, err = filepath.Abs(dir); err != nil {
					return err
				}
			}

			selected, err := rec.Select(steps...)
			if err != nil {
				return err
			}

			return runSteps(cmd, opts, base, selected)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory recipe paths are relative to, instead of the recipe's directory")
	cmd.Flags().StringArrayVarP(&steps, "step", "s", nil, "run only the named step, repeatable")

	return cmd
}

func loadRecipe(opts *options, args []string) (*recipe.Recipe, string, error) {
	if len(args) == 0 {
		base, err := filepath.Abs(".")
		if err != nil {
			return nil, "", err
		}

		return recipe.Builtin(), base, nil
	}

	file, err := opts.locate(args[0])
	if err != nil {
		return nil, "", err
	}

	rec, err := recipe.Load(file.fsys, file.name)
	if err != nil {
		return nil, "", err
	}

	return rec, file.dir, nil
}

type preparedStep struct {
	step  *recipe.Step
	fixer fix.Fixer
}

// prepare builds every step's fixer, loading fragments, before any file is
// written. Steps that cannot be built are recorded as errors.
func prepare(sess *session, fsys fs.FS, steps []*recipe.Step) []preparedStep {
	prepared := make([]preparedStep, 0, len(steps))

	for _, step := range steps {
		fixer, err := step.Fixer(fsys)
		if err != nil {
			sess.fail(step.File, step.Name, step.Kind(), err)

			continue
		}

		prepared = append(prepared, preparedStep{step: step, fixer: fixer})
	}

	return prepared
}

func runSteps(cmd *cobra.Command, opts *options, base string, steps []*recipe.Step) error {
	fsys := opts.openFS(base)
	sess := newSession(opts, cmd.OutOrStdout())

	prepared := prepare(sess, fsys, steps)
	if len(prepared) != len(steps) {
		return sess.finish(reportWriter(cmd, opts))
	}

	for _, p := range prepared {
		runStep(cmd.Context(), sess, base, fsys, p)
	}

	return sess.finish(reportWriter(cmd, opts))
}

// runStep applies one step to every file it matches. Errors are recorded in
// the report and the remaining files and steps still run.
func runStep(ctx context.Context, sess *session, base string, fsys document.FS, p preparedStep) {
	step := p.step

	files, err := recipe.Targets(fsys, step.File)
	if err != nil {
		sess.fail(step.File, step.Name, p.fixer.Kind(), err)

		return
	}

	if len(files) == 0 {
		sess.opts.log.Warnw("no file matched", "step", step.Name, "pattern", step.File)
		sess.rows = append(sess.rows, row{file: step.File, step: step.Name, kind: p.fixer.Kind(), status: statusSkipped, detail: "no file matched"})

		return
	}

	check := step.Check
	if len(check) == 0 {
		check = sess.opts.check
	}

	for _, file := range files {
		j := &job{
			step:  step.Name,
			input: &target{fsys: fsys, dir: base, name: file},
			fixer: p.fixer,
			check: check,
		}

		if len(step.Output) != 0 {
			j.output = &target{fsys: fsys, dir: base, name: step.Output}
		}

		if err := sess.apply(ctx, j); err != nil {
			sess.fail(j.input.path(), step.Name, p.fixer.Kind(), err)
		}
	}
}
