package cmd

import (
	"io"

	"github.com/ezerfernandes/tagfix/internal/fix"
	"github.com/spf13/cobra"
)

// fixFile applies fixer to the file named on the command line.
func fixFile(cmd *cobra.Command, opts *options, file string, fixer fix.Fixer) error {
	input, err := opts.locate(file)
	if err != nil {
		return err
	}

	j := &job{step: cmd.Name(), input: input, fixer: fixer, check: opts.check}

	if len(opts.output) != 0 {
		if j.output, err = opts.locate(opts.output); err != nil {
			return err
		}
	}

	sess := newSession(opts, cmd.OutOrStdout())

	if err := sess.apply(cmd.Context(), j); err != nil {
		return err
	}

	return sess.finish(reportWriter(cmd, opts))
}

func reportWriter(cmd *cobra.Command, opts *options) io.Writer {
	if opts.dryRun {
		return cmd.ErrOrStderr()
	}

	return cmd.OutOrStdout()
}
