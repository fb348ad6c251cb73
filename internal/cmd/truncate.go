package cmd

import (
	_ "embed"

	"github.com/ezerfernandes/tagfix/internal/fix"
	"github.com/ezerfernandes/tagfix/internal/truncate"
	"github.com/spf13/cobra"
)

//go:embed help/truncate.md
var truncateHelp string

func truncateCmd(opts *options) *cobra.Command {
	var topts truncate.Options

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "truncate [flags] filename",
		Aliases: []string{"t"},
		Short:   "Cut a file at a trigger line and append a closing tail",
		Long:    truncateHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fixFile(cmd, opts, args[0], &fix.Truncate{Options: topts})
		},

		DisableAutoGenTag: true,
	}

	outputFlag(cmd, opts)

	cmd.Flags().IntVar(&topts.Line, "line", 0, "1-based line where the trigger search starts")
	cmd.Flags().StringArrayVar(&topts.Contains, "contains", nil, "substring the trigger line must contain, repeatable")
	cmd.Flags().StringArrayVar(&topts.Excludes, "exclude", nil, "substring the trigger line must not contain, repeatable")
	cmd.Flags().StringArrayVar(&topts.Tail, "tail", nil, "line appended after the cut, repeatable")

	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("tail")

	return cmd
}
