package cmd

import (
	_ "embed"

	"github.com/ezerfernandes/tagfix/internal/block"
	"github.com/ezerfernandes/tagfix/internal/fix"
	"github.com/spf13/cobra"
)

//go:embed help/balance.md
var balanceHelp string

func balanceCmd(opts *options) *cobra.Command {
	var bopts block.Options

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "balance [flags] filename",
		Aliases: []string{"b"},
		Short:   "Close a marked block once its tag depth returns to zero",
		Long:    balanceHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fixFile(cmd, opts, args[0], &fix.Balance{Options: bopts})
		},

		DisableAutoGenTag: true,
	}

	outputFlag(cmd, opts)

	cmd.Flags().StringVar(&bopts.Marker, "marker", "", "substring of the line preceding the block")
	cmd.Flags().StringVar(&bopts.Open, "open", "", "substring the line after the marker must contain")
	cmd.Flags().StringVar(&bopts.Rewrite, "rewrite", "", "literal line emitted in place of the open line")
	cmd.Flags().StringVar(&bopts.OpenToken, "open-token", "<div", "token that increases the depth")
	cmd.Flags().StringVar(&bopts.CloseToken, "close-token", "</div>", "token that decreases the depth")
	cmd.Flags().StringVar(&bopts.Closing, "closing", "", "line inserted when the depth returns to zero")

	for _, name := range []string{"marker", "open", "closing"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
