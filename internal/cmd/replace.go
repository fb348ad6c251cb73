package cmd

import (
	_ "embed"

	"github.com/ezerfernandes/tagfix/internal/fragment"
	"github.com/ezerfernandes/tagfix/internal/recipe"
	"github.com/spf13/cobra"
)

//go:embed help/replace.md
var replaceHelp string

func replaceCmd(opts *options) *cobra.Command {
	var (
		spec recipe.Replace
		meta []string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "replace [flags] filename",
		Aliases: []string{"r"},
		Short:   "Replace a pattern-delimited region with a fragment",
		Long:    replaceHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := fragment.ParseSelector(spec.FragmentLang, meta)
			if err != nil {
				return err
			}

			spec.FragmentMeta = sel.Meta

			frag, err := opts.locate(spec.Fragment)
			if err != nil {
				return err
			}

			spec.Fragment = frag.name

			fixer, err := spec.Fixer(frag.fsys)
			if err != nil {
				return err
			}

			return fixFile(cmd, opts, args[0], fixer)
		},

		DisableAutoGenTag: true,
	}

	outputFlag(cmd, opts)

	cmd.Flags().StringVar(&spec.Pattern, "pattern", "", "regular expression matching the region, \".\" matches newlines")
	cmd.Flags().StringArrayVar(&spec.Open, "open", nil, "literal line opening the region, repeatable")
	cmd.Flags().StringArrayVar(&spec.Close, "close", nil, "literal line closing the region, repeatable")
	cmd.Flags().StringVarP(&spec.Fragment, "fragment", "f", "", "file holding the replacement, Markdown files yield a fenced block")
	cmd.Flags().StringVar(&spec.FragmentLang, "fragment-lang", "", "language of the fenced block to use")
	cmd.Flags().StringArrayVar(&meta, "fragment-meta", nil, "key=value the fenced block's metadata must hold, repeatable")
	cmd.Flags().IntVar(&spec.Limit, "limit", 0, "replace at most this many regions, 0 replaces all")

	_ = cmd.MarkFlagRequired("fragment")

	cmd.MarkFlagsMutuallyExclusive("pattern", "open")
	cmd.MarkFlagsMutuallyExclusive("pattern", "close")
	cmd.MarkFlagsRequiredTogether("open", "close")
	cmd.MarkFlagsOneRequired("pattern", "open")

	return cmd
}
