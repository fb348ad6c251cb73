package cmd

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed help/root.md
var rootHelp string

type options struct {
	quiet   bool
	verbose bool
	dryRun  bool
	check   string
	output  string

	log    *zap.SugaredLogger
	openFS func(dir string) document.FS
}

func newOptions() *options {
	return &options{
		log:    zap.NewNop().Sugar(),
		openFS: document.Dir,
	}
}

// locate splits a command line path into the directory it lives in, opened
// as a file system, and its name within it.
func (opts *options) locate(path string) (*target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)

	return &target{fsys: opts.openFS(dir), dir: dir, name: filepath.Base(abs)}, nil
}

func (opts *options) createLogger(w io.Writer) {
	if opts.quiet {
		opts.log = zap.NewNop().Sugar()

		return
	}

	level := zapcore.InfoLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewDevelopmentEncoderConfig()
	config.TimeKey = ""
	config.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.AddSync(w), level)
	opts.log = zap.New(core).Sugar()
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "tagfix",
		Short: "Repair broken tag nesting in JSX and markup source files",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.createLogger(cmd.ErrOrStderr())

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = opts.log.Sync()
		},

		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "don't log progress")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "print fixed content to stdout instead of writing files")
	flags.StringVar(&opts.check, "check", "", "shell command run after each write, {} expands to the file; failure restores the file")

	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	cmd.AddCommand(
		balanceCmd(opts),
		replaceCmd(opts),
		truncateCmd(opts),
		runCmd(opts),
	)

	return cmd
}

func outputFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this file instead of overwriting the input")
}

// Execute runs the command line and exits with a non-zero status on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := execute(newOptions(), args, stdout, stderr); err != nil {
		os.Exit(1)
	}
}

func execute(opts *options, args []string, stdout, stderr io.Writer) error {
	cmd := rootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		cmd.PrintErrln("Error:", err)
	}

	return err
}
