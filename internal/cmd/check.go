package cmd

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

func expandCheck(check string, t *target) string {
	expanded := strings.ReplaceAll(check, "{}", quote(t.path()))
	expanded = strings.ReplaceAll(expanded, "{dir}", quote(t.dir))
	expanded = strings.ReplaceAll(expanded, "{name}", quote(t.name))

	return expanded
}

func quote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}

	return quoted
}

// runCheck runs the check command for t in its directory and returns the
// command's exit status. Output goes to the debug log.
func runCheck(ctx context.Context, check string, t *target, log *zap.SugaredLogger) (int, error) {
	var out strings.Builder

	code, err := runCommand(ctx, expandCheck(check, t), t.dir, &out, &out)

	log.Debugw("check finished", "command", check, "exit", code, "output", out.String())

	return code, err
}

func runCommand(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(strings.NewReader(""), stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
