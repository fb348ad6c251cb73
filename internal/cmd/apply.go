package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/ezerfernandes/tagfix/internal/fix"
)

type target struct {
	fsys document.FS
	dir  string
	name string
}

func (t *target) path() string {
	return filepath.Join(t.dir, filepath.FromSlash(t.name))
}

type job struct {
	step   string
	input  *target
	output *target
	fixer  fix.Fixer
	check  string
}

type session struct {
	opts    *options
	stdout  io.Writer
	pending map[string]string
	rows    []row
}

func newSession(opts *options, stdout io.Writer) *session {
	return &session{opts: opts, stdout: stdout, pending: make(map[string]string)}
}

func (s *session) read(t *target) (string, error) {
	if content, ok := s.pending[t.path()]; ok {
		return content, nil
	}

	return document.ReadString(t.fsys, t.name)
}

// apply runs one fix against its input and writes the result when the fix
// changed something. Only I/O and option errors are returned; a fix that
// does not apply is recorded in the report.
func (s *session) apply(ctx context.Context, j *job) error {
	log := s.opts.log.With("step", j.step, "fix", j.fixer.Kind(), "file", j.input.path())
	log.Debug("applying fix")

	content, err := s.read(j.input)
	if err != nil {
		return err
	}

	fixed, outcome, err := j.fixer.Fix(content)
	if err != nil {
		return fmt.Errorf("%s: %w", j.step, err)
	}

	r := row{file: j.input.path(), step: j.step, kind: j.fixer.Kind(), detail: outcome.Detail}

	switch {
	case !outcome.Applied || fixed == content:
		r.status = statusSkipped
		log.Warnw("fix not applied", "reason", outcome.Detail)
	case outcome.Reason != nil:
		r.status = statusPartial
		log.Warnw("fix partially applied", "reason", outcome.Reason)
	default:
		r.status = statusApplied
	}

	if r.status != statusSkipped {
		if err := s.write(ctx, j, content, fixed, &r); err != nil {
			return err
		}
	}

	s.rows = append(s.rows, r)

	return nil
}

func (s *session) write(ctx context.Context, j *job, original, fixed string, r *row) error {
	out := j.output
	if out == nil {
		out = j.input
	}

	if s.opts.dryRun {
		s.pending[out.path()] = fixed
		_, err := fmt.Fprintf(s.stdout, "--- %s (%s) ---\n%s\n", out.path(), j.step, fixed)

		return err
	}

	previous, existed, err := s.snapshot(out, original, j.output == nil)
	if err != nil {
		return err
	}

	if err := document.WriteString(out.fsys, out.name, fixed); err != nil {
		return err
	}

	s.opts.log.Infow("fixed", "step", j.step, "file", out.path(), "detail", r.detail)

	if len(j.check) == 0 {
		return nil
	}

	code, err := runCheck(ctx, j.check, out, s.opts.log)
	if err != nil {
		return err
	}

	if code == 0 {
		return nil
	}

	r.status = statusCheckFailed
	r.detail = fmt.Sprintf("check exited with %d", code)

	if !existed {
		s.opts.log.Warnw("check failed, output left in place", "file", out.path(), "exit", code)

		return nil
	}

	s.opts.log.Warnw("check failed, restoring file", "file", out.path(), "exit", code)

	return document.WriteString(out.fsys, out.name, previous)
}

// snapshot returns the content out held before the write, for restoring it
// when a check fails.
func (s *session) snapshot(out *target, original string, inPlace bool) (string, bool, error) {
	if inPlace {
		return original, true, nil
	}

	previous, err := document.ReadString(out.fsys, out.name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return previous, true, nil
}

func (s *session) fail(file, step, kind string, err error) {
	s.opts.log.Errorw("fix failed", "step", step, "file", file, "error", err)
	s.rows = append(s.rows, row{file: file, step: step, kind: kind, status: statusError, detail: err.Error()})
}

func (s *session) failures() int {
	count := 0

	for _, r := range s.rows {
		if r.status != statusApplied {
			count++
		}
	}

	return count
}

func (s *session) finish(w io.Writer) error {
	if !s.opts.quiet {
		printReport(w, s.rows)
	}

	if failures := s.failures(); failures > 0 {
		return fmt.Errorf("%d of %d %w", failures, len(s.rows), errNotApplied)
	}

	return nil
}

var errNotApplied = errors.New("fix(es) not applied")
