// Package block closes marker-delimited blocks whose nesting is tracked by
// counting open and close token occurrences line by line.
//
// The depth counter is a substring count, not a parse: a line holding open
// and close tokens in an unexpected order can still desynchronize the
// counted nesting from the real one.
package block

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezerfernandes/tagfix/internal/document"
)

// Options locates a block and describes how its nesting is counted.
type Options struct {
	// Marker is a substring of the line that precedes the block.
	Marker string
	// Open is a substring the line right after the marker must contain.
	Open string
	// Rewrite, when set, is emitted in place of the open line. The rewrite
	// is part of the block: callers that discard an output with no closing
	// line inserted also discard the rewritten open line.
	Rewrite string
	// OpenToken and CloseToken adjust the depth by their occurrence counts.
	OpenToken  string
	CloseToken string
	// Closing is the line inserted once the depth returns to zero.
	Closing string
}

func (o Options) validate() error {
	fields := []struct{ name, value string }{
		{"marker", o.Marker},
		{"open", o.Open},
		{"open token", o.OpenToken},
		{"close token", o.CloseToken},
		{"closing", o.Closing},
	}

	var missing []string

	for _, field := range fields {
		if len(field.value) == 0 {
			missing = append(missing, field.name)
		}
	}

	if len(missing) != 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidOptions, strings.Join(missing, ", "))
	}

	return nil
}

// Span describes one marker occurrence. Line numbers are 1-based and refer
// to the input document; zero means the line was not reached.
type Span struct {
	MarkerLine int
	OpenLine   int
	// CloseLine is the input line after which the closing literal went.
	CloseLine int
	Depth     int
	Inserted  bool
	Reason    error
}

// Result collects the spans found by [Balance].
type Result struct {
	Spans []Span
}

// Applied reports whether at least one closing line was inserted.
func (r *Result) Applied() bool {
	for _, span := range r.Spans {
		if span.Inserted {
			return true
		}
	}

	return false
}

// Err returns [ErrMarkerNotFound] when no marker occurred, otherwise the
// first span failure, or nil.
func (r *Result) Err() error {
	if len(r.Spans) == 0 {
		return ErrMarkerNotFound
	}

	for _, span := range r.Spans {
		if span.Reason != nil {
			return fmt.Errorf("marker at line %d: %w", span.MarkerLine, span.Reason)
		}
	}

	return nil
}

// Inserted returns the number of closing lines added.
func (r *Result) Inserted() int {
	count := 0

	for _, span := range r.Spans {
		if span.Inserted {
			count++
		}
	}

	return count
}

// Balance copies doc, and for every marker line followed by an open line it
// tracks depth from 1 until it returns to 0, then inserts opts.Closing.
// Documents without the marker come back unchanged.
func Balance(doc document.Document, opts Options) (document.Document, *Result, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	out := make(document.Document, 0, len(doc)+1)
	res := &Result{}

	for idx := 0; idx < len(doc); {
		line := doc[idx]
		out = append(out, line)
		idx++

		if !strings.Contains(line, opts.Marker) {
			continue
		}

		span := Span{MarkerLine: idx}

		if idx >= len(doc) || !strings.Contains(doc[idx], opts.Open) {
			span.Reason = ErrOpenMismatch
			res.Spans = append(res.Spans, span)

			continue
		}

		span.OpenLine = idx + 1
		if len(opts.Rewrite) != 0 {
			out = append(out, opts.Rewrite)
		} else {
			out = append(out, doc[idx])
		}

		idx++

		out, idx = track(doc, out, idx, opts, &span)
		res.Spans = append(res.Spans, span)
	}

	return out, res, nil
}

func track(doc, out document.Document, idx int, opts Options, span *Span) (document.Document, int) {
	depth := 1

	for idx < len(doc) && depth > 0 {
		line := doc[idx]
		out = append(out, line)
		idx++

		depth += strings.Count(line, opts.OpenToken) - strings.Count(line, opts.CloseToken)
	}

	span.Depth = depth

	switch {
	case depth == 0:
		out = append(out, opts.Closing)
		span.CloseLine = idx
		span.Inserted = true
	case depth < 0:
		span.CloseLine = idx
		span.Reason = ErrDepthUnderflow
	default:
		span.Reason = ErrUnbalanced
	}

	return out, idx
}

var (
	// ErrInvalidOptions is returned by [Balance] for incomplete options.
	ErrInvalidOptions = errors.New("invalid balance options")
	// ErrMarkerNotFound means no line contained the marker.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrOpenMismatch means the line after a marker lacked the open literal.
	ErrOpenMismatch = errors.New("line after marker does not open the block")
	// ErrUnbalanced means the document ended before the depth returned to zero.
	ErrUnbalanced = errors.New("depth never returned to zero")
	// ErrDepthUnderflow means a single line closed more than was open.
	ErrDepthUnderflow = errors.New("depth dropped below zero")
)
