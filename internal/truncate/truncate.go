// Package truncate cuts a document at the first trigger line past a given
// line number and appends a fixed closing tail.
package truncate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezerfernandes/tagfix/internal/document"
)

// Options describes where to cut and what to append.
type Options struct {
	// Line is the 1-based line where trigger checks start.
	Line int
	// Contains lists substrings that must all occur in the trigger line.
	// When empty, Line itself triggers.
	Contains []string
	// Excludes lists substrings none of which may occur in the trigger line.
	Excludes []string
	// Tail replaces the trigger line and everything after it.
	Tail []string
}

// Result reports where the document was cut.
type Result struct {
	// Line is the 1-based trigger line, zero when nothing triggered.
	Line      int
	Discarded int
	Reason    error
}

// Applied reports whether the document was cut.
func (r *Result) Applied() bool {
	return r.Line > 0
}

// Err returns the reason nothing was cut, or nil.
func (r *Result) Err() error {
	return r.Reason
}

// Apply copies doc up to the first trigger line at or after opts.Line, then
// appends opts.Tail. Without a trigger line doc is returned unchanged.
func Apply(doc document.Document, opts Options) (document.Document, *Result, error) {
	if opts.Line < 1 {
		return nil, nil, fmt.Errorf("%w: line must be at least 1, got %d", ErrInvalidOptions, opts.Line)
	}

	for idx := opts.Line - 1; idx < len(doc); idx++ {
		if !opts.triggers(doc[idx]) {
			continue
		}

		out := make(document.Document, 0, idx+len(opts.Tail))
		out = append(out, doc[:idx]...)
		out = append(out, opts.Tail...)

		return out, &Result{Line: idx + 1, Discarded: len(doc) - idx}, nil
	}

	return doc, &Result{Reason: ErrNoTrigger}, nil
}

func (o Options) triggers(line string) bool {
	for _, s := range o.Contains {
		if !strings.Contains(line, s) {
			return false
		}
	}

	for _, s := range o.Excludes {
		if strings.Contains(line, s) {
			return false
		}
	}

	return true
}

var (
	// ErrInvalidOptions is returned by [Apply] for an out of range line.
	ErrInvalidOptions = errors.New("invalid truncate options")
	// ErrNoTrigger means no line at or after the threshold matched.
	ErrNoTrigger = errors.New("no trigger line found")
)
