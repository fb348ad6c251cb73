// Package fix adapts the balance, region and truncate transforms to a common
// interface so they can be applied and reported uniformly.
package fix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ezerfernandes/tagfix/internal/block"
	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/ezerfernandes/tagfix/internal/region"
	"github.com/ezerfernandes/tagfix/internal/truncate"
)

// Outcome reports whether a fix changed anything and why not.
type Outcome struct {
	Applied bool
	Detail  string
	Reason  error
}

// Fixer transforms file content.
type Fixer interface {
	Kind() string
	Fix(content string) (string, Outcome, error)
}

// Balance closes depth-tracked blocks. An outcome that is not applied means
// the content should be left as it was, including any rewritten open line.
type Balance struct {
	Options block.Options
}

func (*Balance) Kind() string { return "balance" }

func (b *Balance) Fix(content string) (string, Outcome, error) {
	doc, ending := document.SplitEnding(content)

	out, res, err := block.Balance(doc, b.Options)
	if err != nil {
		return content, Outcome{}, err
	}

	outcome := Outcome{Applied: res.Applied(), Reason: res.Err()}

	var closed []string

	for _, span := range res.Spans {
		if span.Inserted {
			closed = append(closed, fmt.Sprint(span.CloseLine))
		}
	}

	switch {
	case res.Inserted() != 0:
		outcome.Detail = fmt.Sprintf("closed %d block(s) after line %s", res.Inserted(), strings.Join(closed, ", "))
	case outcome.Reason != nil:
		outcome.Detail = outcome.Reason.Error()
	}

	return out.JoinEnding(ending), outcome, nil
}

// Replace substitutes pattern-matched regions with a fragment. Origin names
// where the fragment came from in the outcome detail.
type Replace struct {
	Pattern  *regexp.Regexp
	Fragment []byte
	Origin   string
	Limit    int
}

func (*Replace) Kind() string { return "replace" }

func (r *Replace) Fix(content string) (string, Outcome, error) {
	out, count := region.Replace([]byte(content), r.Pattern, r.Fragment, r.Limit)
	if count == 0 {
		return content, Outcome{Detail: region.ErrNoMatch.Error(), Reason: region.ErrNoMatch}, nil
	}

	detail := fmt.Sprintf("replaced %d region(s)", count)
	if total := region.Count([]byte(content), r.Pattern); total > count {
		detail = fmt.Sprintf("replaced %d of %d region(s)", count, total)
	}

	if len(r.Origin) != 0 {
		detail += " with " + r.Origin
	}

	return string(out), Outcome{Applied: true, Detail: detail}, nil
}

// Truncate cuts the document at a trigger line and appends a tail.
type Truncate struct {
	Options truncate.Options
}

func (*Truncate) Kind() string { return "truncate" }

func (t *Truncate) Fix(content string) (string, Outcome, error) {
	doc, ending := document.SplitEnding(content)

	out, res, err := truncate.Apply(doc, t.Options)
	if err != nil {
		return content, Outcome{}, err
	}

	if !res.Applied() {
		return content, Outcome{Detail: res.Err().Error(), Reason: res.Err()}, nil
	}

	detail := fmt.Sprintf("cut at line %d, discarded %d line(s)", res.Line, res.Discarded)

	return out.JoinEnding(ending), Outcome{Applied: true, Detail: detail}, nil
}
