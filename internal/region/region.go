// Package region reads and replaces pattern-delimited regions in source files.
package region

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	reDotAll = `(?s)`
	reGap    = `\s*`
	reBody   = `.*?`
)

// Compile compiles pattern with "." matching newlines.
func Compile(pattern string) (*regexp.Regexp, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}

	re, err := regexp.Compile(reDotAll + pattern)
	if err != nil {
		return nil, fmt.Errorf("region pattern: %w", err)
	}

	return re, nil
}

// Between builds a pattern matching the open literals, any content, and the
// close literals. Consecutive literals may be separated by any whitespace;
// the content in between is matched lazily, so each region ends at the
// first close sequence after its open sequence.
func Between(open, close []string) (*regexp.Regexp, error) {
	if len(open) == 0 || len(close) == 0 {
		return nil, ErrEmptyPattern
	}

	return Compile(literals(open) + reBody + literals(close))
}

func literals(lines []string) string {
	quoted := make([]string, 0, len(lines))

	for _, line := range lines {
		quoted = append(quoted, regexp.QuoteMeta(strings.TrimSpace(line)))
	}

	return strings.Join(quoted, reGap)
}

// Count returns the number of regions matched by re.
func Count(source []byte, re *regexp.Regexp) int {
	return len(re.FindAllIndex(source, -1))
}

// Replace substitutes up to limit regions matched by re with value, taken
// verbatim. A limit of zero or less replaces every region. It returns the
// updated source and the number of regions replaced; with no match the
// source is returned as is.
func Replace(source []byte, re *regexp.Regexp, value []byte, limit int) ([]byte, int) {
	if limit <= 0 {
		limit = -1
	}

	matches := re.FindAllIndex(source, limit)
	if len(matches) == 0 {
		return source, 0
	}

	size := len(source)
	for _, idx := range matches {
		size += len(value) - (idx[1] - idx[0])
	}

	res := make([]byte, 0, size)
	last := 0

	for _, idx := range matches {
		res = append(res, source[last:idx[0]]...)
		res = append(res, value...)
		last = idx[1]
	}

	res = append(res, source[last:]...)

	return res, len(matches)
}

var (
	// ErrEmptyPattern is returned when no pattern or literals were given.
	ErrEmptyPattern = errors.New("empty region pattern")
	// ErrNoMatch is the reason reported when no region matched.
	ErrNoMatch = errors.New("region pattern did not match")
)
