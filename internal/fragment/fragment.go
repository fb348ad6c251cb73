// Package fragment loads replacement fragments, either whole files or fenced
// code blocks picked out of a Markdown document.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Selector picks a fenced code block by language and metadata. The zero
// Selector matches the first block.
type Selector struct {
	Lang string
	Meta map[string]string
}

// Match reports whether block satisfies the selector.
func (s Selector) Match(block *Block) bool {
	if len(s.Lang) != 0 && s.Lang != "*" && !strings.EqualFold(s.Lang, block.Lang) {
		return false
	}

	for key, want := range s.Meta {
		if block.Meta.Get(key) != want {
			return false
		}
	}

	return true
}

func (s Selector) String() string {
	parts := make([]string, 0, len(s.Meta)+1)

	if len(s.Lang) != 0 {
		parts = append(parts, "lang="+s.Lang)
	}

	keys := make([]string, 0, len(s.Meta))
	for key := range s.Meta {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		parts = append(parts, key+"="+s.Meta[key])
	}

	if len(parts) == 0 {
		return "first block"
	}

	return strings.Join(parts, " ")
}

// Select returns the first fenced block in source matching sel.
func Select(source []byte, sel Selector) (*Block, error) {
	var found *Block

	err := Walk(source, func(block *Block) error {
		if !sel.Match(block) {
			return nil
		}

		found = block

		return ErrStop
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrFragmentNotFound, sel)
	}

	return found, nil
}

// IsMarkdown reports whether name has a Markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// Load reads the fragment stored in name. Markdown files yield the block
// chosen by sel; any other file is a single block spanning the whole file.
func Load(fsys fs.FS, name string, sel Selector) (*Block, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read fragment %s: %w", name, err)
	}

	if !IsMarkdown(name) {
		lines := bytes.Count(data, []byte("\n"))
		if len(data) != 0 && data[len(data)-1] != '\n' {
			lines++
		}

		return &Block{File: name, Code: data, StartLine: 1, EndLine: lines}, nil
	}

	block, err := Select(data, sel)
	if err != nil {
		return nil, fmt.Errorf("fragment %s: %w", name, err)
	}

	block.File = name

	return block, nil
}

// ParseSelector builds a Selector from a language and "key=value" pairs.
func ParseSelector(lang string, pairs []string) (Selector, error) {
	sel := Selector{Lang: lang}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || len(key) == 0 {
			return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, pair)
		}

		if sel.Meta == nil {
			sel.Meta = make(map[string]string)
		}

		sel.Meta[key] = value
	}

	return sel, nil
}

var (
	// ErrFragmentNotFound means no fenced block matched the selector.
	ErrFragmentNotFound = errors.New("no matching fenced code block")
	// ErrInvalidSelector is returned for metadata not in key=value form.
	ErrInvalidSelector = errors.New("invalid fragment selector")
)
