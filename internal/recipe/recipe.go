// Package recipe describes batches of fixes in YAML and turns them into
// fixers bound to concrete files.
package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/ezerfernandes/tagfix/internal/block"
	"github.com/ezerfernandes/tagfix/internal/fix"
	"github.com/ezerfernandes/tagfix/internal/fragment"
	"github.com/ezerfernandes/tagfix/internal/region"
	"github.com/ezerfernandes/tagfix/internal/truncate"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtin []byte

// Recipe is an ordered list of steps.
type Recipe struct {
	Steps []*Step `yaml:"steps"`
}

// Step applies exactly one fix to the files matched by File.
type Step struct {
	Name     string    `yaml:"name"`
	File     string    `yaml:"file"`
	Output   string    `yaml:"output,omitempty"`
	Check    string    `yaml:"check,omitempty"`
	Balance  *Balance  `yaml:"balance,omitempty"`
	Replace  *Replace  `yaml:"replace,omitempty"`
	Truncate *Truncate `yaml:"truncate,omitempty"`
}

type Balance struct {
	Marker     string `yaml:"marker"`
	Open       string `yaml:"open"`
	Rewrite    string `yaml:"rewrite,omitempty"`
	OpenToken  string `yaml:"open_token"`
	CloseToken string `yaml:"close_token"`
	Closing    string `yaml:"closing"`
}

type Replace struct {
	Pattern      string            `yaml:"pattern,omitempty"`
	Open         []string          `yaml:"open,omitempty"`
	Close        []string          `yaml:"close,omitempty"`
	Fragment     string            `yaml:"fragment"`
	FragmentLang string            `yaml:"fragment_lang,omitempty"`
	FragmentMeta map[string]string `yaml:"fragment_meta,omitempty"`
	Limit        int               `yaml:"limit,omitempty"`
}

type Truncate struct {
	Line     int      `yaml:"line"`
	Contains []string `yaml:"contains,omitempty"`
	Excludes []string `yaml:"excludes,omitempty"`
	Tail     []string `yaml:"tail"`
}

// Parse decodes and validates a recipe.
func Parse(data []byte) (*Recipe, error) {
	var rec Recipe

	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Load reads and parses the recipe stored in name.
func Load(fsys fs.FS, name string) (*Recipe, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	return Parse(data)
}

// Builtin returns the embedded recipe that reproduces the admin panel
// repairs.
func Builtin() *Recipe {
	rec, err := Parse(builtin)
	if err != nil {
		panic(err)
	}

	return rec
}

// Validate checks that every step is named, targets a file and holds
// exactly one fix.
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return ErrNoSteps
	}

	for i, step := range r.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return nil
}

// Select returns the steps with the given names, in recipe order. No names
// selects every step.
func (r *Recipe) Select(names ...string) ([]*Step, error) {
	if len(names) == 0 {
		return r.Steps, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = false
	}

	var steps []*Step

	for _, step := range r.Steps {
		if _, ok := wanted[step.Name]; ok {
			wanted[step.Name] = true

			steps = append(steps, step)
		}
	}

	for _, name := range names {
		if !wanted[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, name)
		}
	}

	return steps, nil
}

func (s *Step) validate() error {
	if len(s.Name) == 0 {
		return ErrMissingName
	}

	if len(s.File) == 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrMissingFile)
	}

	kinds := 0

	for _, set := range []bool{s.Balance != nil, s.Replace != nil, s.Truncate != nil} {
		if set {
			kinds++
		}
	}

	if kinds != 1 {
		return fmt.Errorf("%s: %w, got %d", s.Name, ErrFixKind, kinds)
	}

	if len(s.Output) != 0 && IsPattern(s.File) {
		return fmt.Errorf("%s: %w", s.Name, ErrOutputWithGlob)
	}

	if s.Replace != nil && len(s.Replace.Fragment) == 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrMissingFragment)
	}

	return nil
}

// Kind names the step's fix.
func (s *Step) Kind() string {
	switch {
	case s.Balance != nil:
		return "balance"
	case s.Replace != nil:
		return "replace"
	case s.Truncate != nil:
		return "truncate"
	default:
		return ""
	}
}

// Fixer builds the step's fix. Fragments are read from fsys.
func (s *Step) Fixer(fsys fs.FS) (fix.Fixer, error) {
	switch {
	case s.Balance != nil:
		return &fix.Balance{Options: s.Balance.Options()}, nil
	case s.Truncate != nil:
		return &fix.Truncate{Options: s.Truncate.Options()}, nil
	case s.Replace != nil:
		return s.Replace.Fixer(fsys)
	default:
		return nil, fmt.Errorf("%s: %w, got 0", s.Name, ErrFixKind)
	}
}

func (b *Balance) Options() block.Options {
	return block.Options{
		Marker:     b.Marker,
		Open:       b.Open,
		Rewrite:    b.Rewrite,
		OpenToken:  b.OpenToken,
		CloseToken: b.CloseToken,
		Closing:    b.Closing,
	}
}

func (t *Truncate) Options() truncate.Options {
	return truncate.Options{
		Line:     t.Line,
		Contains: t.Contains,
		Excludes: t.Excludes,
		Tail:     t.Tail,
	}
}

// Regexp compiles the raw pattern, or builds one from the open and close
// literals.
func (r *Replace) Regexp() (*regexp.Regexp, error) {
	if len(r.Pattern) != 0 {
		return region.Compile(r.Pattern)
	}

	return region.Between(r.Open, r.Close)
}

func (r *Replace) Selector() fragment.Selector {
	return fragment.Selector{Lang: r.FragmentLang, Meta: r.FragmentMeta}
}

func (r *Replace) Fixer(fsys fs.FS) (fix.Fixer, error) {
	re, err := r.Regexp()
	if err != nil {
		return nil, err
	}

	frag, err := fragment.Load(fsys, r.Fragment, r.Selector())
	if err != nil {
		return nil, err
	}

	return &fix.Replace{Pattern: re, Fragment: frag.Code, Origin: frag.Origin(), Limit: r.Limit}, nil
}

var (
	ErrNoSteps         = errors.New("recipe has no steps")
	ErrMissingName     = errors.New("step has no name")
	ErrMissingFile     = errors.New("step has no file")
	ErrMissingFragment = errors.New("replace step has no fragment")
	ErrFixKind         = errors.New("step needs exactly one of balance, replace, truncate")
	ErrOutputWithGlob  = errors.New("output cannot be used with a file pattern")
	ErrUnknownStep     = errors.New("unknown step")
)
