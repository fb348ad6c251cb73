package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

const globMeta = "*?[{"

// IsPattern reports whether file holds glob syntax.
func IsPattern(file string) bool {
	return strings.ContainsAny(file, globMeta)
}

// Targets resolves file against fsys. Plain paths are returned as they are,
// so a missing file surfaces when it is read. Patterns are matched against
// every regular file below the pattern's static prefix, with "*" not
// crossing "/" and "**" crossing it.
func Targets(fsys fs.FS, file string) ([]string, error) {
	file = path.Clean(file)

	if !IsPattern(file) {
		return []string{file}, nil
	}

	matcher, err := glob.Compile(file, '/')
	if err != nil {
		return nil, fmt.Errorf("file pattern %q: %w", file, err)
	}

	var files []string

	root := staticRoot(file)

	err = fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
		if name == root && errors.Is(err, fs.ErrNotExist) {
			return fs.SkipDir
		}

		if err != nil {
			return err
		}

		if entry.Type().IsRegular() && matcher.Match(name) {
			files = append(files, name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}

func staticRoot(pattern string) string {
	idx := strings.IndexAny(pattern, globMeta)

	return path.Dir(pattern[:idx] + "x")
}
