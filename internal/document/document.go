// Package document loads, splits and saves text files as ordered lines.
package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const fileMode = 0o644

// Document is a text file as an ordered sequence of lines, without line
// terminators.
type Document []string

// Ending is a line terminator.
type Ending string

const (
	LF   Ending = "\n"
	CRLF Ending = "\r\n"
)

// DetectEnding returns the terminator of the first line of content, LF when
// there is none.
func DetectEnding(content string) Ending {
	idx := strings.IndexByte(content, '\n')
	if idx > 0 && content[idx-1] == '\r' {
		return CRLF
	}

	return LF
}

// Split breaks content into lines on "\n". A trailing newline produces a
// final empty line, so Split and Join round-trip exactly.
func Split(content string) Document {
	return strings.Split(content, "\n")
}

// SplitEnding breaks content into lines on the terminator of its first line,
// so inserted lines can be joined back with the same terminator. Content
// mixing terminators keeps the minority ones inside its lines.
func SplitEnding(content string) (Document, Ending) {
	ending := DetectEnding(content)

	return strings.Split(content, string(ending)), ending
}

// Join concatenates the lines with "\n".
func (d Document) Join() string {
	return d.JoinEnding(LF)
}

// JoinEnding concatenates the lines with the given terminator.
func (d Document) JoinEnding(ending Ending) string {
	return strings.Join(d, string(ending))
}

// FS is a file system that can also write files.
type FS interface {
	fs.FS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

type dirFS struct {
	fs.FS
	root string
}

// Dir returns an FS rooted at the given directory of the host file system.
func Dir(root string) FS {
	return &dirFS{FS: os.DirFS(root), root: root}
}

func (d *dirFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}

	return os.WriteFile(filepath.Join(d.root, filepath.FromSlash(name)), data, perm)
}

// ReadString returns the content of name.
func ReadString(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	return string(data), nil
}

// Load reads name and splits it into lines.
func Load(fsys fs.FS, name string) (Document, error) {
	content, err := ReadString(fsys, name)
	if err != nil {
		return nil, err
	}

	return Split(content), nil
}

// Save joins doc and overwrites name with it.
func Save(fsys FS, name string, doc Document) error {
	return WriteString(fsys, name, doc.Join())
}

// WriteString overwrites name with content.
func WriteString(fsys FS, name string, content string) error {
	if err := fsys.WriteFile(name, []byte(content), fileMode); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
