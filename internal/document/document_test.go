package document_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/require"
)

func TestSplitJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		lines   document.Document
	}{
		{name: "empty", content: "", lines: document.Document{""}},
		{name: "single", content: "a", lines: document.Document{"a"}},
		{name: "trailing_newline", content: "a\nb\n", lines: document.Document{"a", "b", ""}},
		{name: "crlf_kept", content: "a\r\nb", lines: document.Document{"a\r", "b"}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines := document.Split(tt.content)
			require.Equal(t, tt.lines, lines)
			require.Equal(t, tt.content, lines.Join())
		})
	}
}

func TestSplitEnding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		lines   document.Document
		ending  document.Ending
	}{
		{name: "lf", content: "a\nb\n", lines: document.Document{"a", "b", ""}, ending: document.LF},
		{name: "crlf", content: "a\r\nb\r\n", lines: document.Document{"a", "b", ""}, ending: document.CRLF},
		{name: "no_terminator", content: "a", lines: document.Document{"a"}, ending: document.LF},
		{name: "mixed_follows_first", content: "a\r\nb\nc", lines: document.Document{"a", "b\nc"}, ending: document.CRLF},
		{name: "leading_newline", content: "\nb\r\n", lines: document.Document{"", "b\r", ""}, ending: document.LF},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines, ending := document.SplitEnding(tt.content)
			require.Equal(t, tt.lines, lines)
			require.Equal(t, tt.ending, ending)
			require.Equal(t, tt.content, lines.JoinEnding(ending))
		})
	}
}

func TestLoadSaveMemory(t *testing.T) {
	t.Parallel()

	mfs := memoryfs.New()
	require.NoError(t, mfs.WriteFile("page.jsx", []byte("<div>\n</div>\n"), 0o644))

	doc, err := document.Load(mfs, "page.jsx")
	require.NoError(t, err)
	require.Equal(t, document.Document{"<div>", "</div>", ""}, doc)

	doc = append(document.Document{"// fixed"}, doc...)
	require.NoError(t, document.Save(mfs, "page.jsx", doc))

	data, err := fs.ReadFile(mfs, "page.jsx")
	require.NoError(t, err)
	require.Equal(t, "// fixed\n<div>\n</div>\n", string(data))
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	_, err := document.Load(memoryfs.New(), "missing.jsx")
	require.Error(t, err)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Contains(t, err.Error(), "missing.jsx")
}

func TestDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	fsys := document.Dir(root)
	require.NoError(t, document.WriteString(fsys, "src/a.jsx", "x\ny"))

	doc, err := document.Load(fsys, "src/a.jsx")
	require.NoError(t, err)
	require.Equal(t, document.Document{"x", "y"}, doc)

	err = fsys.WriteFile("../escape.jsx", nil, 0o644)
	require.ErrorIs(t, err, fs.ErrInvalid)
}
