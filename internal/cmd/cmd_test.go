package cmd

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/ezerfernandes/tagfix/internal/document"
	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersPage = `const CustomersPage = () => {
  return (
    <div>
      {/* points modal */}
        {showPointsModal && (<div className="modal">
          <div className="modal-box">
            <h3>Points</h3>
          </div>
        </div>
    </div>
  );
};
`

const usersPageFixed = `const CustomersPage = () => {
  return (
    <div>
      {/* points modal */}
        {showPointsModal && (<div className="modal">
          <div className="modal-box">
            <h3>Points</h3>
          </div>
        </div>
      )}
    </div>
  );
};
`

var balanceArgs = []string{
	"balance", "UsersPage.jsx",
	"--marker", "{/* points modal */}",
	"--open", "{showPointsModal && (",
	"--closing", "      )}",
}

type harness struct {
	t      *testing.T
	fsys   *memoryfs.FS
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()

	h := &harness{t: t, fsys: memoryfs.New()}

	for name, content := range files {
		require.NoError(t, h.fsys.WriteFile(name, []byte(content), 0o644))
	}

	return h
}

func (h *harness) run(args ...string) error {
	h.t.Helper()

	opts := newOptions()
	opts.openFS = func(string) document.FS { return h.fsys }

	return execute(opts, args, &h.stdout, &h.stderr)
}

func (h *harness) file(name string) string {
	h.t.Helper()

	data, err := fs.ReadFile(h.fsys, name)
	require.NoError(h.t, err)

	return string(data)
}

func TestBalanceCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	require.NoError(t, h.run(balanceArgs...))
	assert.Equal(t, usersPageFixed, h.file("UsersPage.jsx"))
	assert.Contains(t, h.stdout.String(), "applied")
	assert.Contains(t, h.stdout.String(), "closed 1 block(s) after line 9")
	assert.Contains(t, h.stderr.String(), "fixed")
}

func TestBalanceCommandMarkerMissing(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": "<div></div>\n"})

	err := h.run(balanceArgs...)
	require.ErrorIs(t, err, errNotApplied)
	assert.Equal(t, "<div></div>\n", h.file("UsersPage.jsx"))
	assert.Contains(t, h.stdout.String(), "not applied")
	assert.Contains(t, h.stdout.String(), "marker not found")
	assert.Contains(t, h.stderr.String(), "1 of 1 fix(es) not applied")
}

func TestBalanceCommandDryRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	require.NoError(t, h.run(append(balanceArgs, "--dry-run", "--quiet")...))
	assert.Equal(t, usersPage, h.file("UsersPage.jsx"))
	assert.Contains(t, h.stdout.String(), usersPageFixed)
	assert.Empty(t, h.stderr.String())
}

func TestBalanceCommandOutput(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	require.NoError(t, h.run(append(balanceArgs, "-q", "-o", "Fixed.jsx")...))
	assert.Equal(t, usersPage, h.file("UsersPage.jsx"))
	assert.Equal(t, usersPageFixed, h.file("Fixed.jsx"))
}

func TestBalanceCommandRequiredFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	err := h.run("balance", "UsersPage.jsx", "--marker", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing")
	assert.Equal(t, usersPage, h.file("UsersPage.jsx"))
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	err := h.run(balanceArgs...)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCheckFailureRestores(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	err := h.run(append(balanceArgs, "--check", "exit 3")...)
	require.ErrorIs(t, err, errNotApplied)
	assert.Equal(t, usersPage, h.file("UsersPage.jsx"))
	assert.Contains(t, h.stdout.String(), "check failed")
	assert.Contains(t, h.stdout.String(), "check exited with 3")
}

func TestCheckSuccessKeeps(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": usersPage})

	require.NoError(t, h.run(append(balanceArgs, "-q", "--check", "test -n {name}")...))
	assert.Equal(t, usersPageFixed, h.file("UsersPage.jsx"))
}

const shopPage = `<div className="card">
  <div className="overflow-x-auto">
    <table className="table table-zebra w-full">
      <tbody>{rows}</tbody>
    </table>
  </div>
</div>
`

const fragments = "```jsx name=table\n<ProductGrid products={products} />\n```\n"

func TestReplaceCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"ShopPage.jsx": shopPage, "fragments.md": fragments})

	require.NoError(t, h.run(
		"-q", "replace", "ShopPage.jsx",
		"--open", `<div className="overflow-x-auto">`,
		"--open", `<table className="table table-zebra w-full">`,
		"--close", "</table>", "--close", "</div>",
		"--fragment", "fragments.md", "--fragment-meta", "name=table",
	))
	assert.Equal(t, "<div className=\"card\">\n  <ProductGrid products={products} />\n\n</div>\n", h.file("ShopPage.jsx"))
}

func TestReplaceCommandPattern(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"ShopPage.jsx": shopPage, "row.jsx": "<tbody />"})

	require.NoError(t, h.run("-q", "replace", "ShopPage.jsx", "--pattern", `<tbody>.*?</tbody>`, "-f", "row.jsx"))
	assert.Contains(t, h.file("ShopPage.jsx"), "      <tbody />\n")

	err := h.run("-q", "replace", "ShopPage.jsx", "--pattern", `<thead>.*?</thead>`, "-f", "row.jsx")
	require.ErrorIs(t, err, errNotApplied)
}

func TestReplaceCommandFlagConflict(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"ShopPage.jsx": shopPage, "row.jsx": "x"})

	err := h.run("replace", "ShopPage.jsx", "--pattern", "a", "--open", "b", "--close", "c", "-f", "row.jsx")
	require.Error(t, err)

	err = h.run("replace", "ShopPage.jsx", "-f", "row.jsx")
	require.Error(t, err)
}

func TestTruncateCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"UsersPage.jsx": "a\n)}</div>\n  )}\nbroken\n"})

	require.NoError(t, h.run(
		"-q", "truncate", "UsersPage.jsx", "--line", "2",
		"--contains", ")}", "--exclude", "</div>",
		"--tail", "};", "--tail", "", "--tail", "export default CustomersPage;",
	))
	assert.Equal(t, "a\n)}</div>\n};\n\nexport default CustomersPage;", h.file("UsersPage.jsx"))
}
