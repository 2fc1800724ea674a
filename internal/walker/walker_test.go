package walker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-dot-party/assetstamp/internal/rewrite"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<script src="app.js"></script>`)
	writeFile(t, filepath.Join(root, "pages", "about.html"), `<link rel="stylesheet" href="site.css">`)
	writeFile(t, filepath.Join(root, "pages", "plain.html"), `<p>no assets</p>`)
	writeFile(t, filepath.Join(root, "pages", "notes.HTML"), `<script src="app.js"></script>`)
	writeFile(t, filepath.Join(root, "js", "app.js"), `console.log("src=\"x.js\"")`)
	return root
}

func TestWalkCountsUpdatedFiles(t *testing.T) {
	root := newTree(t)
	var out bytes.Buffer

	summary, err := New(root, rewrite.NewStatic("2.0.0"), &out, nil).Walk(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, "static", summary.Mode)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "index.html"),
		filepath.Join(root, "pages", "about.html"),
	}, summary.Files)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Updated: "))
	assert.True(t, strings.HasPrefix(lines[1], "Updated: "))
	assert.Equal(t, "Total files updated: 2", lines[2])

	// uppercase extension and non-HTML files are not touched
	data, err := os.ReadFile(filepath.Join(root, "pages", "notes.HTML"))
	require.NoError(t, err)
	assert.Equal(t, `<script src="app.js"></script>`, string(data))
	data, err = os.ReadFile(filepath.Join(root, "js", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, `console.log("src=\"x.js\"")`, string(data))
}

func TestWalkSecondRunIsNoop(t *testing.T) {
	root := newTree(t)
	w := New(root, rewrite.NewStatic("2.0.0"), nil, nil)

	_, err := w.Walk(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	summary, err := New(root, rewrite.NewStatic("2.0.0"), &out, nil).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, "Total files updated: 0\n", out.String())
}

func TestWalkCustomExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.htm"), `<script src="a.js"></script>`)
	writeFile(t, filepath.Join(root, "b.html"), `<script src="b.js"></script>`)

	summary, err := New(root, rewrite.NewStatic("1"), nil, nil, WithExtension(".htm")).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, []string{filepath.Join(root, "a.htm")}, summary.Files)
}

func TestWalkMissingRoot(t *testing.T) {
	var out bytes.Buffer
	_, err := New(filepath.Join(t.TempDir(), "missing"), rewrite.NewStatic("1"), &out, nil).Walk(context.Background())
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestWalkCancelled(t *testing.T) {
	root := newTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(root, rewrite.NewStatic("2.0.0"), nil, nil).Walk(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Updated)
}

func TestWalkDynamic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"),
		"<head>\n<script src=\"config.js\"></script>\n<script src=\"app.js\"></script>\n</head>")
	writeFile(t, filepath.Join(root, "no-config.html"),
		"<head>\n<script src=\"app.js\"></script>\n</head>")

	summary, err := New(root, rewrite.NewDynamic(rewrite.DynamicOptions{}), nil, nil).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, "dynamic", summary.Mode)
}
