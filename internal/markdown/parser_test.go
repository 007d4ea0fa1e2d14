package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithFrontmatter(t *testing.T) {
	src := []byte("---\ntitle: Hello\n---\n\n# Heading\n\nSome **bold** text.\n")

	html, meta, err := NewParser().ParseWithFrontmatter(src)
	require.NoError(t, err)

	assert.Equal(t, "Hello", meta["title"])
	assert.Contains(t, string(html), `<h1 id="heading">Heading</h1>`)
	assert.Contains(t, string(html), "<strong>bold</strong>")
	assert.NotContains(t, string(html), "title: Hello")
}

func TestParseWithFrontmatter_NoFrontmatter(t *testing.T) {
	html, meta, err := NewParser().ParseWithFrontmatter([]byte("plain"))
	require.NoError(t, err)

	assert.Empty(t, meta)
	assert.Contains(t, string(html), "<p>plain</p>")
}

func TestParse_Table(t *testing.T) {
	html, err := NewParser().Parse([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}
