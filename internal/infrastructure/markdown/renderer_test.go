package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRender(t *testing.T) {
	r := NewRenderer()

	t.Run("basic markdown", func(t *testing.T) {
		out, err := r.Render("**bold** and _italic_")
		require.NoError(t, err)
		assert.Contains(t, out, "<strong>bold</strong>")
		assert.Contains(t, out, "<em>italic</em>")
	})

	t.Run("gfm strikethrough", func(t *testing.T) {
		out, err := r.Render("~~gone~~")
		require.NoError(t, err)
		assert.Contains(t, out, "<del>gone</del>")
	})

	t.Run("script tags are stripped", func(t *testing.T) {
		out, err := r.Render("hello <script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "alert(1)")
	})

	t.Run("inline event handlers are stripped", func(t *testing.T) {
		out, err := r.Render(`<a href="https://example.com" onclick="steal()">link</a>`)
		require.NoError(t, err)
		assert.NotContains(t, out, "onclick")
		assert.Contains(t, out, "example.com")
	})

	t.Run("empty source", func(t *testing.T) {
		out, err := r.Render("")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
