package markdown_test

import (
	"testing"

	"github.com/ky489401/anki-canonical/pkg/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHeading(t *testing.T) {
	var tests = []struct {
		line  string
		ok    bool
		title string
		level int
	}{
		{"# Title", true, "Title", 1},
		{"### Sub title ", true, "Sub title", 3},
		{"#hashtag", false, "", 0},
		{"Not a heading", false, "", 0},
		{"####### Too deep", false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ok, title, level := markdown.IsHeading(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestRenderers(t *testing.T) {
	md := "Some **bold** text and {INLINE_LATEX_0}"

	t.Run("Gomarkdown", func(t *testing.T) {
		html, err := markdown.Gomarkdown().Render(md)
		require.NoError(t, err)
		assert.Equal(t, "<p>Some <strong>bold</strong> text and {INLINE_LATEX_0}</p>", html)
	})

	t.Run("Goldmark", func(t *testing.T) {
		html, err := markdown.Goldmark().Render(md)
		require.NoError(t, err)
		assert.Equal(t, "<p>Some <strong>bold</strong> text and {INLINE_LATEX_0}</p>", html)
	})

	t.Run("Identity", func(t *testing.T) {
		html, err := markdown.Identity().Render(md)
		require.NoError(t, err)
		assert.Equal(t, md, html)
	})
}

func TestRendererByName(t *testing.T) {
	for _, name := range []string{"", "gomarkdown", "goldmark", "identity"} {
		r, err := markdown.RendererByName(name)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}
	_, err := markdown.RendererByName("mistune")
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "What is Go?", markdown.HTMLToText("<div><b>What</b> is <i>Go</i>?</div>"))
	assert.Equal(t, "", markdown.HTMLToText(""))
}

func TestFromHTML(t *testing.T) {
	md, err := markdown.FromHTML("<p>A <strong>bold</strong> answer</p>")
	require.NoError(t, err)
	assert.Equal(t, "A **bold** answer", md)

	md, err = markdown.FromHTML("  ")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestToText(t *testing.T) {
	assert.Equal(t, "Some bold text with a link.", markdown.ToText("Some **bold** text with [a link](https://example.com)."))
}
