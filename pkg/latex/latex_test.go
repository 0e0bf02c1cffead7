package latex_test

import (
	"errors"
	"testing"

	"github.com/ky489401/anki-canonical/pkg/latex"
	"github.com/ky489401/anki-canonical/pkg/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimiterStyle(t *testing.T) {
	style, err := latex.ParseDelimiterStyle("Dollar")
	require.NoError(t, err)
	assert.Equal(t, latex.StyleDollar, style)

	style, err = latex.ParseDelimiterStyle("bracket")
	require.NoError(t, err)
	assert.Equal(t, latex.StyleBracket, style)

	_, err = latex.ParseDelimiterStyle("parenthesis")
	assert.Error(t, err)
}

func TestIsolate(t *testing.T) {
	var tests = []struct {
		name   string
		text   string
		style  latex.DelimiterStyle
		want   string
		block  map[string]string
		inline map[string]string
	}{
		{
			name:   "bracket",
			text:   `Let \(x\) and \[y\]`,
			style:  latex.StyleBracket,
			want:   "Let {INLINE_LATEX_0} and {BLOCK_LATEX_0}",
			block:  map[string]string{"{BLOCK_LATEX_0}": `\[y\]`},
			inline: map[string]string{"{INLINE_LATEX_0}": `\(x\)`},
		},
		{
			name:   "dollar block before inline",
			text:   "$$a+b$$ and $c$",
			style:  latex.StyleDollar,
			want:   "{BLOCK_LATEX_0} and {INLINE_LATEX_0}",
			block:  map[string]string{"{BLOCK_LATEX_0}": "$$a+b$$"},
			inline: map[string]string{"{INLINE_LATEX_0}": "$c$"},
		},
		{
			name:   "multiline block",
			text:   "\\[\na\n\\] then \\[b\\]",
			style:  latex.StyleBracket,
			want:   "{BLOCK_LATEX_0} then {BLOCK_LATEX_1}",
			block:  map[string]string{"{BLOCK_LATEX_0}": "\\[\na\n\\]", "{BLOCK_LATEX_1}": `\[b\]`},
			inline: map[string]string{},
		},
		{
			name:   "unbalanced",
			text:   `Lone \[ bracket`,
			style:  latex.StyleBracket,
			want:   `Lone \[ bracket`,
			block:  map[string]string{},
			inline: map[string]string{},
		},
		{
			name:   "dollar ignored in bracket style",
			text:   "Costs $5 and $6",
			style:  latex.StyleBracket,
			want:   "Costs $5 and $6",
			block:  map[string]string{},
			inline: map[string]string{},
		},
		{
			name:   "salted prefix",
			text:   `{BLOCK_LATEX_0} \[x\]`,
			style:  latex.StyleBracket,
			want:   "{BLOCK_LATEX_0} {BLOCK_LATEX_1_0}",
			block:  map[string]string{"{BLOCK_LATEX_1_0}": `\[x\]`},
			inline: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, block, inline := latex.Isolate(tt.text, tt.style)
			assert.Equal(t, tt.want, actual)
			assert.Equal(t, tt.block, block.Map())
			assert.Equal(t, tt.inline, inline.Map())
		})
	}
}

func TestIsolateTokensAreUnique(t *testing.T) {
	text := `\(a\) \(b\) \(c\) \[d\] \[e\]`
	_, block, inline := latex.Isolate(text, latex.StyleBracket)

	seen := make(map[string]bool)
	for _, token := range append(block.Tokens(), inline.Tokens()...) {
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
	assert.Len(t, seen, 5)
}

func TestIsolateBlockInsideInline(t *testing.T) {
	isolated, block, inline := latex.Isolate("$a $$b$$ c$ and $$d$$", latex.StyleDollar)
	assert.Equal(t, "{INLINE_LATEX_0} and {BLOCK_LATEX_1}", isolated)
	assert.Equal(t, "$a $$b$$ c$", inline.Span(0))
	// The enclosed block span is not expected in the rendered text anymore
	assert.Equal(t, []string{"{BLOCK_LATEX_1}"}, block.Tokens())
	assert.NoError(t, latex.Verify(isolated, block, inline))
	assert.Equal(t, "$a $$b$$ c$ and $$d$$", latex.Restore(isolated, block, inline))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`Let \(x_1\) and \[\sum_{i=1}^n i\]`,
		"\\[\na\n\\] and \\(b\\)",
		`Lone \[ bracket`,
		`\[{INLINE_LATEX_0}\] \(y\)`,
		"$$a$$ $b$ and $c$",
		"$a $$b$$ c$",
		`\(a \[b\] c\)`,
		"",
	}
	for _, style := range []latex.DelimiterStyle{latex.StyleBracket, latex.StyleDollar} {
		converter := latex.NewConverter(markdown.Identity(), latex.WithStyle(style), latex.WithEmission(latex.EmitVerbatim))
		for _, input := range inputs {
			t.Run(style.String()+"/"+input, func(t *testing.T) {
				actual, err := converter.Convert(input)
				require.NoError(t, err)
				assert.Equal(t, input, actual)
			})
		}
	}
}

func TestRestore(t *testing.T) {
	_, block, inline := latex.Isolate(`\(x\)`, latex.StyleBracket)

	t.Run("Unknown tokens stay literal", func(t *testing.T) {
		assert.Equal(t, `\(x\) {INLINE_LATEX_7}`, latex.Restore("{INLINE_LATEX_0} {INLINE_LATEX_7}", block, inline))
	})

	t.Run("No rescan", func(t *testing.T) {
		_, block, inline := latex.Isolate(`\(a\) \[b\]`, latex.StyleBracket)
		// Restored spans are never searched for tokens again
		html := latex.Restore("{BLOCK_LATEX_0}{INLINE_LATEX_0}", block, inline)
		assert.Equal(t, `\[b\]\(a\)`, html)
	})
}

func TestVerify(t *testing.T) {
	_, block, inline := latex.Isolate(`\(x\) and \[y\]`, latex.StyleBracket)

	assert.NoError(t, latex.Verify("<p>{INLINE_LATEX_0} and {BLOCK_LATEX_0}</p>", block, inline))

	err := latex.Verify("<p>{INLINE_LATEX_0}{INLINE_LATEX_0} {BLOCK_LATEX_3}</p>", block, inline)
	var markupErr *latex.MarkupError
	require.True(t, errors.As(err, &markupErr))
	assert.Equal(t, []string{"{BLOCK_LATEX_0}"}, markupErr.Missing)
	assert.Equal(t, []string{"{INLINE_LATEX_0}"}, markupErr.Duplicated)
	assert.Equal(t, []string{"{BLOCK_LATEX_3}"}, markupErr.Unknown)
	assert.Contains(t, err.Error(), "1 placeholder(s) lost")
}

func TestConvert(t *testing.T) {

	t.Run("Markdown around math", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Gomarkdown())
		html, err := converter.Convert(`Some **bold** and \(a_1 * b_2 * c_3\)`)
		require.NoError(t, err)
		assert.Equal(t, `<p>Some <strong>bold</strong> and \(a_1 * b_2 * c_3\)</p>`, html)
	})

	t.Run("Dollar style emitted as brackets", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Identity(), latex.WithStyle(latex.StyleDollar))
		assert.Equal(t, latex.EmitBracket, converter.Emission())
		html, err := converter.Convert("Area $\\pi r^2$ and $$\nx\n$$")
		require.NoError(t, err)
		assert.Equal(t, "Area \\(\\pi r^2\\) and \\[\nx\n\\]", html)
	})

	t.Run("Dollar style emitted verbatim", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Identity(), latex.WithStyle(latex.StyleDollar), latex.WithEmission(latex.EmitVerbatim))
		html, err := converter.Convert("Area $\\pi r^2$")
		require.NoError(t, err)
		assert.Equal(t, "Area $\\pi r^2$", html)
	})

	t.Run("LaTeX structures", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Gomarkdown())
		html, err := converter.Convert("\\section{Intro}\n\n\\includegraphics[width=3in]{diagram}")
		require.NoError(t, err)
		assert.Contains(t, html, "<h1>Intro</h1>")
		assert.NotContains(t, html, "<p><h1>")
		assert.Contains(t, html, `<img src="diagram.jpg">`)
	})

	t.Run("LaTeX structures with dollar math", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Gomarkdown(), latex.WithStyle(latex.StyleDollar))
		html, err := converter.Convert("\\section{Area}\n\nArea $a_1 * b_2 * c_3$ here")
		require.NoError(t, err)
		assert.Contains(t, html, "<h1>Area</h1>")
		assert.Contains(t, html, `<p>Area \(a_1 * b_2 * c_3\) here</p>`)
	})

	t.Run("Math is never rewritten", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Identity())
		input := `\[A = \begin{array}{cc} 1 & 2 \end{array}\] and \(\end{center}\)`
		html, err := converter.Convert(input)
		require.NoError(t, err)
		assert.Equal(t, input, html)

		converter = latex.NewConverter(markdown.Identity(), latex.WithStyle(latex.StyleDollar))
		html, err = converter.Convert(`$$\begin{array}{c} x \end{array}$$`)
		require.NoError(t, err)
		assert.Equal(t, `\[\begin{array}{c} x \end{array}\]`, html)
	})

	t.Run("Tables absorb math", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Identity())
		html, err := converter.Convert(`\begin{tabular}{c} \(b\) \end{tabular} then \(c\)`)
		require.NoError(t, err)
		assert.Equal(t, `\(\begin{array}{c} b \end{array}\) then \(c\)`, html)
	})

	t.Run("Structural rewrite disabled", func(t *testing.T) {
		converter := latex.NewConverter(markdown.Identity(), latex.WithStructural(false))
		html, err := converter.Convert(`\section{A} \(x\)`)
		require.NoError(t, err)
		assert.Equal(t, `\section{A} \(x\)`, html)
	})

	t.Run("Lossy renderer", func(t *testing.T) {
		lossy := markdown.RendererFunc(func(md string) (string, error) {
			return "<p>nothing</p>", nil
		})
		html, err := latex.NewConverter(lossy).Convert(`\(x\)`)
		var markupErr *latex.MarkupError
		require.True(t, errors.As(err, &markupErr))
		assert.Equal(t, []string{"{INLINE_LATEX_0}"}, markupErr.Missing)
		assert.Equal(t, "<p>nothing</p>", html)
	})

	t.Run("Failing renderer", func(t *testing.T) {
		errBoom := errors.New("boom")
		failing := markdown.RendererFunc(func(md string) (string, error) {
			return "", errBoom
		})
		_, err := latex.NewConverter(failing).Convert(`\(x\)`)
		assert.ErrorIs(t, err, errBoom)
		assert.Panics(t, func() {
			latex.NewConverter(failing).MustConvert("x")
		})
	})
}
