package latex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ky489401/anki-canonical/pkg/markdown"
)

// Converter converts Markdown notes containing LaTeX math to HTML.
// Math spans are hidden from the Markdown renderer and restored afterwards.
// The supported LaTeX structures outside math (sections, images, tables, lists)
// are then rewritten as HTML.
type Converter struct {
	renderer   markdown.Renderer
	style      DelimiterStyle
	emission   Emission
	structural bool
}

// NewConverter creates a converter using the given renderer.
// By default, bracket-style delimiters are isolated and restored as bracket-style.
func NewConverter(renderer markdown.Renderer, options ...func(*Converter)) *Converter {
	c := &Converter{
		renderer:   renderer,
		style:      StyleBracket,
		emission:   EmitBracket,
		structural: true,
	}
	for _, option := range options {
		option(c)
	}
	if c.renderer == nil {
		c.renderer = markdown.Gomarkdown()
	}
	return c
}

// WithStyle selects the delimiters recognized as math.
func WithStyle(style DelimiterStyle) func(*Converter) {
	return func(c *Converter) {
		c.style = style
	}
}

// WithEmission selects how math spans are written back.
func WithEmission(emission Emission) func(*Converter) {
	return func(c *Converter) {
		c.emission = emission
	}
}

// WithStructural enables or disables the rewriting of LaTeX structures after restoration.
func WithStructural(enabled bool) func(*Converter) {
	return func(c *Converter) {
		c.structural = enabled
	}
}

func (c *Converter) Style() DelimiterStyle {
	return c.style
}

func (c *Converter) Emission() Emission {
	return c.emission
}

// Convert renders text to HTML.
//
// A *MarkupError is returned with a usable output when the renderer lost or duplicated
// placeholders. Any other error comes from the renderer and no output is returned.
func (c *Converter) Convert(text string) (string, error) {
	isolated, block, inline := Isolate(text, c.style)

	html, err := c.renderer.Render(isolated)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}

	verifyErr := Verify(html, block, inline)

	block = block.WithEmission(c.style, c.emission)
	inline = inline.WithEmission(c.style, c.emission)
	html, restored := restore(html, block, inline)
	if c.structural {
		html, _ = rewriteOutside(html, restored)
		html = unwrapBlocks(html)
	}
	return html, verifyErr
}

var (
	reParagraph    = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	reBlockElement = regexp.MustCompile(`(?s)^<(?:h1|h2|ol)>.*</(?:h1|h2|ol)>$`)
)

// unwrapBlocks removes the paragraph a renderer put around headers and lists
// produced by the structural rewrite.
func unwrapBlocks(html string) string {
	return reParagraph.ReplaceAllStringFunc(html, func(paragraph string) string {
		content := strings.TrimSpace(paragraph[len("<p>") : len(paragraph)-len("</p>")])
		if reBlockElement.MatchString(content) {
			return content
		}
		return paragraph
	})
}
