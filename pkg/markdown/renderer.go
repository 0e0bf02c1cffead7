package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts a Markdown document into HTML.
//
// Renderers must leave unknown literal text untouched: the LaTeX pipeline relies
// on placeholder tokens like {BLOCK_LATEX_0} crossing the conversion unchanged.
type Renderer interface {
	Render(md string) (string, error)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(md string) (string, error)

func (f RendererFunc) Render(md string) (string, error) {
	return f(md)
}

// Gomarkdown returns the default renderer, the one used to render flashcards.
func Gomarkdown() Renderer {
	return RendererFunc(func(md string) (string, error) {
		return ToHTML(md), nil
	})
}

// goldmarkParser is a pre-configured goldmark instance with GFM tables.
// Raw HTML must be kept as cards frequently embed <img> tags.
var goldmarkParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// Goldmark returns a CommonMark-compliant renderer.
func Goldmark() Renderer {
	return RendererFunc(func(md string) (string, error) {
		var buf bytes.Buffer
		if err := goldmarkParser.Convert([]byte(md), &buf); err != nil {
			return "", fmt.Errorf("goldmark conversion failed: %w", err)
		}
		return string(bytes.TrimSpace(buf.Bytes())), nil
	})
}

// Identity returns a renderer returning its input unchanged.
func Identity() Renderer {
	return RendererFunc(func(md string) (string, error) {
		return md, nil
	})
}

// RendererByName resolves the names accepted on the command line.
func RendererByName(name string) (Renderer, error) {
	switch name {
	case "", "gomarkdown":
		return Gomarkdown(), nil
	case "goldmark":
		return Goldmark(), nil
	case "none", "identity":
		return Identity(), nil
	}
	return nil, fmt.Errorf("unknown renderer %q", name)
}
