package latex

import (
	"regexp"
	"strings"

	"github.com/ky489401/anki-canonical/pkg/markdown"
)

var (
	reCenteredImage = regexp.MustCompile(`\\begin\{center\}\s*\\includegraphics\[max width=\\textwidth\]\{([^}\s]+)\}\s*\\end\{center\}`)
	reProbability   = regexp.MustCompile(`P\([^)]*\)`)
	reMathSpan      = regexp.MustCompile(`(?s)\\[\(\[](.*?)\\[\)\]]`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// FixBlockMath turns block math into single-line inline math (\[..\] => \(..\)).
// The flashcard renderer does not support display math spanning several lines.
func FixBlockMath(text string) string {
	return reBracketBlock.ReplaceAllStringFunc(text, func(span string) string {
		span = strings.ReplaceAll(span, `\[`, `\(`)
		span = strings.ReplaceAll(span, `\]`, `\)`)
		return strings.ReplaceAll(span, "\n", "")
	})
}

// ReplaceCenteredImages replaces a centered full-width image by an <img> tag.
func ReplaceCenteredImages(text string) string {
	return reCenteredImage.ReplaceAllString(text, `<img src="${1}.jpg">`)
}

// SpaceProbabilityComparisons surrounds "<" with spaces inside P(...) expressions
// so that "P(X<a)" is not read as an HTML tag.
func SpaceProbabilityComparisons(text string) string {
	return reProbability.ReplaceAllStringFunc(text, func(expr string) string {
		return strings.ReplaceAll(expr, "<", " < ")
	})
}

// ProcessForAnki prepares raw note content for a flashcard field.
func ProcessForAnki(content string) string {
	content = Transform(content,
		FixBlockMath,
		ReplaceCenteredImages,
		SpaceProbabilityComparisons,
	)
	return strings.ReplaceAll(content, "\n", "<br/>")
}

// EscapeAngleBracketsInMath escapes < and > inside \(..\) and \[..\] spans.
func EscapeAngleBracketsInMath(text string) string {
	return reMathSpan.ReplaceAllStringFunc(text, func(span string) string {
		span = strings.ReplaceAll(span, "<", "&lt;")
		return strings.ReplaceAll(span, ">", "&gt;")
	})
}

// WrapParagraphs converts plain text to basic HTML.
// Blank lines separate paragraphs and remaining newlines become <br>.
func WrapParagraphs(text string) string {
	var html string
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) > 1 {
		var sb strings.Builder
		for _, paragraph := range paragraphs {
			sb.WriteString("<p>" + strings.TrimSpace(paragraph) + "</p>")
		}
		html = sb.String()
	} else {
		html = "<p>" + strings.TrimSpace(text) + "</p>"
	}
	html = strings.ReplaceAll(html, "\n", "<br>\n")
	return "<div>" + html + "</div>"
}

// Paragraphs returns a renderer for plain text notes using WrapParagraphs.
// No Markdown syntax is interpreted.
func Paragraphs() markdown.Renderer {
	return markdown.RendererFunc(func(text string) (string, error) {
		return WrapParagraphs(text), nil
	})
}

// CleanHTML collapses whitespace and escapes isolated angle brackets.
func CleanHTML(html string) string {
	html = reWhitespace.ReplaceAllString(html, " ")
	html = strings.ReplaceAll(html, "< ", "&lt; ")
	html = strings.ReplaceAll(html, " >", " &gt;")
	return strings.TrimSpace(html)
}
