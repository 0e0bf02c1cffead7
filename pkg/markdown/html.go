package markdown

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
)

func ToHTML(md string) string {
	html := markdown.ToHTML([]byte(md), nil, nil)
	return strings.TrimSpace(string(html))
}

// FromHTML converts card HTML (as stored in Anki) back to Markdown.
func FromHTML(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// HTMLToText extracts the visible text of an HTML snippet.
// Invalid HTML is returned as is.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

// ToText strips Markdown syntax (emphasis, headings, links) and returns the plain text.
func ToText(md string) string {
	return HTMLToText(ToHTML(md))
}
