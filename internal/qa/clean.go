package qa

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
	reBold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic     = regexp.MustCompile(`\*(.*?)\*`)
	reCode       = regexp.MustCompile("`(.*?)`")
)

// MinLength is the minimal number of characters of a valid question or answer.
const MinLength = 3

// CleanText collapses whitespace and removes HTML tags and Markdown emphasis.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = reWhitespace.ReplaceAllString(text, " ")
	text = reHTMLTag.ReplaceAllString(text, "")
	text = reBold.ReplaceAllString(text, "${1}")
	text = reItalic.ReplaceAllString(text, "${1}")
	text = reCode.ReplaceAllString(text, "${1}")
	return strings.TrimSpace(text)
}

// ValidatePairs cleans pairs and drops the short ones and the duplicates.
// Tags and source of the kept pairs are preserved.
func ValidatePairs(pairs []Pair) []Pair {
	seen := make(map[[2]string]bool)
	var valid []Pair
	for _, pair := range pairs {
		pair.Question = CleanText(pair.Question)
		pair.Answer = CleanText(pair.Answer)
		if utf8.RuneCountInString(pair.Question) < MinLength || utf8.RuneCountInString(pair.Answer) < MinLength {
			continue
		}
		key := [2]string{pair.Question, pair.Answer}
		if seen[key] {
			continue
		}
		seen[key] = true
		valid = append(valid, pair)
	}
	return valid
}
