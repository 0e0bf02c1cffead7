package latex

import (
	"regexp"
	"strings"
)

// Restore substitutes placeholder tokens by their original spans.
//
// A token is searched in the block map first, then in the inline map. Tokens without
// a stored span are left as literal text. The output is never rescanned so a restored
// span containing token-like text is emitted as is.
func Restore(html string, block, inline *PlaceholderMap) string {
	restored, _ := restore(html, block, inline)
	return restored
}

// restore is Restore but also reports the byte ranges of the restored spans.
func restore(html string, block, inline *PlaceholderMap) (string, []textRange) {
	re := tokenRegexp(block, inline)
	if re == nil {
		return html, nil
	}
	var sb strings.Builder
	var ranges []textRange
	last := 0
	for _, loc := range re.FindAllStringIndex(html, -1) {
		sb.WriteString(html[last:loc[0]])
		token := html[loc[0]:loc[1]]
		span, ok := block.Lookup(token)
		if !ok {
			span, ok = inline.Lookup(token)
		}
		if !ok {
			sb.WriteString(token)
		} else {
			start := sb.Len()
			sb.WriteString(span)
			ranges = append(ranges, textRange{start, sb.Len()})
		}
		last = loc[1]
	}
	sb.WriteString(html[last:])
	return sb.String(), ranges
}

// Verify checks that every token inserted by Isolate is present exactly once in html.
// It returns nil or a *MarkupError.
func Verify(html string, block, inline *PlaceholderMap) error {
	var err MarkupError
	for _, m := range []*PlaceholderMap{block, inline} {
		if m == nil {
			continue
		}
		for _, token := range m.Tokens() {
			switch strings.Count(html, token) {
			case 0:
				err.Missing = append(err.Missing, token)
			case 1:
			default:
				err.Duplicated = append(err.Duplicated, token)
			}
		}
	}
	if re := tokenRegexp(block, inline); re != nil {
		for _, token := range re.FindAllString(html, -1) {
			_, inBlock := block.Lookup(token)
			_, inInline := inline.Lookup(token)
			if !inBlock && !inInline {
				err.Unknown = append(err.Unknown, token)
			}
		}
	}
	if len(err.Missing) == 0 && len(err.Duplicated) == 0 && len(err.Unknown) == 0 {
		return nil
	}
	return &err
}

func tokenRegexp(maps ...*PlaceholderMap) *regexp.Regexp {
	var alternatives []string
	for _, m := range maps {
		if m != nil {
			alternatives = append(alternatives, m.tokenPattern())
		}
	}
	if len(alternatives) == 0 {
		return nil
	}
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}
