package latex

// Isolate replaces math spans by placeholder tokens before a Markdown conversion.
//
// Block spans are replaced first so that $$x$$ is never read as two inline spans.
// Matching is shortest-match between delimiters and block spans may span several lines.
// Unterminated delimiters are left untouched. A block span enclosed by an inline span
// (as in $a $$b$$ c$) becomes part of the inline span.
func Isolate(text string, style DelimiterStyle) (string, *PlaceholderMap, *PlaceholderMap) {
	block := newPlaceholderMap(kindBlock, text)
	inline := newPlaceholderMap(kindInline, text)

	blockPattern, inlinePattern := style.patterns()
	result := blockPattern.ReplaceAllStringFunc(text, block.Add)
	result = inlinePattern.ReplaceAllStringFunc(result, func(span string) string {
		return inline.Add(block.absorb(span))
	})

	return result, block, inline
}
