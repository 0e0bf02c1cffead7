package latex

import (
	"fmt"
	"regexp"
	"strings"
)

// DelimiterStyle selects which delimiters define a math span.
type DelimiterStyle int

const (
	// StyleBracket uses \[...\] for block math and \(...\) for inline math.
	StyleBracket DelimiterStyle = iota
	// StyleDollar uses $$...$$ for block math and $...$ for inline math.
	StyleDollar
)

func (s DelimiterStyle) String() string {
	switch s {
	case StyleBracket:
		return "bracket"
	case StyleDollar:
		return "dollar"
	}
	return fmt.Sprintf("DelimiterStyle(%d)", int(s))
}

// ParseDelimiterStyle parses "bracket" or "dollar" (case-insensitive).
func ParseDelimiterStyle(name string) (DelimiterStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bracket", "brackets":
		return StyleBracket, nil
	case "dollar", "dollars":
		return StyleDollar, nil
	}
	return StyleBracket, fmt.Errorf("unknown delimiter style %q", name)
}

var (
	reBracketBlock  = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	reBracketInline = regexp.MustCompile(`\\\((.*?)\\\)`)
	reDollarBlock   = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	// An inline span never crosses a line and is never empty ("$$" is not an empty span).
	reDollarInline = regexp.MustCompile(`\$([^$\n]+?)\$`)
)

// patterns returns the block and inline patterns of the style.
// Both capture the span content in group 1.
func (s DelimiterStyle) patterns() (block *regexp.Regexp, inline *regexp.Regexp) {
	if s == StyleDollar {
		return reDollarBlock, reDollarInline
	}
	return reBracketBlock, reBracketInline
}

// Emission is the re-emission contract applied to restored math spans.
type Emission int

const (
	// EmitBracket rewrites dollar-style spans to the canonical bracket style
	// understood by the flashcard renderer ($$x$$ => \[x\], $x$ => \(x\)).
	// Bracket-style spans are emitted unchanged.
	EmitBracket Emission = iota
	// EmitVerbatim restores every span byte-for-byte.
	EmitVerbatim
)

func (e Emission) String() string {
	switch e {
	case EmitBracket:
		return "bracket"
	case EmitVerbatim:
		return "verbatim"
	}
	return fmt.Sprintf("Emission(%d)", int(e))
}

// canonical rewrites a span captured with the given style into bracket style.
func canonical(span string, kind placeholderKind, style DelimiterStyle) string {
	if style != StyleDollar {
		return span
	}
	block, inline := style.patterns()
	if kind == kindBlock {
		return block.ReplaceAllString(span, `\[${1}\]`)
	}
	return inline.ReplaceAllString(span, `\(${1}\)`)
}
