package latex

import (
	"regexp"
	"strconv"
	"strings"
)

type placeholderKind string

const (
	kindBlock  placeholderKind = "BLOCK_LATEX_"
	kindInline placeholderKind = "INLINE_LATEX_"
)

// PlaceholderMap maps placeholder tokens to the original math spans they replace.
//
// Tokens look like {BLOCK_LATEX_0}: braces and capitals are inert for Markdown renderers
// and the numeric suffix is the insertion index. When the text being converted already
// contains the default prefix, a salted prefix ({BLOCK_LATEX_1_0}) is used instead so that
// a token never collides with the input.
type PlaceholderMap struct {
	kind   placeholderKind
	prefix string
	spans  []string
	nested map[int]bool // Spans folded back into an enclosing span of the other map
}

// newPlaceholderMap creates an empty map whose tokens cannot be found in text.
func newPlaceholderMap(kind placeholderKind, text string) *PlaceholderMap {
	prefix := string(kind)
	for salt := 1; strings.Contains(text, "{"+prefix); salt++ {
		prefix = string(kind) + strconv.Itoa(salt) + "_"
	}
	return &PlaceholderMap{
		kind:   kind,
		prefix: prefix,
	}
}

// Add stores a span and returns its freshly minted token.
func (m *PlaceholderMap) Add(span string) string {
	token := m.Token(len(m.spans))
	m.spans = append(m.spans, span)
	return token
}

// Token returns the token of the i-th span.
func (m *PlaceholderMap) Token(i int) string {
	return "{" + m.prefix + strconv.Itoa(i) + "}"
}

// Len returns the number of stored spans.
func (m *PlaceholderMap) Len() int {
	return len(m.spans)
}

// Span returns the original text of the i-th span.
func (m *PlaceholderMap) Span(i int) string {
	return m.spans[i]
}

// Tokens returns the tokens expected in the isolated text, in insertion order.
// Tokens absorbed by an enclosing span are excluded.
func (m *PlaceholderMap) Tokens() []string {
	tokens := make([]string, 0, len(m.spans))
	for i := range m.spans {
		if m.nested[i] {
			continue
		}
		tokens = append(tokens, m.Token(i))
	}
	return tokens
}

// Lookup returns the span stored for a token.
func (m *PlaceholderMap) Lookup(token string) (string, bool) {
	i, ok := m.index(token)
	if !ok {
		return "", false
	}
	return m.spans[i], true
}

func (m *PlaceholderMap) index(token string) (int, bool) {
	if m == nil {
		return 0, false
	}
	start := "{" + m.prefix
	if !strings.HasPrefix(token, start) || !strings.HasSuffix(token, "}") {
		return 0, false
	}
	digits := token[len(start) : len(token)-1]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	i, err := strconv.Atoi(digits)
	if err != nil || i >= len(m.spans) {
		return 0, false
	}
	return i, true
}

// absorb expands the tokens of this map found in span back to their original text.
// The expanded spans now belong to the enclosing span and are no longer expected
// in the isolated text.
func (m *PlaceholderMap) absorb(span string) string {
	if len(m.spans) == 0 {
		return span
	}
	return regexp.MustCompile(m.tokenPattern()).ReplaceAllStringFunc(span, func(token string) string {
		i, ok := m.index(token)
		if !ok {
			return token
		}
		if m.nested == nil {
			m.nested = make(map[int]bool)
		}
		m.nested[i] = true
		return m.spans[i]
	})
}

// Map returns a copy of the content as a plain Go map.
func (m *PlaceholderMap) Map() map[string]string {
	result := make(map[string]string, len(m.spans))
	for i, span := range m.spans {
		result[m.Token(i)] = span
	}
	return result
}

// mapSpans returns a new map with the same tokens and rewritten spans.
func (m *PlaceholderMap) mapSpans(fn func(span string) string) *PlaceholderMap {
	result := &PlaceholderMap{
		kind:   m.kind,
		prefix: m.prefix,
		spans:  make([]string, len(m.spans)),
		nested: m.nested,
	}
	for i, span := range m.spans {
		result.spans[i] = fn(span)
	}
	return result
}

// tokenPattern matches any token syntax of this map, known or not.
func (m *PlaceholderMap) tokenPattern() string {
	return regexp.QuoteMeta("{"+m.prefix) + `\d+\}`
}

// WithEmission returns the map with spans re-emitted according to the contract.
// The style must be the one used during isolation.
func (m *PlaceholderMap) WithEmission(style DelimiterStyle, emission Emission) *PlaceholderMap {
	if emission == EmitVerbatim || style == StyleBracket {
		return m
	}
	return m.mapSpans(func(span string) string {
		return canonical(span, m.kind, style)
	})
}
