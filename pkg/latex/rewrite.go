package latex

import (
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// Transformer rewrites a LaTeX snippet.
type Transformer func(text string) string

// Transform applies transformers successively.
func Transform(text string, transformers ...Transformer) string {
	result := text
	for _, transformer := range transformers {
		result = transformer(result)
	}
	return result
}

// Span is a region of text matched by a structural rule.
type Span struct {
	Text   string   // Whole match
	Groups []string // Capture groups (empty string for a group that did not participate)
}

// Rule rewrites every non-overlapping match of a pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Rewrite func(span Span) string
}

// Find returns the spans matched by the rule.
func (r Rule) Find(text string) []Span {
	var spans []Span
	for _, loc := range r.Pattern.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, newSpan(text, loc))
	}
	return spans
}

// Apply rewrites all matches of the rule.
func (r Rule) Apply(text string) string {
	locs := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(text[last:loc[0]])
		sb.WriteString(r.Rewrite(newSpan(text, loc)))
		last = loc[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// textRange is the half-open byte range [start, end) of a text.
type textRange struct {
	start, end int
}

// guards reports whether the match [start, end) lies inside r or straddles one of its bounds.
// A match enclosing the whole of r is not guarded.
func (r textRange) guards(start, end int) bool {
	if start >= r.start && end <= r.end {
		return true
	}
	return (start > r.start && start < r.end) || (end > r.start && end < r.end)
}

// applyOutside is Apply for a text whose protected ranges must stay intact.
// Ranges are sorted and disjoint. A match enclosing a protected range consumes it.
// The returned ranges are shifted to the rewritten text.
func (r Rule) applyOutside(text string, protected []textRange) (string, []textRange) {
	locs := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, protected
	}
	var sb strings.Builder
	var ranges []textRange
	last, j := 0, 0
	for _, loc := range locs {
		if slices.ContainsFunc(protected, func(p textRange) bool { return p.guards(loc[0], loc[1]) }) {
			continue
		}
		shift := sb.Len() - last
		sb.WriteString(text[last:loc[0]])
		for ; j < len(protected) && protected[j].start < loc[0]; j++ {
			ranges = append(ranges, textRange{protected[j].start + shift, protected[j].end + shift})
		}
		for j < len(protected) && protected[j].end <= loc[1] {
			j++
		}
		sb.WriteString(r.Rewrite(newSpan(text, loc)))
		last = loc[1]
	}
	shift := sb.Len() - last
	sb.WriteString(text[last:])
	for ; j < len(protected); j++ {
		ranges = append(ranges, textRange{protected[j].start + shift, protected[j].end + shift})
	}
	return sb.String(), ranges
}

func newSpan(text string, loc []int) Span {
	span := Span{Text: text[loc[0]:loc[1]]}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			span.Groups = append(span.Groups, "")
			continue
		}
		span.Groups = append(span.Groups, text[loc[i]:loc[i+1]])
	}
	return span
}

// template returns a Rewrite expanding $1-like references against the span.
func template(pattern *regexp.Regexp, tmpl string) func(Span) string {
	return func(span Span) string {
		return pattern.ReplaceAllString(span.Text, tmpl)
	}
}

/*
 * Rules
 */

var (
	reImage     = regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]*)\}`)
	reTabular   = regexp.MustCompile(`(?s)(?:\\\()?\\begin\{tabular\}.*?\\end\{tabular\}(?:\\\))?`)
	reArray     = regexp.MustCompile(`(?s)(?:\\\()?\\begin\{array\}.*?\\end\{array\}(?:\\\))?`)
	reCenter    = regexp.MustCompile(`(?s)\\begin\{center\}(.*?)\\end\{center\}`)
	reEnumerate = regexp.MustCompile(`(?s)\\begin\{enumerate\}(.*?)\\end\{enumerate\}`)
	reItem      = regexp.MustCompile(`\\item\b`)
	reSection   = regexp.MustCompile(`\\section\*?\{([^}]*)\}`)
	reSubsect   = regexp.MustCompile(`\\subsection\*?\{([^}]*)\}`)
	reStrayEnd  = regexp.MustCompile(`\\end\{(?:enumerate|center|document)\}`)
)

// ImageRule turns \includegraphics[...]{name} into an <img> tag. Media are always exported as JPEG.
var ImageRule = Rule{
	Name:    "image",
	Pattern: reImage,
	Rewrite: template(reImage, `<img src="${1}.jpg">`),
}

// TabularRule and ArrayRule rewrite a table as a single inline math array.
var (
	TabularRule = Rule{
		Name:    "tabular",
		Pattern: reTabular,
		Rewrite: rewriteTable,
	}
	ArrayRule = Rule{
		Name:    "array",
		Pattern: reArray,
		Rewrite: rewriteTable,
	}
)

var tableCleaner = strings.NewReplacer(
	"tabular", "array",
	"\n", " ",
	"$", "",
	`\(`, "",
	`\)`, "",
)

func rewriteTable(span Span) string {
	return `\(` + tableCleaner.Replace(span.Text) + `\)`
}

var CenterRule = Rule{
	Name:    "center",
	Pattern: reCenter,
	Rewrite: template(reCenter, `<div><p style="text-align:center;">${1}</p></div>`),
}

// EnumerateRule turns an enumerate environment into an ordered list.
// Text before the first \item is dropped.
var EnumerateRule = Rule{
	Name:    "enumerate",
	Pattern: reEnumerate,
	Rewrite: func(span Span) string {
		items := reItem.Split(span.Groups[0], -1)
		var sb strings.Builder
		sb.WriteString("<ol>\n")
		for _, item := range items[1:] {
			sb.WriteString("  <li>")
			sb.WriteString(strings.TrimSpace(item))
			sb.WriteString("</li>\n")
		}
		sb.WriteString("</ol>")
		return sb.String()
	},
}

var (
	SectionRule = Rule{
		Name:    "section",
		Pattern: reSection,
		Rewrite: template(reSection, `<h1>${1}</h1>`),
	}
	SubsectionRule = Rule{
		Name:    "subsection",
		Pattern: reSubsect,
		Rewrite: template(reSubsect, `<h2>${1}</h2>`),
	}
)

var StrayEndRule = Rule{
	Name:    "stray-end",
	Pattern: reStrayEnd,
	Rewrite: func(Span) string { return "" },
}

// structuralRules lists the rules of Rewrite in application order.
var structuralRules = []Rule{
	ImageRule,
	TabularRule,
	ArrayRule,
	CenterRule,
	EnumerateRule,
	SectionRule,
	SubsectionRule,
	StrayEndRule,
}

/*
 * Transformers
 */

// Rewrite converts the supported LaTeX structures to HTML.
// Math delimiters are left as they are.
func Rewrite(text string) string {
	result, _ := rewriteOutside(text, nil)
	return result
}

// rewriteOutside is Rewrite leaving the protected ranges untouched.
func rewriteOutside(text string, protected []textRange) (string, []textRange) {
	for _, rule := range structuralRules {
		text, protected = rule.applyOutside(text, protected)
	}
	return text, protected
}

// NormalizeMathDelimiters rewrites $$x$$ and $x$ as \(x\).
func NormalizeMathDelimiters(text string) string {
	result := reDollarBlock.ReplaceAllString(text, `\(${1}\)`)
	return reDollarInline.ReplaceAllString(result, `\(${1}\)`)
}

// ConvertImages replaces \includegraphics commands by <img> tags.
func ConvertImages(text string) string {
	return ImageRule.Apply(text)
}

// ConvertTables rewrites tabular and array environments as inline math arrays.
// Only the innermost environment is matched; nested tables are not supported.
func ConvertTables(text string) string {
	return ArrayRule.Apply(TabularRule.Apply(text))
}

// ConvertCenter wraps center environments in a centered paragraph.
func ConvertCenter(text string) string {
	return CenterRule.Apply(text)
}

// ConvertEnumerate replaces enumerate environments by <ol> lists.
func ConvertEnumerate(text string) string {
	return EnumerateRule.Apply(text)
}

// ConvertHeaders replaces \section and \subsection by <h1> and <h2>.
func ConvertHeaders(text string) string {
	return SubsectionRule.Apply(SectionRule.Apply(text))
}

// StripStrayEnds removes \end commands left without their \begin.
func StripStrayEnds(text string) string {
	return StrayEndRule.Apply(text)
}
