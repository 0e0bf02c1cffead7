// Package qa extracts question/answer pairs from loosely structured text.
package qa

import (
	"regexp"
	"strings"

	"github.com/ky489401/anki-canonical/pkg/markdown"
)

// Pair is a question with its answer.
type Pair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Extras   string `json:"extras,omitempty" yaml:"extras,omitempty"`
	Tags     string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}

// format describes a Q&A layout using three markers:
// the question marker, the answer marker, and the boundary ending an answer.
type format struct {
	question *regexp.Regexp
	answer   *regexp.Regexp
	next     *regexp.Regexp
}

var (
	formatQA = format{
		question: regexp.MustCompile(`Q:\s*`),
		answer:   regexp.MustCompile(`\s*A:\s*`),
		next:     regexp.MustCompile(`\nQ:`),
	}
	flexibleFormats = []format{
		{
			// Q: ... A: ...
			question: regexp.MustCompile(`(?i)Q:\s*`),
			answer:   regexp.MustCompile(`(?i)\s*A:\s*`),
			next:     regexp.MustCompile(`(?i)\nQ:`),
		},
		{
			// Question: ... Answer: ...
			question: regexp.MustCompile(`(?i)Question:\s*`),
			answer:   regexp.MustCompile(`(?i)\s*Answer:\s*`),
			next:     regexp.MustCompile(`(?i)\nQuestion:`),
		},
		{
			// Q1. ... A1. ...
			question: regexp.MustCompile(`(?i)Q\d+[.:]?\s*`),
			answer:   regexp.MustCompile(`(?i)\s*A\d+[.:]?\s*`),
			next:     regexp.MustCompile(`(?i)\nQ\d+`),
		},
		{
			// **Q**: ... **A**: ...
			question: regexp.MustCompile(`(?i)\*\*Q\*\*:\s*`),
			answer:   regexp.MustCompile(`(?i)\s*\*\*A\*\*:\s*`),
			next:     regexp.MustCompile(`(?i)\n\*\*Q\*\*:`),
		},
	}
)

// extract returns all pairs in text. The question ends at the first answer marker
// and the answer runs until the next question marker at the start of a line.
func (f format) extract(text string) []Pair {
	var pairs []Pair
	pos := 0
	for pos < len(text) {
		loc := f.question.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		questionStart := pos + loc[1]
		answerLoc := f.answer.FindStringIndex(text[questionStart:])
		if answerLoc == nil {
			break
		}
		answerStart := questionStart + answerLoc[1]
		end := len(text)
		if nextLoc := f.next.FindStringIndex(text[answerStart:]); nextLoc != nil {
			end = answerStart + nextLoc[0]
		}
		pairs = append(pairs, Pair{
			Question: text[questionStart : questionStart+answerLoc[0]],
			Answer:   text[answerStart:end],
		})
		if end == pos {
			break
		}
		pos = end
	}
	return pairs
}

// ExtractPairs extracts pairs written as "Q: ... A: ...".
func ExtractPairs(text string) []Pair {
	return formatQA.extract(text)
}

// ExtractPairsFlexible tries several layouts (case-insensitive) and returns the
// pairs of the first layout that matches:
// "Q:/A:", "Question:/Answer:", "Q1./A1." and "**Q**:/**A**:".
func ExtractPairsFlexible(text string) []Pair {
	for _, f := range flexibleFormats {
		if pairs := f.extract(text); len(pairs) > 0 {
			return pairs
		}
	}
	return nil
}

type section struct {
	title string
	body  string
}

// ParseMarkdown reads alternating headings: a question heading followed by an
// answer heading whose content is the answer.
//
//	## What is Go?
//	## Answer
//	A programming language.
func ParseMarkdown(text string) []Pair {
	var sections []section
	var body []string
	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].body = strings.Join(body, "\n")
		}
		body = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if ok, title, _ := markdown.IsHeading(line); ok {
			flush()
			sections = append(sections, section{title: title})
			continue
		}
		body = append(body, line)
	}
	flush()

	var pairs []Pair
	for i := 0; i+1 < len(sections); i += 2 {
		pairs = append(pairs, Pair{
			Question: strings.TrimSpace(sections[i].title),
			Answer:   strings.TrimSpace(sections[i+1].body),
		})
	}
	return pairs
}

// ParseFlashcardFormat tries the flexible Q&A layouts then the Markdown layout.
func ParseFlashcardFormat(text string) []Pair {
	if pairs := ExtractPairsFlexible(text); len(pairs) > 0 {
		return pairs
	}
	return ParseMarkdown(text)
}
