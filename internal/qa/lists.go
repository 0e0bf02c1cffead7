package qa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reSyllabusNumber = regexp.MustCompile(`^\d+\.\s*`)
	reListItem       = regexp.MustCompile(`(\d+)\.\s*`)
	reListNext       = regexp.MustCompile(`\n\d+\.`)
	reHTMLQuestion   = regexp.MustCompile(`(?s)<b>Question:</b>(.*?)<ul>`)
	reProblem        = regexp.MustCompile(`(?:\\section\{Problem |Problem )(\d+)\.?\}?`)
	reProblemNext    = regexp.MustCompile(`\n(?:\\section\{Problem |\nProblem \d)`)
	reExtras         = regexp.MustCompile(`(?i)\bextras?\b`)
)

// ParseSyllabus returns the non-blank lines of a syllabus without their numbering.
func ParseSyllabus(text string) []string {
	var sections []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sections = append(sections, strings.TrimSpace(reSyllabusNumber.ReplaceAllString(line, "")))
	}
	return sections
}

// ListItem is an entry of a numbered list.
type ListItem struct {
	Number  string
	Content string
}

// ParseNumberedList splits "1. ... 2. ..." into items.
// An item runs until the next line starting with a number.
func ParseNumberedList(text string) []ListItem {
	var items []ListItem
	pos := 0
	for pos < len(text) {
		loc := reListItem.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[1]
		end := len(text)
		if next := reListNext.FindStringIndex(text[start:]); next != nil {
			end = start + next[0]
		}
		items = append(items, ListItem{
			Number:  text[pos+loc[2] : pos+loc[3]],
			Content: text[start:end],
		})
		if end == pos {
			break
		}
		pos = end
	}
	return items
}

// ExtractQuestionFromHTML returns the text between "<b>Question:</b>" and the following list.
func ExtractQuestionFromHTML(html string) (string, bool) {
	match := reHTMLQuestion.FindStringSubmatch(html)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// RemoveQuestionFromHTML drops the question section, keeping the list that follows.
func RemoveQuestionFromHTML(html string) string {
	return reHTMLQuestion.ReplaceAllLiteralString(html, "<ul>")
}

// Problem is an exercise found in a problem set.
type Problem struct {
	Number  int
	Content string
}

// GetProblems finds exercises introduced by "Problem N" or "\section{Problem N}".
// A problem runs until the next section heading or blank-line separated "Problem".
func GetProblems(text string) []Problem {
	// A trailing newline is not part of the last problem
	limit := len(strings.TrimSuffix(text, "\n"))

	var problems []Problem
	pos := 0
	for pos < limit {
		loc := reProblem.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := min(pos+loc[1], limit)
		end := limit
		if next := reProblemNext.FindStringIndex(text[start:]); next != nil && start+next[0] < end {
			end = start + next[0]
		}
		number, _ := strconv.Atoi(text[pos+loc[2] : pos+loc[3]])
		problems = append(problems, Problem{
			Number:  number,
			Content: text[start:end],
		})
		if end == pos {
			break
		}
		pos = end
	}
	return problems
}

// NumberedProblem is a problem identified by "<chapter>.<number>".
type NumberedProblem struct {
	ID      string
	Content string
}

// AssignChapters numbers problems by chapter. A new chapter starts each time
// the problem number decreases, the first chapter being startingChapter.
func AssignChapters(problems []Problem, startingChapter int) []NumberedProblem {
	chapter := startingChapter - 1
	previous := -1
	var result []NumberedProblem
	for _, p := range problems {
		if previous < 0 || p.Number < previous {
			chapter++
		}
		previous = p.Number
		result = append(result, NumberedProblem{
			ID:      fmt.Sprintf("%d.%d", chapter, p.Number),
			Content: p.Content,
		})
	}
	return result
}

// FilterExtras drops the strings mentioning "extra" or "extras".
func FilterExtras(values []string) []string {
	var result []string
	for _, value := range values {
		if !reExtras.MatchString(value) {
			result = append(result, value)
		}
	}
	return result
}
