package latex

import (
	"fmt"
	"strings"
)

// MarkupError reports placeholders the renderer lost, duplicated or invented.
//
// It is informational: the output produced alongside it is still usable but some
// math spans may be missing or doubled.
type MarkupError struct {
	Missing    []string // tokens absent from the rendered output
	Duplicated []string // tokens present more than once
	Unknown    []string // token-like strings without a stored span
}

func (e *MarkupError) Error() string {
	var problems []string
	if len(e.Missing) > 0 {
		problems = append(problems, fmt.Sprintf("%d placeholder(s) lost (%s)", len(e.Missing), strings.Join(e.Missing, ", ")))
	}
	if len(e.Duplicated) > 0 {
		problems = append(problems, fmt.Sprintf("%d placeholder(s) duplicated (%s)", len(e.Duplicated), strings.Join(e.Duplicated, ", ")))
	}
	if len(e.Unknown) > 0 {
		problems = append(problems, fmt.Sprintf("%d unknown placeholder(s) (%s)", len(e.Unknown), strings.Join(e.Unknown, ", ")))
	}
	return "markup: " + strings.Join(problems, "; ")
}
