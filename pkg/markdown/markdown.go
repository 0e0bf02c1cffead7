package markdown

import (
	"strings"
)

// IsHeading returns if a given line is a Markdown heading, its title and its level.
func IsHeading(line string) (bool, string, int) {
	if !strings.HasPrefix(line, "#") {
		return false, "", 0
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		return false, "", 0
	}
	rest := line[level:]
	// "#title" is not a heading but "#" alone is an empty one
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return false, "", 0
	}
	return true, strings.TrimSpace(rest), level
}
