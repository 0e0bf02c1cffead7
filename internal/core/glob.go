package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

// GlobPath is a gitignore-like pattern. A leading ! negates the pattern.
type GlobPath string

func (g GlobPath) Negate() bool {
	return strings.HasPrefix(string(g), "!")
}

func (g GlobPath) Expr() string {
	return strings.TrimPrefix(string(g), "!")
}

// Match tests a given path. NB: Directories must have a trailing /.
func (g GlobPath) Match(path string) bool {
	// filepath.Match doesn't support ** to match any number of directories.
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	expr := g.Expr()
	leadingSlash := strings.HasPrefix(expr, "/")
	trailingSlash := strings.HasSuffix(expr, "/")
	// Ex: "drafts/" => `/drafts/.*?` to match "drafts/deck.apkg" but not "mydrafts/"
	if !leadingSlash {
		expr = "/" + expr
	}
	if trailingSlash {
		expr = expr + "**/"
	}

	parts := strings.Split(expr, "**/")
	var partsPatterns []string
	for _, part := range parts {
		subparts := strings.Split(part, "*")
		for i, subpart := range subparts {
			subparts[i] = regexp.QuoteMeta(subpart)
		}
		partsPatterns = append(partsPatterns, strings.Join(subparts, "[^/]*?")) // * => [^/]*
	}
	pattern := strings.Join(partsPatterns, ".*?") // ** => .*?

	if leadingSlash {
		pattern = "^" + pattern
	}
	if !trailingSlash {
		pattern += "$"
	}

	rePattern, err := regexp.Compile(pattern)
	if err != nil {
		CurrentLogger().Warnf("Invalid glob pattern %q: %v", g, err)
		return false
	}

	return rePattern.MatchString(path)
}

type GlobPaths []GlobPath

// Match tests if a file path satisfies the conditions.
func (g GlobPaths) Match(path string) bool {
	foundMatch := false
	for _, entry := range g {
		if entry.Match(path) {
			if entry.Negate() {
				// An exclusion matched, the file must no longer be included.
				return false
			}
			foundMatch = true
		}
	}
	return foundMatch
}
