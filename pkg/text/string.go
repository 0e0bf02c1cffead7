package text

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// IsBlank returns if a text is blank.
func IsBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}

// TrimExtension removes the extension from a file name or file path.
func TrimExtension(path string) string {
	path = strings.TrimSuffix(path, string(filepath.Separator))
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// CountWords returns the number of whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountCharacters returns the number of characters, optionally ignoring spaces.
func CountCharacters(text string, includeSpaces bool) int {
	if !includeSpaces {
		text = strings.ReplaceAll(text, " ", "")
	}
	return utf8.RuneCountInString(text)
}
