package qa

import (
	"fmt"
	"regexp"
	"strings"
)

var reCloze = regexp.MustCompile(`\{\{c\d+::(.*?)(?:::.*?)?\}\}`)

// ExtractClozeDeletions returns the hidden text of each cloze deletion, hints excluded.
func ExtractClozeDeletions(text string) []string {
	var deletions []string
	for _, match := range reCloze.FindAllStringSubmatch(text, -1) {
		deletions = append(deletions, match[1])
	}
	return deletions
}

// ClozeFromQA turns a pair into cloze text. The answer is hidden inside the
// question when the question contains it, appended to the question otherwise.
func ClozeFromQA(question, answer string, number int) string {
	deletion := fmt.Sprintf("{{c%d::%s}}", number, answer)
	if strings.Contains(strings.ToLower(question), strings.ToLower(answer)) {
		return strings.ReplaceAll(question, answer, deletion)
	}
	return question + " " + deletion
}
