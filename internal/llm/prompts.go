package llm

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const bulletFormat = `- **First level item 1**
  - **Second level item 1.1**: ...
  - **Second level item 1.2**: ...
  ...
`

const summarySystemPrompt = `Write a concise bullet point summary of the given text in markdown. ` +
	`Section headers also start with a bullet. ` +
	`Put the bullet point summary into the field "body". ` +
	`Then write a two-line summary and put it into the field "short_summary". ` +
	`Give the card a title in the field "title".

Follow this format for the body:

` + bulletFormat + `
Reply with a single JSON object with the keys "title", "body" and "short_summary".`

const duplicatesSystemPrompt = `You are given the summaries of duplicated Anki cards in markdown. Bold words as necessary. ` +
	`Rewrite them into a single summary while preserving the original wording. ` +
	`Remove duplicated items/concepts and rearrange items only if necessary so that the flow is improved.

Section headers also start with a bullet. Follow this format:

` + bulletFormat

const rankingUserPrompt = `Given the following Anki card titles from a course, rank them based on their natural material order.
- Identify if any cards cover the same or highly similar material and mark them as duplicates.
- Place duplicates next to each other in terms of ranking and mark them (both the duplicate and the original) as is_duplicate.
- Assign a broad topic to each card.

Anki Card Titles:
{{.titles}}

Reply with a single JSON object {"ranked_list": [...]} where each item has the keys
"rank", "title", "card_number", "topic", "is_duplicate", "duplicate_group" and "duplicate_of".`

var (
	summaryTemplate = prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(summarySystemPrompt),
		schema.UserMessage("{{.text}}"),
	)
	duplicatesTemplate = prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(duplicatesSystemPrompt),
		schema.UserMessage("{{.text}}"),
	)
	rankingTemplate = prompt.FromMessages(schema.GoTemplate,
		schema.UserMessage(rankingUserPrompt),
	)
)

// BuildQAPrompt asks for interview questions about a section of a topic,
// answered in the "Q: ... A: ..." format.
func BuildQAPrompt(section, topic string) string {
	return fmt.Sprintf(`
Generate an extremely detailed list of interview questions and answers on the topic: %s ------ %s
Keep the questions broad rather than overly specific.

Write answers in bullet points.
Answers should be intuitive and beginner/intermediate friendly, but avoid using metaphors unnecessarily.

Use ONLY this format with NO markdown:
Q: [Your question here]
A: [Detailed answer here with code examples if needed]

Keep everything strictly in this Q: ... A: ... format.
`, topic, section)
}

func buildEnhancePrompt(question, answer string) string {
	return fmt.Sprintf(`
Improve this Q&A pair by making the question more precise and the answer more comprehensive:

Original Question: %s
Original Answer: %s

Provide an improved version that:
1. Makes the question clearer and more specific
2. Enhances the answer with better structure and examples
3. Maintains the same core content

Format:
Q: [Improved question]
A: [Improved answer]
`, question, answer)
}

// StudySchedulePrompt asks for a study plan covering the topics over a number of days.
func StudySchedulePrompt(topics []string, days int) string {
	return fmt.Sprintf(`
Create a %d-day study schedule for the following topics:
%s

For each day, specify:
1. Which topic(s) to focus on
2. Recommended study duration
3. Key concepts to review
4. Practice exercises or questions

Format as a structured daily plan.
`, days, strings.Join(topics, ", "))
}
