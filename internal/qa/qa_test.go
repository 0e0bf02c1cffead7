package qa

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ky489401/anki-canonical/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPairs(t *testing.T) {
	text := "Q: What is Go?\nA: A language.\nQ: Who made it?  A: Google"
	pairs := ExtractPairs(text)
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{Question: "What is Go?", Answer: "A language."}, pairs[0])
	assert.Equal(t, Pair{Question: "Who made it?", Answer: "Google"}, pairs[1])

	assert.Empty(t, ExtractPairs("No questions here"))
	assert.Empty(t, ExtractPairs("Q: a question without answer"))
}

func TestExtractPairsFlexible(t *testing.T) {
	var tests = []struct {
		name     string
		text     string
		expected []Pair
	}{
		{
			name: "Lowercase markers",
			text: "q: 2+2?\na: 4",
			expected: []Pair{
				{Question: "2+2?", Answer: "4"},
			},
		},
		{
			name: "Question/Answer",
			text: "Question: Capital of France?\nAnswer: Paris\nQuestion: Capital of Italy?\nAnswer: Rome",
			expected: []Pair{
				{Question: "Capital of France?", Answer: "Paris"},
				{Question: "Capital of Italy?", Answer: "Rome"},
			},
		},
		{
			name: "Numbered",
			text: "Q1. First?\nA1. One\nQ2. Second?\nA2. Two",
			expected: []Pair{
				{Question: "First?", Answer: "One"},
				{Question: "Second?", Answer: "Two"},
			},
		},
		{
			name: "Bold",
			text: "**Q**: Bold?\n**A**: Yes",
			expected: []Pair{
				{Question: "Bold?", Answer: "Yes"},
			},
		},
		{
			name:     "Nothing",
			text:     "Plain text",
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPairsFlexible(tt.text))
		})
	}
}

func TestParseMarkdown(t *testing.T) {
	text := `## What is a goroutine?
ignored
## Answer
A lightweight thread.

## What is a channel?
## Answer
A typed conduit.
## Dangling`
	pairs := ParseMarkdown(text)
	assert.Equal(t, []Pair{
		{Question: "What is a goroutine?", Answer: "A lightweight thread."},
		{Question: "What is a channel?", Answer: "A typed conduit."},
	}, pairs)

	// Falls back to Markdown when no Q&A marker is found
	assert.Equal(t, pairs, ParseFlashcardFormat(text))
}

func TestParseSyllabus(t *testing.T) {
	text := `
1. Introduction
2.   Goroutines

10. Channels
`
	assert.Equal(t, []string{"Introduction", "Goroutines", "Channels"}, ParseSyllabus(text))
}

func TestParseNumberedList(t *testing.T) {
	items := ParseNumberedList("1. First item\nspanning lines\n2. Second")
	assert.Equal(t, []ListItem{
		{Number: "1", Content: "First item\nspanning lines"},
		{Number: "2", Content: "Second"},
	}, items)
}

func TestQuestionFromHTML(t *testing.T) {
	html := "<div><b>Question:</b> What is 2+2? <ul><li>4</li></ul></div>"

	question, ok := ExtractQuestionFromHTML(html)
	assert.True(t, ok)
	assert.Equal(t, "What is 2+2?", question)
	assert.Equal(t, "<div><ul><li>4</li></ul></div>", RemoveQuestionFromHTML(html))

	_, ok = ExtractQuestionFromHTML("<p>nothing</p>")
	assert.False(t, ok)
}

func TestProblems(t *testing.T) {
	text := "Problem 1. Compute x.\n\nProblem 2. Compute y.\n\\section{Problem 1} Prove z.\n"
	problems := GetProblems(text)
	require.Len(t, problems, 3)
	assert.Equal(t, Problem{Number: 1, Content: " Compute x."}, problems[0])
	assert.Equal(t, Problem{Number: 2, Content: " Compute y."}, problems[1])
	assert.Equal(t, Problem{Number: 1, Content: " Prove z."}, problems[2])

	numbered := AssignChapters(problems, 3)
	assert.Equal(t, []string{"3.1", "3.2", "4.1"}, []string{numbered[0].ID, numbered[1].ID, numbered[2].ID})
}

func TestFilterExtras(t *testing.T) {
	fields := []string{"Front", "Back", "Extra", "Back Extras", "Extraordinary"}
	assert.Equal(t, []string{"Front", "Back", "Extraordinary"}, FilterExtras(fields))
}

func TestParseCSV(t *testing.T) {
	t.Run("Named columns", func(t *testing.T) {
		pairs, err := ParseCSV("id,Answer,Question\n1,Paris,Capital of France?\n", ',')
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Question: "Capital of France?", Answer: "Paris"}}, pairs)
	})
	t.Run("First columns", func(t *testing.T) {
		pairs, err := ParseCSV("front;back\nHello;Bonjour\n", ';')
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Question: "Hello", Answer: "Bonjour"}}, pairs)
	})
	t.Run("Single column", func(t *testing.T) {
		_, err := ParseCSV("front\nHello\n", ',')
		assert.Error(t, err)
	})
}

func TestParseJSON(t *testing.T) {
	var tests = []struct {
		name     string
		content  string
		expected []Pair
	}{
		{
			name:    "List",
			content: `[{"q": "Q1?", "a": "A1"}, {"prompt": "Q2?", "reply": 42}, {"question": "", "answer": "skipped"}, "ignored"]`,
			expected: []Pair{
				{Question: "Q1?", Answer: "A1"},
				{Question: "Q2?", Answer: "42"},
			},
		},
		{
			name:     "Nested",
			content:  `{"questions": [{"question": "Q?", "answer": "A"}]}`,
			expected: []Pair{{Question: "Q?", Answer: "A"}},
		},
		{
			name:     "Single",
			content:  `{"query": "Q?", "response": "A"}`,
			expected: []Pair{{Question: "Q?", Answer: "A"}},
		},
		{
			name:     "First key wins",
			content:  `[{"question": null, "q": "Q?", "answer": "A"}]`,
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := ParseJSON(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pairs)
		})
	}

	_, err := ParseJSON(`{invalid`)
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	pairs, err := ParseYAML(`
qa_pairs:
  - question: How many bits in a byte?
    answer: 8
  - q: Missing answer
`)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Question: "How many bits in a byte?", Answer: "8"}}, pairs)
}

func TestParseAnkiExport(t *testing.T) {
	pairs := ParseAnkiExport("Front\tBack\tgo basics\nonly one field\nQ\tA\n")
	assert.Equal(t, []Pair{
		{Question: "Front", Answer: "Back", Tags: "go basics"},
		{Question: "Q", Answer: "A"},
	}, pairs)
}

func TestCloze(t *testing.T) {
	assert.Equal(t, []string{"Paris", "France"}, ExtractClozeDeletions("{{c1::Paris}} is in {{c2::France::country}}"))
	assert.Empty(t, ExtractClozeDeletions("no cloze"))

	assert.Equal(t, "The capital is {{c1::Paris}}", ClozeFromQA("The capital is Paris", "Paris", 1))
	assert.Equal(t, "Capital of France? {{c2::Paris}}", ClozeFromQA("Capital of France?", "Paris", 2))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Use go vet to check code", CleanText("  Use `go vet`\n to **check** <i>code</i> "))
	assert.Equal(t, "café", CleanText("café"))
}

func TestValidatePairs(t *testing.T) {
	pairs := ValidatePairs([]Pair{
		{Question: "What is Go?", Answer: "A **language**", Tags: "go"},
		{Question: "What is Go?", Answer: "A language"},
		{Question: "Hi", Answer: "Too short question"},
		{Question: "Short answer?", Answer: "no"},
	})
	assert.Equal(t, []Pair{{Question: "What is Go?", Answer: "A language", Tags: "go"}}, pairs)
}

func TestBatchParseFiles(t *testing.T) {
	csvPath := testutil.SetUpFromFileContent(t, "cards.csv", "question,answer\nQ1?,A1\n")
	jsonPath := testutil.SetUpFromFileContent(t, "cards.json", `[{"question": "Q2?", "answer": "A2"}]`)
	textPath := testutil.SetUpFromFileContent(t, "cards.txt", "Q: Q3?\nA: A3")
	missingPath := filepath.Join(t.TempDir(), "missing.txt")

	results := BatchParseFiles(context.Background(), []string{csvPath, missingPath, jsonPath, textPath})
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, missingPath, results[1].Path)

	pairs := Pairs(results)
	assert.Equal(t, []Pair{
		{Question: "Q1?", Answer: "A1", Source: csvPath},
		{Question: "Q2?", Answer: "A2", Source: jsonPath},
		{Question: "Q3?", Answer: "A3", Source: textPath},
	}, pairs)
}
