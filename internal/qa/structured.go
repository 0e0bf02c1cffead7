package qa

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// ParseCSV reads pairs from delimited content with a header row.
// Columns named like "question"/"q" and "answer"/"a" are used when present,
// the first two columns otherwise.
func ParseCSV(content string, delimiter rune) ([]Pair, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV content")
	}
	if err != nil {
		return nil, err
	}

	questionCol, answerCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if strings.Contains(name, "question") || name == "q" {
			questionCol = i
		} else if strings.Contains(name, "answer") || name == "a" {
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		if len(header) < 2 {
			return nil, fmt.Errorf("expected at least 2 columns, got %d", len(header))
		}
		questionCol, answerCol = 0, 1
	}

	var pairs []Pair
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{
			Question: field(record, questionCol),
			Answer:   field(record, answerCol),
		})
	}
	return pairs, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// pairsQuery walks a list of objects, or an object nesting them under
// "questions" or "qa_pairs", and emits the first question and answer key of each.
const pairsQuery = `
def truthy: . != null and . != false and . != "" and . != 0 and . != [] and . != {};
def text: if type == "string" then . else tojson end;
def first_key($keys): . as $o | [$keys[] | select(. as $k | $o | has($k))] | if length > 0 then $o[.[0]] else null end;
def pairs:
  if type == "array" then
    .[] | select(type == "object")
    | {question: first_key(["question", "q", "prompt", "query"]), answer: first_key(["answer", "a", "response", "reply"])}
    | select((.question | truthy) and (.answer | truthy))
    | {question: (.question | text), answer: (.answer | text)}
  elif type == "object" then
    if has("questions") then .questions | pairs
    elif has("qa_pairs") then .qa_pairs | pairs
    else [.] | pairs
    end
  else empty
  end;
pairs
`

var pairsCode = mustCompile(pairsQuery)

func mustCompile(src string) *gojq.Code {
	query, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(err)
	}
	return code
}

func runPairsQuery(data any) ([]Pair, error) {
	var pairs []Pair
	iter := pairsCode.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, err
		}
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		question, _ := obj["question"].(string)
		answer, _ := obj["answer"].(string)
		pairs = append(pairs, Pair{Question: question, Answer: answer})
	}
	return pairs, nil
}

// ParseJSON reads pairs from a JSON document.
// Questions are read from "question", "q", "prompt" or "query" and answers
// from "answer", "a", "response" or "reply". Items missing either are skipped.
func ParseJSON(content string) ([]Pair, error) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, err
	}
	return runPairsQuery(data)
}

// ParseYAML reads pairs from a YAML document using the same layout as ParseJSON.
func ParseYAML(content string) ([]Pair, error) {
	var data any
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		return nil, err
	}
	return runPairsQuery(normalizeYAML(data))
}

// normalizeYAML converts decoded values to the types understood by gojq.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for key, value := range v {
			v[key] = normalizeYAML(value)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for key, value := range v {
			m[fmt.Sprint(key)] = normalizeYAML(value)
		}
		return m
	case []any:
		for i, value := range v {
			v[i] = normalizeYAML(value)
		}
		return v
	case int64:
		return int(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return v
}

// ParseAnkiExport reads the tab-separated text exported by Anki:
// front, back and optional tags.
func ParseAnkiExport(text string) []Pair {
	var pairs []Pair
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		pair := Pair{Question: fields[0], Answer: fields[1]}
		if len(fields) > 2 {
			pair.Tags = fields[2]
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
