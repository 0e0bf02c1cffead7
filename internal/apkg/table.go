package apkg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
)

// Table is a list of records sharing the same columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

func NewTable(columns []string, rows ...[]string) *Table {
	return &Table{
		Columns: columns,
		Rows:    rows,
	}
}

// NewTableFromRecords builds a table from records. Columns are listed first in
// the given order, then remaining keys sorted alphabetically.
func NewTableFromRecords(records []map[string]string, columns ...string) *Table {
	known := make(map[string]bool)
	for _, column := range columns {
		known[column] = true
	}
	var extra []string
	for _, record := range records {
		for key := range record {
			if !known[key] {
				known[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)

	table := &Table{Columns: append(append([]string{}, columns...), extra...)}
	for _, record := range records {
		row := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			row[i] = record[column]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column or -1 when missing.
func (t *Table) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Options configures the conversion of a table to a deck.
type Options struct {
	QuestionColumn string    // Default to "question"
	AnswerColumn   string    // Default to "answer"
	ExtrasColumn   string    // Ignored when empty or missing
	ModelType      ModelType // Default to basic
}

func (o Options) withDefaults() Options {
	if o.QuestionColumn == "" {
		o.QuestionColumn = "question"
	}
	if o.AnswerColumn == "" {
		o.AnswerColumn = "answer"
	}
	if o.ModelType == "" {
		o.ModelType = ModelBasic
	}
	return o
}

// FromRecords creates a deck with one note per row.
func FromRecords(table *Table, deckName string, opts Options) (*Deck, error) {
	opts = opts.withDefaults()
	questionIndex := table.ColumnIndex(opts.QuestionColumn)
	if questionIndex < 0 {
		return nil, fmt.Errorf("missing question column %q", opts.QuestionColumn)
	}
	answerIndex := table.ColumnIndex(opts.AnswerColumn)
	if answerIndex < 0 {
		return nil, fmt.Errorf("missing answer column %q", opts.AnswerColumn)
	}
	extrasIndex := -1
	if opts.ExtrasColumn != "" {
		extrasIndex = table.ColumnIndex(opts.ExtrasColumn)
	}

	model, err := NewModel(opts.ModelType, "")
	if err != nil {
		return nil, err
	}

	deck := NewDeck(deckName)
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("row %d has %d values but %d columns are defined", i+1, len(row), len(table.Columns))
		}
		extras := ""
		if extrasIndex >= 0 {
			extras = row[extrasIndex]
		}
		deck.AddNote(NewNote(model, row[questionIndex], row[answerIndex], extras))
	}
	return deck, nil
}

/*
 * Deck operations
 */

// MergeDecks copies the notes of all decks into a new deck.
func MergeDecks(decks []*Deck, name string) (*Deck, error) {
	merged := NewDeck(name)
	for _, deck := range decks {
		for _, note := range deck.Notes {
			noteCopy, err := copyNote(note)
			if err != nil {
				return nil, err
			}
			merged.AddNote(noteCopy)
		}
	}
	return merged, nil
}

// FilterDeckByTags returns a new deck with copies of the notes having at least one of the tags.
func FilterDeckByTags(deck *Deck, tags []string) (*Deck, error) {
	filtered := NewDeck(deck.Name + "_filtered")
	for _, note := range deck.Notes {
		for _, tag := range tags {
			if note.HasTag(tag) {
				noteCopy, err := copyNote(note)
				if err != nil {
					return nil, err
				}
				filtered.AddNote(noteCopy)
				break
			}
		}
	}
	return filtered, nil
}

// copyNote returns a deep copy of a note sharing the same model.
func copyNote(note *Note) (*Note, error) {
	var result Note
	if err := copier.CopyWithOption(&result, note, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("unable to copy note %s: %w", note.GUID, err)
	}
	result.Model = note.Model
	return &result, nil
}

// AddTags adds tags to every note of the deck.
func AddTags(deck *Deck, tags ...string) {
	for _, note := range deck.Notes {
		for _, tag := range tags {
			if !note.HasTag(tag) {
				note.Tags = append(note.Tags, tag)
			}
		}
	}
}

// SubdeckStructure creates one deck named "<base>::<name>" per table.
// Decks are returned sorted by name.
func SubdeckStructure(base string, tables map[string]*Table, opts Options) ([]*Deck, error) {
	var names []string
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var decks []*Deck
	for _, name := range names {
		deck, err := FromRecords(tables[name], base+"::"+name, opts)
		if err != nil {
			return nil, fmt.Errorf("subdeck %q: %w", name, err)
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

type Statistics struct {
	TotalNotes    int `json:"total_notes"`
	TotalFields   int `json:"total_fields"`
	NotesWithTags int `json:"notes_with_tags"`
	UniqueModels  int `json:"unique_models"`
}

func DeckStatistics(deck *Deck) Statistics {
	stats := Statistics{
		TotalNotes: len(deck.Notes),
	}
	models := make(map[int64]bool)
	for _, note := range deck.Notes {
		stats.TotalFields += len(note.Fields)
		if len(note.Tags) > 0 {
			stats.NotesWithTags++
		}
		models[note.Model.ID] = true
	}
	stats.UniqueModels = len(models)
	return stats
}

// Validate returns the issues found in a deck. An empty result means the deck is valid.
func Validate(deck *Deck) []string {
	var issues []string
	if len(deck.Notes) == 0 {
		issues = append(issues, "Deck is empty")
	}
	for i, note := range deck.Notes {
		empty := true
		for _, field := range note.Fields {
			if strings.TrimSpace(field) != "" {
				empty = false
				break
			}
		}
		if empty {
			issues = append(issues, fmt.Sprintf("Note %d has all empty fields", i+1))
		}
		if len(note.Fields) != len(note.Model.Fields) {
			issues = append(issues, fmt.Sprintf("Note %d field count doesn't match model", i+1))
		}
	}
	return issues
}

// DeckConfig describes a deck to create in a batch.
type DeckConfig struct {
	Name    string
	Data    *Table
	Options Options
}

// BatchCreate creates all configured decks.
func BatchCreate(configs []DeckConfig) ([]*Deck, error) {
	var decks []*Deck
	for _, config := range configs {
		deck, err := FromRecords(config.Data, config.Name, config.Options)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", config.Name, err)
		}
		decks = append(decks, deck)
	}
	return decks, nil
}
