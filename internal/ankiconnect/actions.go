package ankiconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Version returns the AnkiConnect protocol version.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	err := c.Invoke(ctx, "version", nil, &version)
	return version, err
}

// Ping checks that AnkiConnect is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}

// DeckNames returns the names of all decks.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.Invoke(ctx, "deckNames", nil, &names)
	return names, err
}

// CreateDeck creates a deck (no-op if it already exists) and returns its ID.
func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.Invoke(ctx, "createDeck", map[string]any{"deck": name}, &id)
	return id, err
}

// FindCards returns the IDs of cards matching a search query (ex: `deck:"My Deck"`).
func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.Invoke(ctx, "findCards", map[string]any{"query": query}, &ids)
	return ids, err
}

type CardField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

type CardInfo struct {
	CardID    int64                `json:"cardId"`
	NoteID    int64                `json:"note"`
	DeckName  string               `json:"deckName"`
	ModelName string               `json:"modelName"`
	Question  string               `json:"question"`
	Answer    string               `json:"answer"`
	Fields    map[string]CardField `json:"fields"`
}

// CardsInfo returns detailed information about cards.
func (c *Client) CardsInfo(ctx context.Context, ids []int64) ([]CardInfo, error) {
	var cards []CardInfo
	err := c.Invoke(ctx, "cardsInfo", map[string]any{"cards": nonNil(ids)}, &cards)
	return cards, err
}

// Note is a note to add through AnkiConnect.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AddNote adds a single note and returns its ID.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	note.Tags = nonNil(note.Tags)
	var id int64
	err := c.Invoke(ctx, "addNote", map[string]any{"note": note}, &id)
	return id, err
}

// UpdateNoteFields replaces fields of an existing note.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	return c.Invoke(ctx, "updateNoteFields", map[string]any{
		"note": map[string]any{
			"id":     noteID,
			"fields": fields,
		},
	}, nil)
}

// DeleteNotes deletes notes by their IDs.
func (c *Client) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	return c.Invoke(ctx, "deleteNotes", map[string]any{"notes": nonNil(noteIDs)}, nil)
}

// ImportPackage imports an .apkg file. The path is read by Anki, not by the client.
func (c *Client) ImportPackage(ctx context.Context, path string) error {
	return c.Invoke(ctx, "importPackage", map[string]any{"path": path}, nil)
}

// CardTable is a tabular view of cards where each field is a column.
type CardTable struct {
	// "card_number" followed by field names sorted alphabetically
	Columns []string
	Rows    [][]string
}

const CardNumberColumn = "card_number"

// Len returns the number of cards.
func (t *CardTable) Len() int {
	return len(t.Rows)
}

// Column returns the values of a column, or nil if the column is unknown.
func (t *CardTable) Column(name string) []string {
	index := -1
	for i, column := range t.Columns {
		if column == name {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[index]
	}
	return values
}

// Records returns one map per card.
func (t *CardTable) Records() []map[string]string {
	records := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make(map[string]string, len(t.Columns))
		for j, column := range t.Columns {
			record[column] = row[j]
		}
		records[i] = record
	}
	return records
}

// LoadQuery loads the cards matching a search query into a table.
// Cards missing a field of another model get an empty value.
func (c *Client) LoadQuery(ctx context.Context, query string) (*CardTable, error) {
	var ids []int64
	if err := c.invokeLenient(ctx, "findCards", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	var cards []CardInfo
	if err := c.invokeLenient(ctx, "cardsInfo", map[string]any{"cards": nonNil(ids)}, &cards); err != nil {
		return nil, err
	}
	return NewCardTable(cards), nil
}

// NewCardTable converts cards to a table.
func NewCardTable(cards []CardInfo) *CardTable {
	fieldNames := make(map[string]bool)
	for _, card := range cards {
		for name := range card.Fields {
			fieldNames[name] = true
		}
	}
	var sortedNames []string
	for name := range fieldNames {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)

	table := &CardTable{
		Columns: append([]string{CardNumberColumn}, sortedNames...),
	}
	for _, card := range cards {
		row := make([]string, 0, len(table.Columns))
		row = append(row, strconv.FormatInt(card.CardID, 10))
		for _, name := range sortedNames {
			row = append(row, card.Fields[name].Value)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// invokeLenient accepts any envelope shape as long as the error field is null.
func (c *Client) invokeLenient(ctx context.Context, action string, params any, result any) error {
	envelope, err := c.InvokeRaw(ctx, action, params)
	if err != nil {
		return err
	}
	if envelope.Error != nil {
		return &ExternalServiceError{Action: action, Message: *envelope.Error}
	}
	if len(envelope.Result) == 0 {
		return &ExternalServiceError{Action: action, Err: ErrMissingResultField}
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return &ExternalServiceError{Action: action, Err: fmt.Errorf("malformed result: %w", err)}
	}
	return nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
