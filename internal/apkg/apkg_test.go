package apkg

import (
	"testing"

	"github.com/ky489401/anki-canonical/pkg/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	oid.UseSequence(t)

	var tests = []struct {
		modelType ModelType
		name      string
		fields    int
		kind      ModelKind
	}{
		{ModelBasic, "Basic", 3, KindStandard},
		{"", "Basic", 3, KindStandard},
		{ModelCloze, "Cloze", 2, KindCloze},
		{"Advanced", "Advanced", 6, KindStandard},
	}
	for _, tt := range tests {
		t.Run(string(tt.modelType), func(t *testing.T) {
			model, err := NewModel(tt.modelType, "")
			require.NoError(t, err)
			assert.Equal(t, tt.name, model.Name)
			assert.Len(t, model.Fields, tt.fields)
			assert.Equal(t, tt.kind, model.Kind)
			assert.GreaterOrEqual(t, model.ID, oid.MinID)
			assert.Less(t, model.ID, oid.MaxID)
		})
	}

	_, err := NewModel("quiz", "")
	assert.Error(t, err)
}

func TestNewNote(t *testing.T) {
	basic := NewBasicModel("")
	cloze := NewClozeModel("")
	advanced := NewAdvancedModel("")

	assert.Equal(t, []string{"Q", "A", "E"}, NewNote(basic, "Q", "A", "E").Fields)
	assert.Equal(t, []string{"Q", "A"}, NewNote(cloze, "Q", "A", "E").Fields)
	assert.Equal(t, []string{"Q", "A", "", "", "", "E"}, NewNote(advanced, "Q", "A", "E").Fields)
	assert.Equal(t, []string{"Q", "A", "S", "T", "H", "E"}, NewAdvancedNote(advanced, "Q", "A", "S", "T", "H", "E").Fields)

	// Same content = same GUID
	assert.Equal(t, NewNote(basic, "Q", "A", "").GUID, NewNote(basic, "Q", "A", "").GUID)
	assert.NotEqual(t, NewNote(basic, "Q", "A", "").GUID, NewNote(basic, "Q", "B", "").GUID)
}

func TestNoteCardOrdinals(t *testing.T) {
	basic := NewBasicModel("")
	cloze := NewClozeModel("")

	assert.Equal(t, []int{0}, NewNote(basic, "Q", "A", "").CardOrdinals())
	assert.Equal(t, []int{0, 2}, NewNote(cloze, "{{c3::Go}} was created at {{c1::Google}} by {{c1::Pike}}", "", "").CardOrdinals())
	assert.Equal(t, []int{0}, NewNote(cloze, "No deletion", "", "").CardOrdinals())
}

func TestNoteSortField(t *testing.T) {
	note := NewNote(NewBasicModel(""), "<b>What</b> is <i>Go</i>?", "A language", "")
	assert.Equal(t, "What is Go?", note.SortField())
}

func TestFromRecords(t *testing.T) {
	table := NewTableFromRecords([]map[string]string{
		{"question": "What is Go?", "answer": "A language", "source": "go.dev"},
		{"question": "Who created Go?", "answer": "Google"},
	}, "question", "answer")
	assert.Equal(t, []string{"question", "answer", "source"}, table.Columns)

	t.Run("Basic", func(t *testing.T) {
		deck, err := FromRecords(table, "Go", Options{ExtrasColumn: "source"})
		require.NoError(t, err)
		assert.Equal(t, "Go", deck.Name)
		require.Len(t, deck.Notes, 2)
		assert.Equal(t, []string{"What is Go?", "A language", "go.dev"}, deck.Notes[0].Fields)
		assert.Equal(t, []string{"Who created Go?", "Google", ""}, deck.Notes[1].Fields)
	})

	t.Run("Unknown extras column", func(t *testing.T) {
		deck, err := FromRecords(table, "Go", Options{ExtrasColumn: "missing", ModelType: ModelAdvanced})
		require.NoError(t, err)
		assert.Equal(t, "", deck.Notes[0].Fields[5])
	})

	t.Run("Missing column", func(t *testing.T) {
		_, err := FromRecords(table, "Go", Options{QuestionColumn: "front"})
		assert.ErrorContains(t, err, `missing question column "front"`)
	})

	t.Run("Malformed row", func(t *testing.T) {
		_, err := FromRecords(NewTable([]string{"question", "answer"}, []string{"Q"}), "Go", Options{})
		assert.ErrorContains(t, err, "row 1")
	})
}

func TestDeckOperations(t *testing.T) {
	model := NewBasicModel("")
	deck1 := NewDeck("Go")
	deck1.AddNote(NewNote(model, "Q1", "A1", ""))
	deck1.AddNote(NewNote(model, "Q2", "A2", ""))
	deck2 := NewDeck("Rust")
	deck2.AddNote(NewNote(NewClozeModel(""), "{{c1::Ferris}} is the mascot", "", ""))

	AddTags(deck1, "golang", "lang")
	AddTags(deck1, "golang")
	assert.Equal(t, []string{"golang", "lang"}, deck1.Notes[0].Tags)

	t.Run("MergeDecks", func(t *testing.T) {
		merged, err := MergeDecks([]*Deck{deck1, deck2}, "All")
		require.NoError(t, err)
		require.Len(t, merged.Notes, 3)
		assert.Same(t, model, merged.Notes[0].Model)

		// Notes are copies
		merged.Notes[0].Tags[0] = "changed"
		assert.Equal(t, "golang", deck1.Notes[0].Tags[0])
	})

	t.Run("FilterDeckByTags", func(t *testing.T) {
		merged, err := MergeDecks([]*Deck{deck1, deck2}, "All")
		require.NoError(t, err)
		filtered, err := FilterDeckByTags(merged, []string{"lang", "other"})
		require.NoError(t, err)
		assert.Equal(t, "All_filtered", filtered.Name)
		assert.Len(t, filtered.Notes, 2)
	})

	t.Run("Statistics", func(t *testing.T) {
		merged, err := MergeDecks([]*Deck{deck1, deck2}, "All")
		require.NoError(t, err)
		assert.Equal(t, Statistics{
			TotalNotes:    3,
			TotalFields:   8,
			NotesWithTags: 2,
			UniqueModels:  2,
		}, DeckStatistics(merged))
	})

	t.Run("Validate", func(t *testing.T) {
		assert.Empty(t, Validate(deck1))
		assert.Equal(t, []string{"Deck is empty"}, Validate(NewDeck("Empty")))

		invalid := NewDeck("Invalid")
		invalid.AddNote(NewNote(model, " ", "", ""))
		invalid.AddNote(&Note{Model: model, Fields: []string{"Q"}})
		assert.Equal(t, []string{
			"Note 1 has all empty fields",
			"Note 2 field count doesn't match model",
		}, Validate(invalid))
	})
}

func TestSubdeckStructure(t *testing.T) {
	columns := []string{"question", "answer"}
	decks, err := SubdeckStructure("Languages", map[string]*Table{
		"Rust": NewTable(columns, []string{"Q", "A"}),
		"Go":   NewTable(columns, []string{"Q", "A"}, []string{"Q2", "A2"}),
	}, Options{})
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Languages::Go", decks[0].Name)
	assert.Len(t, decks[0].Notes, 2)
	assert.Equal(t, "Languages::Rust", decks[1].Name)
}

func TestBatchCreate(t *testing.T) {
	columns := []string{"front", "back"}
	decks, err := BatchCreate([]DeckConfig{
		{Name: "A", Data: NewTable(columns, []string{"Q", "A"}), Options: Options{QuestionColumn: "front", AnswerColumn: "back"}},
		{Name: "B", Data: NewTable(columns), Options: Options{QuestionColumn: "front", AnswerColumn: "back", ModelType: ModelCloze}},
	})
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Len(t, decks[0].Notes, 1)
	assert.Empty(t, decks[1].Notes)

	_, err = BatchCreate([]DeckConfig{{Name: "C", Data: NewTable(columns)}})
	assert.ErrorContains(t, err, `deck "C"`)
}
