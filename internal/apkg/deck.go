package apkg

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/ky489401/anki-canonical/pkg/markdown"
	"github.com/ky489401/anki-canonical/pkg/oid"
)

// fieldSeparator separates note fields in the collection database.
const fieldSeparator = "\x1f"

type Deck struct {
	ID          int64
	Name        string
	Description string
	Notes       []*Note
}

func NewDeck(name string) *Deck {
	return &Deck{
		ID:   oid.NewID(),
		Name: name,
	}
}

func (d *Deck) AddNote(note *Note) {
	d.Notes = append(d.Notes, note)
}

type Note struct {
	Model  *Model
	Fields []string
	Tags   []string
	GUID   oid.OID
}

// NewNote creates a note for one of the predefined models.
// The layout of fields depends on the number of fields of the model:
// two fields for cloze models, three for basic models and six for advanced models
// (extras go into the last field).
func NewNote(model *Model, question, answer, extras string) *Note {
	var fields []string
	switch len(model.Fields) {
	case 2:
		fields = []string{question, answer}
	case 3:
		fields = []string{question, answer, extras}
	default:
		fields = make([]string, len(model.Fields))
		fields[0] = question
		if len(fields) > 1 {
			fields[1] = answer
		}
		if len(fields) > 2 {
			fields[len(fields)-1] = extras
		}
	}
	return newNote(model, fields)
}

// NewAdvancedNote creates a note filling all fields of the advanced model.
func NewAdvancedNote(model *Model, question, answer, source, tags, hint, extra string) *Note {
	return newNote(model, []string{question, answer, source, tags, hint, extra})
}

func newNote(model *Model, fields []string) *Note {
	return &Note{
		Model:  model,
		Fields: fields,
		// Same content = same GUID so that importing again updates the note
		GUID: oid.NewFromFields(fields...),
	}
}

// SortField returns the text of the first field without HTML.
func (n *Note) SortField() string {
	if len(n.Fields) == 0 {
		return ""
	}
	return markdown.HTMLToText(n.Fields[0])
}

var reClozeNumber = regexp.MustCompile(`\{\{c(\d+)::`)

// CardOrdinals returns the template ordinals of the cards generated for the note.
func (n *Note) CardOrdinals() []int {
	if n.Model.Kind != KindCloze {
		ordinals := make([]int, len(n.Model.Templates))
		for i := range ordinals {
			ordinals[i] = i
		}
		return ordinals
	}

	seen := make(map[int]bool)
	var ordinals []int
	for _, field := range n.Fields {
		for _, match := range reClozeNumber.FindAllStringSubmatch(field, -1) {
			number, err := strconv.Atoi(match[1])
			if err != nil || number == 0 || seen[number-1] {
				continue
			}
			seen[number-1] = true
			ordinals = append(ordinals, number-1)
		}
	}
	if len(ordinals) == 0 {
		// Anki refuses notes without cards
		return []int{0}
	}
	sort.Ints(ordinals)
	return ordinals
}

// HasTag returns if the note has the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
