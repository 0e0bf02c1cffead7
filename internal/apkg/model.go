// Package apkg builds flashcard packages (.apkg) that can be imported into Anki.
package apkg

import (
	"fmt"
	"strings"

	"github.com/ky489401/anki-canonical/pkg/oid"
)

// ModelKind is the Anki note type kind.
type ModelKind int

const (
	KindStandard ModelKind = 0
	KindCloze    ModelKind = 1
)

// ModelType selects one of the predefined models.
type ModelType string

const (
	ModelBasic    ModelType = "basic"
	ModelCloze    ModelType = "cloze"
	ModelAdvanced ModelType = "advanced"
)

type Template struct {
	Name string
	QFmt string // Question format
	AFmt string // Answer format
}

// Model defines the fields of notes and how cards are rendered.
type Model struct {
	ID        int64
	Name      string
	Kind      ModelKind
	Fields    []string
	Templates []Template
	CSS       string
}

const defaultCSS = `.card {
  font-family: arial;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
}`

// NewBasicModel returns a model with Question, Answer and Extras fields.
func NewBasicModel(name string) *Model {
	if name == "" {
		name = "Basic"
	}
	return &Model{
		ID:     oid.NewID(),
		Name:   name,
		Kind:   KindStandard,
		Fields: []string{"Question", "Answer", "Extras"},
		Templates: []Template{
			{
				Name: "Card type 1",
				QFmt: "{{Question}}",
				AFmt: `{{FrontSide}}<hr id="answer">{{Answer}}`,
			},
		},
		CSS: defaultCSS,
	}
}

// NewClozeModel returns a cloze deletion model with Text and Extra fields.
func NewClozeModel(name string) *Model {
	if name == "" {
		name = "Cloze"
	}
	return &Model{
		ID:     oid.NewID(),
		Name:   name,
		Kind:   KindCloze,
		Fields: []string{"Text", "Extra"},
		Templates: []Template{
			{
				Name: "Cloze",
				QFmt: "{{cloze:Text}}",
				AFmt: "{{cloze:Text}}<br>{{Extra}}",
			},
		},
		CSS: defaultCSS,
	}
}

// NewAdvancedModel returns a styled model with optional Source, Tags, Hint and Extra fields.
func NewAdvancedModel(name string) *Model {
	if name == "" {
		name = "Advanced"
	}
	return &Model{
		ID:     oid.NewID(),
		Name:   name,
		Kind:   KindStandard,
		Fields: []string{"Question", "Answer", "Source", "Tags", "Hint", "Extra"},
		Templates: []Template{
			{
				Name: "Card 1",
				QFmt: strings.TrimSpace(`
<div class="question">{{Question}}</div>
{{#Hint}}<div class="hint">Hint: {{Hint}}</div>{{/Hint}}`),
				AFmt: strings.TrimSpace(`
{{FrontSide}}
<hr id="answer">
<div class="answer">{{Answer}}</div>
{{#Source}}<div class="source">Source: {{Source}}</div>{{/Source}}
{{#Extra}}<div class="extra">{{Extra}}</div>{{/Extra}}`),
			},
		},
		CSS: strings.TrimSpace(`
.card { font-family: arial; font-size: 16px; text-align: left; color: black; background-color: white; }
.question { font-weight: bold; color: #2c3e50; }
.answer { margin-top: 10px; }
.hint { font-style: italic; color: #7f8c8d; margin-top: 5px; }
.source { font-size: 12px; color: #95a5a6; margin-top: 10px; }
.extra { color: #34495e; margin-top: 10px; }`),
	}
}

// NewModel returns the predefined model of the given type.
func NewModel(modelType ModelType, name string) (*Model, error) {
	switch ModelType(strings.ToLower(string(modelType))) {
	case ModelBasic, "":
		return NewBasicModel(name), nil
	case ModelCloze:
		return NewClozeModel(name), nil
	case ModelAdvanced:
		return NewAdvancedModel(name), nil
	}
	return nil, fmt.Errorf("unknown model type %q", modelType)
}
