package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/ky489401/anki-canonical/internal/ankiconnect"
	"github.com/ky489401/anki-canonical/internal/apkg"
	"github.com/ky489401/anki-canonical/internal/helpers"
	"github.com/ky489401/anki-canonical/internal/llm"
	"github.com/ky489401/anki-canonical/internal/qa"
	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/ky489401/anki-canonical/pkg/console"
	"github.com/ky489401/anki-canonical/pkg/latex"
	"github.com/ky489401/anki-canonical/pkg/markdown"
	"github.com/ky489401/anki-canonical/pkg/resync"
)

var (
	// Lazy-load and ensure a single initialization
	toolkitOnce      resync.Once
	toolkitSingleton *Toolkit
)

// Toolkit groups the services used by the commands.
type Toolkit struct {
	Config    *Config
	Converter *latex.Converter
	Anki      *ankiconnect.Client
	// Nil when no LLM is configured
	Assistant *llm.Assistant
}

func CurrentToolkit() *Toolkit {
	toolkitOnce.Do(func() {
		toolkitSingleton = NewToolkit(context.Background(), CurrentConfig())
	})
	return toolkitSingleton
}

// SetCurrentToolkit overrides the current toolkit.
func SetCurrentToolkit(toolkit *Toolkit) {
	toolkitOnce.Do(func() {})
	toolkitSingleton = toolkit
}

// ResetCurrentToolkit forces the toolkit to be created again.
func ResetCurrentToolkit() {
	toolkitOnce.Reset()
	toolkitSingleton = nil
}

// NewToolkit wires the services from the configuration.
// The assistant is only created when an API key is configured.
func NewToolkit(ctx context.Context, config *Config, options ...func(*Toolkit)) *Toolkit {
	t := &Toolkit{
		Config:    config,
		Converter: latex.NewConverter(markdown.Gomarkdown()),
		Anki:      ankiconnect.NewClient(config.AnkiConnectURL),
	}
	if config.HasLLM() {
		chatModel, err := llm.NewChatModel(ctx, config.LLMProvider, llm.Config{
			APIKey:  config.OpenAIAPIKey,
			Model:   config.LLMModel,
			BaseURL: config.OpenAIBaseURL,
		})
		if err != nil {
			CurrentLogger().Warnf("LLM disabled: %v", err)
		} else {
			t.Assistant = newAssistant(chatModel)
		}
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func newAssistant(chatModel llm.ChatModel) *llm.Assistant {
	return llm.NewAssistant(chatModel, llm.WithProgress(func(message string) {
		CurrentLogger().Info("⏳ " + message)
	}))
}

// WithAnkiClient replaces the AnkiConnect client.
func WithAnkiClient(client *ankiconnect.Client) func(*Toolkit) {
	return func(t *Toolkit) {
		t.Anki = client
	}
}

// WithChatModel replaces the assistant model.
func WithChatModel(chatModel llm.ChatModel) func(*Toolkit) {
	return func(t *Toolkit) {
		t.Assistant = newAssistant(chatModel)
	}
}

// WithConverter replaces the note converter.
func WithConverter(converter *latex.Converter) func(*Toolkit) {
	return func(t *Toolkit) {
		t.Converter = converter
	}
}

// Convert converts a note to HTML. Lost placeholders are reported as warnings.
func (t *Toolkit) Convert(text string) (string, error) {
	html, err := t.Converter.Convert(text)
	CurrentLogger().Tracef("Converted %d bytes using %s delimiters:\n%s", len(text), t.Converter.Style(), html)
	var markupErr *latex.MarkupError
	if errors.As(err, &markupErr) {
		CurrentLogger().Warnf("Incomplete conversion: %v", markupErr)
		return html, nil
	}
	return html, err
}

// ConvertNotes converts notes to HTML in input order.
//
// With preprocessOnly, notes are not rendered as Markdown: math delimiters are normalized
// and LaTeX structures are rewritten. With forAnki, the output is adapted to the
// Anki card renderer.
func (t *Toolkit) ConvertNotes(ctx context.Context, texts []string, preprocessOnly, forAnki bool) ([]string, error) {
	var results []string
	if preprocessOnly {
		preprocessed, err := latex.PreprocessAll(ctx, texts)
		if err != nil {
			return nil, err
		}
		results = preprocessed
	} else {
		results = make([]string, len(texts))
		for i, text := range texts {
			html, err := t.Convert(text)
			if err != nil {
				return nil, fmt.Errorf("note %d: %w", i+1, err)
			}
			results[i] = html
		}
	}
	if forAnki {
		for i := range results {
			results[i] = PrepareForAnki(results[i], !preprocessOnly)
		}
	}
	return results, nil
}

// RenderPairs converts the question and answer of each pair to HTML.
func (t *Toolkit) RenderPairs(pairs []qa.Pair) ([]qa.Pair, error) {
	rendered := make([]qa.Pair, len(pairs))
	for i, pair := range pairs {
		question, err := t.Convert(pair.Question)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i+1, err)
		}
		answer, err := t.Convert(pair.Answer)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i+1, err)
		}
		pair.Question, pair.Answer = question, answer
		rendered[i] = pair
	}
	return rendered, nil
}

// CreateDeckWithConfig creates a deck named after the configuration using its
// default model. Pairs beyond the configured maximum are ignored.
func (t *Toolkit) CreateDeckWithConfig(pairs []qa.Pair) *apkg.Deck {
	return t.CreateDeck(t.Config.DefaultDeckName, pairs)
}

// CreateDeck creates a deck using the default model of the configuration.
func (t *Toolkit) CreateDeck(name string, pairs []qa.Pair) *apkg.Deck {
	model := apkg.NewBasicModel(t.Config.DefaultModelName)
	deck := apkg.NewDeck(name)
	for _, pair := range t.limitPairs(name, pairs) {
		deck.AddNote(withTags(apkg.NewNote(model, pair.Question, pair.Answer, pair.Extras), pair.Tags))
	}
	return deck
}

// CreateClozeDeck creates a deck of cloze notes hiding each answer in its question.
func (t *Toolkit) CreateClozeDeck(name string, pairs []qa.Pair) *apkg.Deck {
	model := apkg.NewClozeModel("")
	deck := apkg.NewDeck(name)
	for _, pair := range t.limitPairs(name, pairs) {
		text := qa.ClozeFromQA(pair.Question, pair.Answer, 1)
		deck.AddNote(withTags(apkg.NewNote(model, text, pair.Extras, ""), pair.Tags))
	}
	return deck
}

func (t *Toolkit) limitPairs(deckName string, pairs []qa.Pair) []qa.Pair {
	limit := t.Config.MaxCardsPerDeck
	if limit > 0 && len(pairs) > limit {
		CurrentLogger().Warnf("Deck %q limited to %d cards (%d found)", deckName, limit, len(pairs))
		return pairs[:limit]
	}
	return pairs
}

func withTags(note *apkg.Note, tags string) *apkg.Note {
	if tags != "" {
		note.Tags = strings.Fields(tags)
	}
	return note
}

// DefaultPackagePath returns the file name used for a deck when none is given.
func DefaultPackagePath(deckName string) string {
	return strings.ReplaceAll(deckName, " ", "_") + apkg.Extension
}

// DeckOptions controls how the pairs of a Q&A file become notes.
type DeckOptions struct {
	Render  bool     // Convert questions and answers to HTML with the note converter
	ForAnki bool     // Adapt fields to the Anki card renderer
	Cloze   bool     // Create cloze notes instead of basic notes
	Tags    []string // Tags added to every note
}

// PrepareForAnki adapts a field to the Anki card renderer.
// Rendered fields are HTML and only need their math escaped while raw fields
// have their math flattened and their newlines turned into line breaks.
func PrepareForAnki(field string, rendered bool) string {
	if rendered {
		return latex.CleanHTML(latex.EscapeAngleBracketsInMath(field))
	}
	return latex.ProcessForAnki(field)
}

// BuildDeckFromQAFile parses a Q&A file and creates its deck.
func (t *Toolkit) BuildDeckFromQAFile(path, deckName string, opts DeckOptions) (*apkg.Deck, error) {
	pairs, err := qa.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no Q&A pairs found in %s", path)
	}
	CurrentLogger().Debugf("Found %d pairs in %s", len(pairs), path)

	if opts.Render {
		pairs, err = t.RenderPairs(pairs)
		if err != nil {
			return nil, fmt.Errorf("unable to render %s: %w", path, err)
		}
	}
	if opts.ForAnki {
		for i := range pairs {
			pairs[i].Question = PrepareForAnki(pairs[i].Question, opts.Render)
			pairs[i].Answer = PrepareForAnki(pairs[i].Answer, opts.Render)
		}
	}

	var deck *apkg.Deck
	if opts.Cloze {
		deck = t.CreateClozeDeck(deckName, pairs)
	} else {
		deck = t.CreateDeck(deckName, pairs)
	}
	apkg.AddTags(deck, opts.Tags...)
	for _, issue := range apkg.Validate(deck) {
		CurrentLogger().Warnf("%s: %s", deckName, issue)
	}
	return deck, nil
}

// CreateDeckFromQAFile parses a Q&A file and writes its deck as a package.
// The output defaults to the deck name with underscores in place of spaces.
func (t *Toolkit) CreateDeckFromQAFile(path, deckName, output string, opts DeckOptions) (string, error) {
	deck, err := t.BuildDeckFromQAFile(path, deckName, opts)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = DefaultPackagePath(deckName)
	}
	written, err := apkg.NewPackage(deck).WriteToFile(output)
	if err != nil {
		return "", err
	}
	CurrentLogger().LogOperation("Create deck", fmt.Sprintf("%s (%d cards)", written, len(deck.Notes)), true)
	return written, nil
}

// CardSummary is the summary of a card loaded from Anki.
type CardSummary struct {
	CardNumber string           `json:"card_number"`
	Summary    *llm.CardContent `json:"summary,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// SummarizeCards summarizes the cards matching a query, batch after batch.
// Cards failing to be summarized are reported with their error.
func (t *Toolkit) SummarizeCards(ctx context.Context, query string, batchSize int) ([]CardSummary, error) {
	if t.Assistant == nil {
		return nil, llm.ErrNoModel
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	table, err := t.Anki.LoadQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	numbers := table.Column(ankiconnect.CardNumberColumn)
	texts := make([]string, len(table.Rows))
	for i, record := range table.Records() {
		var fields []string
		for _, column := range table.Columns {
			if column != ankiconnect.CardNumberColumn && record[column] != "" {
				fields = append(fields, markdown.HTMLToText(record[column]))
			}
		}
		texts[i] = strings.Join(fields, "\n")
	}

	progress := console.NewProgressLog(len(texts), console.ToWriter(os.Stderr), console.ShowETA())
	opts := llm.BatchOptions{
		Size:     batchSize,
		Interval: llm.DefaultInterval,
		Progress: func(batch, total int) {
			progress.Log(min(batch*batchSize, len(texts)), fmt.Sprintf("Summarizing batch %d/%d", batch, total))
		},
	}
	contents, errs := llm.BatchProcess(ctx, texts, opts, t.Assistant.GenerateCardSummary)
	progress.Clear(fmt.Sprintf("Summarized %d cards", len(texts)))

	summaries := make([]CardSummary, len(texts))
	for i := range texts {
		summaries[i] = CardSummary{CardNumber: numbers[i], Summary: contents[i]}
		if errs[i] != nil {
			CurrentLogger().Warnf("Unable to summarize card %s: %v", numbers[i], errs[i])
			summaries[i].Error = errs[i].Error()
		}
	}
	return summaries, nil
}

// ImportReport summarizes a batch import.
type ImportReport struct {
	Imported []string
	Failed   []string
	Skipped  []string
}

// BatchImportPackages imports every package of a directory into Anki.
// Packages matching the exclude patterns and packages identical to one
// already imported in the batch are skipped. Failures do not stop the batch.
func (t *Toolkit) BatchImportPackages(ctx context.Context, dir string) (*ImportReport, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+apkg.Extension))
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	imported := make(map[string]string) // hash => file name
	for _, path := range paths {
		name := filepath.Base(path)
		if t.Config.Exclude.Match(name) {
			CurrentLogger().Debugf("Ignoring excluded package %s", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}
		hash, err := helpers.HashFromFile(path)
		if err != nil {
			CurrentLogger().LogOperation("Import", fmt.Sprintf("%s: %v", name, err), false)
			report.Failed = append(report.Failed, name)
			continue
		}
		if previous, ok := imported[hash]; ok {
			CurrentLogger().Infof("Skipping %s (same content as %s)", name, previous)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		CurrentLogger().Infof("Importing %s...", name)
		absolutePath, err := filepath.Abs(path)
		if err == nil {
			err = t.Anki.ImportPackage(ctx, absolutePath)
		}
		if err != nil {
			CurrentLogger().LogOperation("Import", fmt.Sprintf("%s: %v", name, err), false)
			report.Failed = append(report.Failed, name)
			continue
		}
		imported[hash] = name
		CurrentLogger().LogOperation("Import", name, true)
		report.Imported = append(report.Imported, name)
	}
	return report, nil
}

// GenerateFromSyllabus asks the assistant for pairs on every section of a syllabus.
// Sections failing are logged and skipped. Generated pairs are validated.
func (t *Toolkit) GenerateFromSyllabus(ctx context.Context, syllabus, topic string) ([]qa.Pair, error) {
	sections := qa.ParseSyllabus(syllabus)
	if len(sections) == 0 {
		return nil, errors.New("empty syllabus")
	}
	pairs, err := t.Assistant.GenerateQAFromTopics(ctx, sections, topic, llm.DefaultInterval)
	if errors.Is(err, llm.ErrNoModel) {
		return nil, err
	}
	if err != nil {
		CurrentLogger().Warnf("Partial generation: %v", err)
	}
	return qa.ValidatePairs(pairs), nil
}

// GeneratedPackagePath returns the package file for a generated topic.
func GeneratedPackagePath(dir, topic string) string {
	return filepath.Join(dir, slug.Make(topic)+apkg.Extension)
}

// ValidateAnkiConnect returns if AnkiConnect answers.
func (t *Toolkit) ValidateAnkiConnect(ctx context.Context) bool {
	if err := t.Anki.Ping(ctx); err != nil {
		CurrentLogger().Debugf("AnkiConnect unavailable: %v", err)
		return false
	}
	return true
}

// SystemInfo describes the running program.
type SystemInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
	Hostname  string `json:"hostname"`
}

// Diagnostics is the result of RunDiagnostics.
type Diagnostics struct {
	AnkiConnect    bool       `json:"anki_connect"`
	AnkiConnectURL string     `json:"anki_connect_url"`
	LLM            bool       `json:"llm"`
	LLMModel       string     `json:"llm_model,omitempty"`
	System         SystemInfo `json:"system_info"`
	Timestamp      time.Time  `json:"timestamp"`
}

// RunDiagnostics checks the availability of the external services.
func (t *Toolkit) RunDiagnostics(ctx context.Context) Diagnostics {
	hostname, _ := os.Hostname()
	diagnostics := Diagnostics{
		AnkiConnect:    t.ValidateAnkiConnect(ctx),
		AnkiConnectURL: t.Anki.BaseURL(),
		LLM:            t.Assistant != nil,
		System: SystemInfo{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			NumCPU:    runtime.NumCPU(),
			Hostname:  hostname,
		},
		Timestamp: clock.Now(),
	}
	if diagnostics.LLM {
		diagnostics.LLMModel = t.Config.LLMModel
	}
	CurrentLogger().Dump("Diagnostics", diagnostics)
	return diagnostics
}

// AvailableFunctions lists the operations by area.
// LLM operations are only listed when an assistant is configured.
func (t *Toolkit) AvailableFunctions() []string {
	functions := []string{
		"Anki API: invoke, load query, deck names, import package",
		"Text Processing: preprocess LaTeX, convert Markdown/LaTeX to HTML, process for Anki",
		"Card Creation: create deck from records, write .apkg package",
		"Q&A Parsing: extract Q&A pairs, parse syllabus, parse CSV/JSON/YAML",
	}
	if t.Assistant != nil {
		functions = append(functions,
			"LLM Integration: card summary, summarise duplicates, rank cards",
			"OpenAI Integration: generate Q&A from topics, enhance Q&A, query",
		)
	} else {
		functions = append(functions, "LLM Integration: Not available")
	}
	return functions
}
