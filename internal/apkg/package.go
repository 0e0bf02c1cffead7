package apkg

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ky489401/anki-canonical/internal/helpers"
	"github.com/ky489401/anki-canonical/internal/medias"
	"github.com/ky489401/anki-canonical/pkg/clock"
	_ "github.com/mattn/go-sqlite3"
)

// Extension of flashcard packages
const Extension = ".apkg"

// Package is a set of decks and media files written as a single .apkg file.
type Package struct {
	Decks      []*Deck
	MediaFiles []string
}

func NewPackage(decks ...*Deck) *Package {
	return &Package{
		Decks: decks,
	}
}

// WithMedia adds media files (images, sounds, videos) referenced by the notes.
func (p *Package) WithMedia(paths ...string) *Package {
	p.MediaFiles = append(p.MediaFiles, paths...)
	return p
}

// WriteToFile writes the package and returns the path of the written file.
// The .apkg extension is appended when missing.
func (p *Package) WriteToFile(filename string) (string, error) {
	if !strings.HasSuffix(filename, Extension) {
		filename += Extension
	}
	// Media are referenced by their base name in card fields
	mediaNames := make(map[string]string)
	for _, path := range p.MediaFiles {
		if !medias.IsMedia(path) {
			return "", fmt.Errorf("unsupported media file %s", path)
		}
		name := filepath.Base(path)
		if previous, ok := mediaNames[name]; ok {
			return "", fmt.Errorf("duplicate media file name %s (%s and %s)", name, previous, path)
		}
		mediaNames[name] = path
	}

	tempDir, err := os.MkdirTemp("", "anki-canonical")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := p.writeCollection(dbPath); err != nil {
		return "", fmt.Errorf("unable to write collection: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := p.writeArchive(filename, dbPath); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", filename, err)
	}
	return filename, nil
}

func (p *Package) writeArchive(filename string, dbPath string) (err error) {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	archive := zip.NewWriter(out)
	if err := addFileToArchive(archive, "collection.anki2", dbPath); err != nil {
		return err
	}

	// Media are stored as "0", "1", ... and the "media" entry maps these names to the original file names.
	mediaIndex := make(map[string]string)
	for i, path := range p.MediaFiles {
		name := strconv.Itoa(i)
		mediaIndex[name] = filepath.Base(path)
		if err := addFileToArchive(archive, name, path); err != nil {
			return err
		}
	}
	mediaJSON, err := json.Marshal(mediaIndex)
	if err != nil {
		return err
	}
	w, err := archive.Create("media")
	if err != nil {
		return err
	}
	if _, err := w.Write(mediaJSON); err != nil {
		return err
	}

	return archive.Close()
}

func addFileToArchive(archive *zip.Writer, name string, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func (p *Package) writeCollection(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, collectionSchema); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := clock.Now()
	mod := now.Unix()

	models, err := p.modelsJSON(mod)
	if err != nil {
		return err
	}
	decks, err := p.decksJSON(mod)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (NULL, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		mod, now.UnixMilli(), now.UnixMilli(), collectionVersion,
		collectionConf, models, decks, collectionDConf)
	if err != nil {
		return fmt.Errorf("unable to insert collection: %w", err)
	}

	// IDs of notes and cards are millisecond timestamps made unique by incrementing
	nextID := now.UnixMilli()
	due := 0
	for _, deck := range p.Decks {
		for _, note := range deck.Notes {
			nextID++
			noteID := nextID
			sortField := note.SortField()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
				VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`,
				noteID, note.GUID.String(), note.Model.ID, mod,
				formatTags(note.Tags), strings.Join(note.Fields, fieldSeparator),
				sortField, helpers.Checksum(sortField))
			if err != nil {
				return fmt.Errorf("unable to insert note %s: %w", note.GUID, err)
			}

			for _, ordinal := range note.CardOrdinals() {
				nextID++
				due++
				_, err := tx.ExecContext(ctx, `
					INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
					VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
					nextID, noteID, deck.ID, ordinal, mod, due)
				if err != nil {
					return fmt.Errorf("unable to insert card for note %s: %w", note.GUID, err)
				}
			}
		}
	}

	return tx.Commit()
}

// formatTags returns tags as stored by Anki: space-separated with surrounding spaces.
func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

func (p *Package) models() []*Model {
	var models []*Model
	seen := make(map[int64]bool)
	for _, deck := range p.Decks {
		for _, note := range deck.Notes {
			if !seen[note.Model.ID] {
				seen[note.Model.ID] = true
				models = append(models, note.Model)
			}
		}
	}
	return models
}

func (p *Package) modelsJSON(mod int64) (string, error) {
	result := make(map[string]any)
	for _, model := range p.models() {
		var fields []map[string]any
		for i, name := range model.Fields {
			fields = append(fields, map[string]any{
				"name":   name,
				"ord":    i,
				"font":   "Arial",
				"media":  []string{},
				"rtl":    false,
				"size":   20,
				"sticky": false,
			})
		}
		var templates []map[string]any
		for i, template := range model.Templates {
			templates = append(templates, map[string]any{
				"name":  template.Name,
				"ord":   i,
				"qfmt":  template.QFmt,
				"afmt":  template.AFmt,
				"bqfmt": "",
				"bafmt": "",
				"did":   nil,
			})
		}
		result[strconv.FormatInt(model.ID, 10)] = map[string]any{
			"id":        strconv.FormatInt(model.ID, 10),
			"name":      model.Name,
			"type":      int(model.Kind),
			"mod":       mod,
			"usn":       -1,
			"sortf":     0,
			"did":       nil,
			"tags":      []string{},
			"vers":      []string{},
			"flds":      fields,
			"tmpls":     templates,
			"css":       model.CSS,
			"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
			"latexPost": "\\end{document}",
			"req":       [][]any{{0, "any", []int{0}}},
		}
	}
	b, err := json.Marshal(result)
	return string(b), err
}

func (p *Package) decksJSON(mod int64) (string, error) {
	result := map[string]any{
		"1": deckJSON(1, "Default", "", mod),
	}
	for _, deck := range p.Decks {
		result[strconv.FormatInt(deck.ID, 10)] = deckJSON(deck.ID, deck.Name, deck.Description, mod)
	}
	b, err := json.Marshal(result)
	return string(b), err
}

func deckJSON(id int64, name, description string, mod int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"desc":             description,
		"mod":              mod,
		"usn":              -1,
		"collapsed":        false,
		"browserCollapsed": false,
		"conf":             1,
		"dyn":              0,
		"extendNew":        0,
		"extendRev":        50,
		"lrnToday":         []int{0, 0},
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
	}
}
