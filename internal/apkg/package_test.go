package apkg

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteToFile(t *testing.T) {
	clock.FreezeForTest(t, time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC))
	dir := t.TempDir()

	image := filepath.Join(dir, "normal.jpg")
	require.NoError(t, os.WriteFile(image, []byte("fake image"), 0644))

	deck := NewDeck("Probability")
	basic := NewBasicModel("")
	deck.AddNote(NewNote(basic, `What is \(\mu\)?`, "The mean", `<img src="normal.jpg">`))
	cloze := NewClozeModel("")
	note := NewNote(cloze, "{{c1::Gauss}} studied the {{c2::normal}} law", "", "")
	note.Tags = []string{"history"}
	deck.AddNote(note)

	path, err := NewPackage(deck).WithMedia(image).WriteToFile(filepath.Join(dir, "out", "probability"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "probability.apkg"), path)

	archive, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer archive.Close()

	entries := make(map[string]*zip.File)
	for _, f := range archive.File {
		entries[f.Name] = f
	}
	require.Contains(t, entries, "collection.anki2")
	require.Contains(t, entries, "media")
	require.Contains(t, entries, "0")

	var mediaIndex map[string]string
	require.NoError(t, json.Unmarshal(readEntry(t, entries["media"]), &mediaIndex))
	assert.Equal(t, map[string]string{"0": "normal.jpg"}, mediaIndex)
	assert.Equal(t, "fake image", string(readEntry(t, entries["0"])))

	dbPath := filepath.Join(dir, "collection.anki2")
	require.NoError(t, os.WriteFile(dbPath, readEntry(t, entries["collection.anki2"]), 0644))
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var version int
	var decks string
	require.NoError(t, db.QueryRow("SELECT ver, decks FROM col").Scan(&version, &decks))
	assert.Equal(t, 11, version)
	assert.Contains(t, decks, `"name":"Probability"`)

	var notes, cards int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&notes))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cards))
	assert.Equal(t, 2, notes)
	assert.Equal(t, 3, cards) // 1 basic + 2 cloze deletions

	var sfld, tags string
	require.NoError(t, db.QueryRow("SELECT sfld, tags FROM notes WHERE mid = ?", cloze.ID).Scan(&sfld, &tags))
	assert.Equal(t, "{{c1::Gauss}} studied the {{c2::normal}} law", sfld)
	assert.Equal(t, " history ", tags)

	var deckID int64
	require.NoError(t, db.QueryRow("SELECT DISTINCT did FROM cards").Scan(&deckID))
	assert.Equal(t, deck.ID, deckID)
}

func TestWriteToFileRejectsUnknownMedia(t *testing.T) {
	dir := t.TempDir()
	_, err := NewPackage(NewDeck("Empty")).WithMedia(filepath.Join(dir, "notes.md")).WriteToFile(filepath.Join(dir, "deck.apkg"))
	assert.ErrorContains(t, err, "unsupported media file")
}

func TestWriteToFileRejectsDuplicateMediaNames(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "figure.png")
	second := filepath.Join(dir, "b", "figure.png")
	for _, path := range []string{first, second} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(path), 0644))
	}

	output := filepath.Join(dir, "deck.apkg")
	_, err := NewPackage(NewDeck("Figures")).WithMedia(first, second).WriteToFile(output)
	assert.ErrorContains(t, err, "duplicate media file name figure.png")
	assert.NoFileExists(t, output)
}

func readEntry(t *testing.T, f *zip.File) []byte {
	r, err := f.Open()
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
