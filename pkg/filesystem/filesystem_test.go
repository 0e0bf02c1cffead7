package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/ky489401/anki-canonical/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	var tests = []struct {
		size     int64
		expected string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * filesystem.MB, "5.0 MB"},
		{3 * filesystem.GB, "3.0 GB"},
		{2 * filesystem.TB, "2.0 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, filesystem.FormatFileSize(tt.size))
		})
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.apkg")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0644))

	stats := filesystem.Stats(path)
	assert.True(t, stats.Exists)
	assert.Equal(t, int64(2048), stats.SizeBytes)
	assert.InDelta(t, 2048.0/(1024*1024), stats.SizeMB, 1e-9)
	assert.Equal(t, ".apkg", stats.Extension)
	assert.WithinDuration(t, time.Now(), stats.Modified, time.Minute)

	assert.False(t, filesystem.Stats(filepath.Join(dir, "missing")).Exists)
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 100), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), make([]byte, 50), 0644))

	size, err := filesystem.DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
}

func TestSetupOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "decks")
	abs, err := filesystem.SetupOutputDirectory(dir)
	require.NoError(t, err)
	assert.DirExists(t, abs)

	// Existing directories are accepted
	_, err = filesystem.SetupOutputDirectory(dir)
	assert.NoError(t, err)
}

func TestBackupFile(t *testing.T) {
	clock.FreezeForTest(t, time.Date(2023, time.March, 4, 5, 6, 7, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "deck.apkg")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	backup, err := filesystem.BackupFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "deck.20230304_050607.apkg"), backup)
	content, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	_, err = filesystem.BackupFile(filepath.Join(t.TempDir(), "missing.apkg"))
	assert.Error(t, err)
}

func TestCleanFilename(t *testing.T) {
	var tests = []struct {
		input    string
		expected string
	}{
		{"deck.apkg", "deck.apkg"},
		{"Go: basics?", "Go_ basics"},
		{"a//b\\\\c", "a_b_c"},
		{"<<name>>", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, filesystem.CleanFilename(tt.input))
		})
	}
}
