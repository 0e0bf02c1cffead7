package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger().SetOutput(&buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger.SetVerboseLevel(VerboseDebug)
	logger.Debugf("deck %q", "Go")
	logger.Tracef("too %s", "verbose")
	logger.Dump("note", struct{ Name string }{"Go"})
	assert.Contains(t, buf.String(), `deck \"Go\"`)
	assert.NotContains(t, buf.String(), "too verbose")
	assert.NotContains(t, buf.String(), "note")

	buf.Reset()
	logger.SetVerboseLevel(VerboseTrace)
	logger.Dump("note", struct{ Name string }{"Go"})
	assert.Contains(t, buf.String(), "Name")
}

func TestLogOperation(t *testing.T) {
	clock.FreezeForTest(t, time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC))
	color.NoColor = true

	var buf bytes.Buffer
	logger := NewLogger().SetOutput(&buf)
	logger.LogOperation("Import", "deck.apkg", true)
	logger.LogOperation("Import", "broken.apkg", false)

	assert.Equal(t, "[2023-01-01 12:00:00] ✅ Import: deck.apkg\n[2023-01-01 12:00:00] ❌ Import: broken.apkg\n", buf.String())
}
