package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUpFromGoldenFileNamed(t *testing.T) {
	path := SetUpFromGoldenFileNamed(t, "cards.txt")
	assert.Equal(t, "cards.txt", filepath.Base(path))
	assert.NotEqual(t, filepath.Join("testdata", "cards.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, GoldenFileNamed(t, "cards.txt"), content)
}

func TestSetUpFromFileContent(t *testing.T) {
	path := SetUpFromFileContent(t, "deck.json", `{"q": "A?"}`)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"q": "A?"}`, string(content))
}

func TestAssertGoldenFile(t *testing.T) {
	AssertGoldenFile(t, "cards.txt", "  Q: What is a golden file?\nA: A reference output stored under testdata/.")
}
