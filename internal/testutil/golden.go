// Package testutil provides fixtures based on files under testdata/.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run "go test ./... -update" to rewrite golden files with the actual output.
var update = flag.Bool("update", false, "update golden files")

// SetUpFromGoldenFileNamed copies a file from testdata/ into a temp directory
// and returns its path. Tests can modify the copy freely.
func SetUpFromGoldenFileNamed(t testing.TB, filename string) string {
	t.Helper()
	return SetUpFromFileContent(t, filepath.Base(filename), string(GoldenFileNamed(t, filename)))
}

// SetUpFromFileContent creates a temp file with the given content and returns its path.
func SetUpFromFileContent(t testing.TB, filename string, content string) string {
	t.Helper()
	fileOut := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(fileOut, []byte(content), 0644))
	return fileOut
}

// GoldenFileNamed reads the content of the given golden file.
func GoldenFileNamed(t testing.TB, filename string) []byte {
	t.Helper()
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return b
}

// AssertGoldenFile compares actual with a golden file, ignoring surrounding whitespace.
// The golden file is rewritten instead when the -update flag is set.
func AssertGoldenFile(t testing.TB, filename string, actual string) {
	t.Helper()
	if *update {
		path := filepath.Join("testdata", filename)
		require.NoError(t, os.WriteFile(path, []byte(actual), 0644))
		return
	}
	expected := string(GoldenFileNamed(t, filename))
	assert.Equal(t, strings.TrimSpace(expected), strings.TrimSpace(actual))
}
