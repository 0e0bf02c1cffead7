package qa

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileResult holds the pairs parsed from a single file.
type FileResult struct {
	Path  string
	Pairs []Pair
	Err   error
}

// ParseFile parses a file according to its extension.
// Files other than .csv, .tsv, .json, .yaml and .yml are read as flashcard text.
func ParseFile(path string) ([]Pair, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(content)

	var pairs []Pair
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		pairs, err = ParseCSV(text, ',')
	case ".tsv":
		pairs = ParseAnkiExport(text)
	case ".json":
		pairs, err = ParseJSON(text)
	case ".yaml", ".yml":
		pairs, err = ParseYAML(text)
	default:
		pairs = ParseFlashcardFormat(text)
	}
	if err != nil {
		return nil, err
	}
	for i := range pairs {
		pairs[i].Source = path
	}
	return pairs, nil
}

// BatchParseFiles parses files concurrently.
// Results are returned in the order of paths, a failing file not stopping the others.
func BatchParseFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Pairs, results[i].Err = ParseFile(path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Pairs returns all pairs parsed successfully.
func Pairs(results []FileResult) []Pair {
	var pairs []Pair
	for _, result := range results {
		pairs = append(pairs, result.Pairs...)
	}
	return pairs
}
