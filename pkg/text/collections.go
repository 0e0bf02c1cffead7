package text

import (
	"maps"

	"golang.org/x/exp/slices"
)

// ChunkList splits values into consecutive chunks of at most size elements.
func ChunkList[T any](values []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	var chunks [][]T
	for i := 0; i < len(values); i += size {
		chunks = append(chunks, values[i:min(i+size, len(values))])
	}
	return chunks
}

// MergeMaps merges maps into a new one, later maps taking precedence.
func MergeMaps[K comparable, V any](ms ...map[K]V) map[K]V {
	result := make(map[K]V)
	for _, m := range ms {
		maps.Copy(result, m)
	}
	return result
}

// FindDuplicates returns the values present more than once, sorted.
func FindDuplicates(values []string) []string {
	seen := make(map[string]bool)
	var duplicates []string
	for _, value := range values {
		if seen[value] && !slices.Contains(duplicates, value) {
			duplicates = append(duplicates, value)
		}
		seen[value] = true
	}
	slices.Sort(duplicates)
	return duplicates
}
