package oid

import "testing"

// UseSequence makes IDs predictable (MinID+1, MinID+2, ...) until the end of the test.
func UseSequence(t testing.TB) {
	ids = &SequenceIDs{}
	t.Cleanup(Reset)
}
