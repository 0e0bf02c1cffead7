package oid

import "math/rand/v2"

// MinID and MaxID bound the IDs of models and decks (MaxID excluded).
const (
	MinID int64 = 1 << 30
	MaxID int64 = 1 << 31
)

var ids IDGenerator = randomIDs{}

type IDGenerator interface {
	NextID() int64
}

// NewID returns an integer ID in [MinID, MaxID).
func NewID() int64 {
	return ids.NextID()
}

// Reset restores random IDs.
func Reset() {
	ids = randomIDs{}
}

type randomIDs struct{}

func (randomIDs) NextID() int64 {
	return MinID + rand.Int64N(MaxID-MinID)
}

// SequenceIDs returns MinID+1, MinID+2, ...
type SequenceIDs struct {
	count int64
}

func (g *SequenceIDs) NextID() int64 {
	g.count++
	return MinID + g.count
}
