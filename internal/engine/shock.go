package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// ShockSource draws the commodity shock for a turn.
type ShockSource interface {
	Draw() Shock
}

// #region rand-source
// RandSource draws shocks uniformly with a seeded PRNG. Not safe for
// concurrent use; a session serializes its draws.
type RandSource struct {
	seed int64
	rng  *rand.Rand
}

// NewRandSource returns a deterministic source for the given seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Draw picks one of Shocks.
func (r *RandSource) Draw() Shock {
	return Shocks[r.rng.Intn(len(Shocks))]
}

// Seed reports the seed the source was built with.
func (r *RandSource) Seed() int64 {
	return r.seed
}

// NewSeed generates a high-entropy seed for games started without one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// #endregion rand-source

// #region sequence-source
// SequenceSource replays a fixed list of shocks, wrapping around at the end.
type SequenceSource struct {
	shocks []Shock
	next   int
}

// NewSequenceSource returns a source that yields shocks in order.
// An empty list always yields 0.
func NewSequenceSource(shocks ...Shock) *SequenceSource {
	cp := make([]Shock, len(shocks))
	copy(cp, shocks)
	return &SequenceSource{shocks: cp}
}

// Draw returns the next shock in the sequence.
func (s *SequenceSource) Draw() Shock {
	if len(s.shocks) == 0 {
		return 0
	}
	v := s.shocks[s.next%len(s.shocks)]
	s.next++
	return v
}

// #endregion sequence-source
