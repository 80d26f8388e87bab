// Package randomizer provides the piece-sequence generators consumed by the
// engine. Every generator is seeded explicitly and fully deterministic: two
// instances created with the same id and seed produce identical sequences,
// which is what makes recorded games replayable.
package randomizer

import (
	"math/rand"

	"github.com/nvasile/blockfall/internal/engine"
)

// New builds the randomizer for the given id. An unknown id is a
// programming error.
func New(id engine.RandomizerID, seed uint64) engine.Randomizer {
	switch id {
	case engine.RandSimple:
		return newSimple(seed)
	case engine.RandBag7:
		return newBag(seed, false)
	case engine.RandNoSZOBag7:
		return newBag(seed, true)
	default:
		panic("randomizer: unknown randomizer id")
	}
}

// Simple is memoryless: every draw is uniform over the seven pieces.
type Simple struct {
	rng *rand.Rand
}

func newSimple(seed uint64) *Simple {
	s := &Simple{}
	s.Reset(seed)
	return s
}

// Reset reinitializes the sequence from the seed.
func (s *Simple) Reset(seed uint64) {
	s.rng = rand.New(rand.NewSource(int64(seed)))
}

// Next returns the next piece type.
func (s *Simple) Next() engine.Piece {
	return engine.Piece(s.rng.Intn(engine.NumPieces))
}

// Bag deals shuffled permutations of all seven pieces. With noSZOStart set,
// the opening bag is reshuffled until the first piece is not S, Z or O, so a
// game never opens with a forced overhang.
type Bag struct {
	rng        *rand.Rand
	bag        [engine.NumPieces]engine.Piece
	index      int
	noSZOStart bool
}

func newBag(seed uint64, noSZOStart bool) *Bag {
	b := &Bag{noSZOStart: noSZOStart}
	b.Reset(seed)
	return b
}

// Reset reinitializes the sequence from the seed and deals a fresh bag.
func (b *Bag) Reset(seed uint64) {
	b.rng = rand.New(rand.NewSource(int64(seed)))
	b.index = 0
	for i := range b.bag {
		b.bag[i] = engine.Piece(i)
	}

	for {
		b.shuffle()
		if !b.noSZOStart {
			return
		}
		switch b.bag[0] {
		case engine.PieceS, engine.PieceZ, engine.PieceO:
			continue
		}
		return
	}
}

// Next returns the next piece type, reshuffling when the bag empties.
func (b *Bag) Next() engine.Piece {
	p := b.bag[b.index]
	b.index++
	if b.index == engine.NumPieces {
		b.index = 0
		b.shuffle()
	}
	return p
}

// shuffle is a Fisher-Yates pass over the bag.
func (b *Bag) shuffle() {
	for i := engine.NumPieces - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	}
}
