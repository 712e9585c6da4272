// Package scramble generates random move sequences for the puzzle.
package scramble

import (
	"math/rand/v2"
	"time"

	"github.com/SeamusWaldron/cubie"
)

// DefaultLength is the scramble length used when none is configured.
const DefaultLength = 20

// Scrambler generates scrambles and remembers the ones it produced.
type Scrambler struct {
	rng     *rand.Rand
	history [][]cubie.Move
}

// New creates a scrambler seeded from the clock.
func New() *Scrambler {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a deterministic scrambler. Equal seeds give equal
// scramble sequences.
func NewSeeded(seed int64) *Scrambler {
	return &Scrambler{rng: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Generate returns length random moves, never turning the same face twice
// in a row. A non-positive length yields DefaultLength moves.
func (s *Scrambler) Generate(length int) []cubie.Move {
	if length <= 0 {
		length = DefaultLength
	}

	moves := make([]cubie.Move, 0, length)
	last := cubie.Face(-1)
	for len(moves) < length {
		m := cubie.AllMoves[s.rng.IntN(len(cubie.AllMoves))]
		if m.Face == last {
			continue
		}
		moves = append(moves, m)
		last = m.Face
	}

	s.history = append(s.history, moves)
	return moves
}

// History returns every scramble generated so far, oldest first.
func (s *Scrambler) History() [][]cubie.Move {
	out := make([][]cubie.Move, len(s.history))
	copy(out, s.history)
	return out
}

// Apply scrambles p with a fresh sequence and returns the moves used.
func (s *Scrambler) Apply(p *cubie.Puzzle, length int) ([]cubie.Move, error) {
	moves := s.Generate(length)
	if err := p.Apply(moves...); err != nil {
		return nil, err
	}
	return moves, nil
}
