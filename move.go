package cubie

import (
	"fmt"
	"strings"
	"time"
)

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees)
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn (180 degrees)
)

// Quarters returns how many clockwise quarter-turns make up the turn.
// CW is 1, Double is 2 and CCW is 3.
func (t Turn) Quarters() int {
	switch t {
	case CW:
		return 1
	case Double:
		return 2
	case CCW:
		return 3
	default:
		return 0
	}
}

// Move represents a logical move: a face, a turn and an optional timestamp.
type Move struct {
	Face Face      // Which face to turn
	Turn Turn      // Direction and amount
	Time time.Time // When the move occurred (optional)
}

// Valid reports whether the move is one of the 18 canonical moves.
func (m Move) Valid() bool {
	return m.Face.Valid() && m.Turn.Quarters() > 0
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, U, U', U2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return m.Face.String() + suffix
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R, R2 stays R2.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
		// Double is its own inverse
	}
	return inv
}

// Merge combines two moves of the same face.
// It returns nil if the faces differ or the moves cancel out.
func (m Move) Merge(other Move) *Move {
	if m.Face != other.Face {
		return nil
	}

	var turn Turn
	switch (m.Turn.Quarters() + other.Turn.Quarters()) % 4 {
	case 0:
		return nil
	case 1:
		turn = CW
	case 2:
		turn = Double
	case 3:
		turn = CCW
	}

	return &Move{Face: m.Face, Turn: turn, Time: other.Time}
}

// WithTime returns a copy of the move with the specified timestamp.
func (m Move) WithTime(t time.Time) Move {
	m.Time = t
	return m
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// ParseMove parses a standard notation token into a Move.
// The 18 valid tokens are a face letter (U, D, F, B, R, L) followed by
// nothing, ' or 2. Anything else fails with ErrInvalidFace.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, fmt.Errorf("%w: empty move", ErrInvalidFace)
	}

	// Lower-case letters are wide moves in WCA notation, not face turns.
	if strings.IndexByte("URFDLB", s[0]) < 0 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidFace, s)
	}
	face, _ := ParseFace(s[:1])

	turn := CW // Default is clockwise
	if len(s) > 1 {
		switch s[1:] {
		case "'":
			turn = CCW
		case "2":
			turn = Double
		default:
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidFace, s)
		}
	}

	return Move{Face: face, Turn: turn}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'"
// The whole sequence is rejected if any token is invalid.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for i, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// MergeMoves merges adjacent same-face moves.
// For example: R R becomes R2, R R R becomes R', R R' cancels out.
func MergeMoves(moves []Move) []Move {
	result := make([]Move, 0, len(moves))

	for _, move := range moves {
		if len(result) == 0 {
			result = append(result, move)
			continue
		}

		last := &result[len(result)-1]
		if last.Face != move.Face {
			result = append(result, move)
			continue
		}

		merged := last.Merge(move)
		if merged == nil {
			// Moves cancelled out - remove the last move
			result = result[:len(result)-1]
		} else {
			*last = *merged
		}
	}

	return result
}

// InvertMoves returns the sequence that undoes moves.
func InvertMoves(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
