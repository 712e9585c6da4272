package cubie

import "fmt"

// Face represents a side of the cube.
// Faces are numbered in facelet-string order: U, R, F, D, L, B.
type Face int

const (
	FaceU Face = iota // Up
	FaceR             // Right
	FaceF             // Front
	FaceD             // Down
	FaceL             // Left
	FaceB             // Back
)

// Faces lists all six faces in facelet-string order.
var Faces = [6]Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= FaceU && f <= FaceB
}

func (f Face) String() string {
	switch f {
	case FaceU:
		return "U"
	case FaceR:
		return "R"
	case FaceF:
		return "F"
	case FaceD:
		return "D"
	case FaceL:
		return "L"
	case FaceB:
		return "B"
	default:
		return "?"
	}
}

// SolvedColor returns the color a face shows when the puzzle is solved.
func (f Face) SolvedColor() Color {
	if !f.Valid() {
		return NoColor
	}
	return Colors[f]
}

// ParseFace parses a single face letter (U, R, F, D, L, B).
func ParseFace(s string) (Face, error) {
	switch s {
	case "U", "u":
		return FaceU, nil
	case "R", "r":
		return FaceR, nil
	case "F", "f":
		return FaceF, nil
	case "D", "d":
		return FaceD, nil
	case "L", "l":
		return FaceL, nil
	case "B", "b":
		return FaceB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFace, s)
}

// Position is a cell of the 3x3x3 grid.
// X runs left to right, Y down to up and Z back to front, each in 0..2.
type Position struct {
	X, Y, Z int
}

// Core is the cell at the center of the volume. No piece ever occupies it.
var Core = Position{1, 1, 1}

// InRange reports whether every coordinate lies in 0..2.
func (p Position) InRange() bool {
	return p.X >= 0 && p.X <= 2 && p.Y >= 0 && p.Y <= 2 && p.Z >= 0 && p.Z <= 2
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// index flattens the position into 0..26.
func (p Position) index() int {
	return p.X*9 + p.Y*3 + p.Z
}

// positionAt is the inverse of Position.index.
func positionAt(i int) Position {
	return Position{X: i / 9, Y: (i / 3) % 3, Z: i % 3}
}
