package protocol

import "github.com/SeamusWaldron/cubie"

// colorFace maps a center color to the face it sits on when the puzzle is
// held in its reference orientation.
func colorFace(c cubie.Color) (cubie.Face, bool) {
	for _, f := range cubie.Faces {
		if f.SolvedColor() == c {
			return f, true
		}
	}
	return 0, false
}

// RotationToMove converts a rotation event to a puzzle move.
func RotationToMove(rot RotationEvent) (cubie.Move, bool) {
	face, ok := colorFace(rot.Color)
	if !ok {
		return cubie.Move{}, false
	}
	turn := cubie.CW
	if !rot.Clockwise {
		turn = cubie.CCW
	}
	return cubie.Move{Face: face, Turn: turn}, true
}

// RotationsToMoves converts the rotations of one notification to moves,
// merging adjacent turns of the same face (R R becomes R2).
func RotationsToMoves(rotations []RotationEvent) []cubie.Move {
	moves := make([]cubie.Move, 0, len(rotations))
	for _, rot := range rotations {
		if m, ok := RotationToMove(rot); ok {
			moves = append(moves, m)
		}
	}
	return cubie.MergeMoves(moves)
}
