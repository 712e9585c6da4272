// Package notation turns moves into plain-language descriptions.
package notation

import (
	"strings"

	"github.com/SeamusWaldron/cubie"
)

// Phrasing assumes the puzzle is held with U on top and F facing you.
// Each face has a phrase for its clockwise and counter-clockwise turn;
// half turns repeat the clockwise phrase.
var phrases = [6][2]string{
	cubie.FaceU: {"top rotate left", "top rotate right"},
	cubie.FaceR: {"right up", "right down"},
	cubie.FaceF: {"front clockwise", "front anti-clockwise"},
	cubie.FaceD: {"bottom rotate right", "bottom rotate left"},
	cubie.FaceL: {"left down", "left up"},
	cubie.FaceB: {"back clockwise", "back anti-clockwise"},
}

// Describe returns a plain-language description of a move, for example
// "right up" for R or "top rotate left x 2" for U2.
func Describe(m cubie.Move) string {
	if !m.Valid() {
		return "?"
	}
	p := phrases[m.Face]
	switch m.Turn {
	case cubie.CCW:
		return p[1]
	case cubie.Double:
		return p[0] + " x 2"
	default:
		return p[0]
	}
}

// DescribeAll describes a sequence, one move per line.
func DescribeAll(moves []cubie.Move) string {
	lines := make([]string, len(moves))
	for i, m := range moves {
		lines[i] = m.Notation() + "\t" + Describe(m)
	}
	return strings.Join(lines, "\n")
}
