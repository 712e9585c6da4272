package cubie

import (
	"fmt"
	"strings"
)

// FaceGrid is the 3x3 sticker layout of one face, row-major, as seen when
// the cube is unfolded into the standard net:
//
//	   U
//	L  F  R  B
//	   D
type FaceGrid [3][3]Color

// Center returns the color of the middle cell.
func (g FaceGrid) Center() Color {
	return g[1][1]
}

// Uniform reports whether all nine cells equal the center.
func (g FaceGrid) Uniform() bool {
	c := g.Center()
	for _, row := range g {
		for _, cell := range row {
			if cell != c {
				return false
			}
		}
	}
	return true
}

// Letters returns the nine color letters row by row.
func (g FaceGrid) Letters() string {
	var b strings.Builder
	b.Grow(9)
	for _, row := range g {
		for _, cell := range row {
			b.WriteByte(cell.Letter())
		}
	}
	return b.String()
}

func (g FaceGrid) String() string {
	var b strings.Builder
	for r, row := range g {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, cell := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(cell.Letter())
		}
	}
	return b.String()
}

// faceCells maps a (row, col) cell of a face's grid to the position of the
// piece whose sticker appears there.
var faceCells = [6]func(row, col int) Position{
	FaceU: func(row, col int) Position { return Position{X: col, Y: 2, Z: row} },
	FaceR: func(row, col int) Position { return Position{X: 2, Y: 2 - row, Z: 2 - col} },
	FaceF: func(row, col int) Position { return Position{X: col, Y: 2 - row, Z: 2} },
	FaceD: func(row, col int) Position { return Position{X: col, Y: 0, Z: 2 - row} },
	FaceL: func(row, col int) Position { return Position{X: 0, Y: 2 - row, Z: col} },
	FaceB: func(row, col int) Position { return Position{X: 2 - col, Y: 2 - row, Z: 0} },
}

// project reads the stickers showing on face f.
func project(r *Registry, g *Grid, f Face) (FaceGrid, error) {
	var out FaceGrid
	if !f.Valid() {
		return out, fmt.Errorf("%w: face %d", ErrInvalidFace, int(f))
	}
	cell := faceCells[f]
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			idx, ok := g.At(cell(row, col))
			if !ok {
				continue
			}
			p, err := r.Get(idx)
			if err != nil {
				return out, err
			}
			out[row][col], _ = p.ColorOn(f)
		}
	}
	return out, nil
}

// faceletString serializes all 54 stickers in U, R, F, D, L, B order using
// the solver alphabet.
func faceletString(r *Registry, g *Grid) (string, error) {
	var b strings.Builder
	b.Grow(54)
	for _, f := range Faces {
		grid, err := project(r, g, f)
		if err != nil {
			return "", err
		}
		for _, row := range grid {
			for _, cell := range row {
				b.WriteByte(cell.solverLetter())
			}
		}
	}
	return b.String(), nil
}
