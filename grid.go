package cubie

import "fmt"

// empty marks a grid cell with no piece.
const empty = -1

// Grid indexes the 3x3x3 volume: cell -> arena index of the piece there.
// It is derived from piece positions and is never the source of truth.
type Grid struct {
	cells [27]int
}

// NewGrid creates a grid with every cell empty.
func NewGrid() *Grid {
	g := &Grid{}
	g.clear()
	return g
}

func (g *Grid) clear() {
	for i := range g.cells {
		g.cells[i] = empty
	}
}

// Rebuild clears the grid and repopulates it from piece positions.
// Calling it repeatedly with the same pieces gives the same grid.
func (g *Grid) Rebuild(pieces []Piece) {
	g.clear()
	for idx, p := range pieces {
		g.cells[p.Position.index()] = idx
	}
}

// At returns the arena index of the piece at pos.
// Coordinates outside 0..2 violate the grid's contract and panic.
func (g *Grid) At(pos Position) (int, bool) {
	if !pos.InRange() {
		panic(fmt.Sprintf("cubie: grid position %v out of range", pos))
	}
	idx := g.cells[pos.index()]
	return idx, idx != empty
}

// set records idx at pos.
func (g *Grid) set(pos Position, idx int) {
	g.cells[pos.index()] = idx
}

// Occupied returns the number of cells holding a piece.
func (g *Grid) Occupied() int {
	n := 0
	for _, idx := range g.cells {
		if idx != empty {
			n++
		}
	}
	return n
}
