package cubie

import (
	"fmt"
	"strings"
)

// Puzzle is a 3x3x3 cube modeled as 26 pieces.
//
// Moves permute and reorient pieces in place; face colors are derived from
// the pieces on demand. A Puzzle is owned by a single goroutine. Callers
// sharing one across goroutines must serialize access themselves.
type Puzzle struct {
	reg     *Registry
	grid    *Grid
	history []Move
	cfg     *config
}

// New creates a puzzle in the solved state with an empty move history.
func New(opts ...Option) *Puzzle {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Puzzle{cfg: cfg}
	p.init()
	return p
}

func (p *Puzzle) init() {
	p.reg = newSolvedRegistry()
	p.grid = NewGrid()
	p.grid.Rebuild(p.reg.pieces)
	p.history = nil
}

// Reset returns the puzzle to the solved state and clears the history.
func (p *Puzzle) Reset() {
	p.init()
	p.cfg.logger.Debug("puzzle reset")
}

// Clone creates a deep copy of the puzzle, history included.
// The clone shares the original's options.
func (p *Puzzle) Clone() *Puzzle {
	c := &Puzzle{
		reg:     p.reg.clone(),
		grid:    NewGrid(),
		history: make([]Move, len(p.history)),
		cfg:     p.cfg,
	}
	c.grid.cells = p.grid.cells
	copy(c.history, p.history)
	return c
}

// Apply applies logical moves in order.
//
// The sequence is all-or-nothing: every move is validated before any is
// applied, and if a move fails part way the puzzle is restored to its
// state before the call. Move callbacks run only once every move has been
// applied. Invalid moves fail with ErrInvalidFace.
func (p *Puzzle) Apply(moves ...Move) error {
	for _, m := range moves {
		if !m.Valid() {
			return fmt.Errorf("%w: face %d turn %d", ErrInvalidFace, int(m.Face), int(m.Turn))
		}
	}

	var snapshot *Puzzle
	if len(moves) > 1 {
		snapshot = p.Clone()
	}

	for _, m := range moves {
		if err := p.turn(m); err != nil {
			if snapshot != nil {
				p.reg, p.grid, p.history = snapshot.reg, snapshot.grid, snapshot.history
			}
			return err
		}
	}
	for _, m := range moves {
		p.notify(m)
	}
	return nil
}

// ApplyNotation parses a space-separated move sequence and applies it.
// Nothing is applied if any token is invalid.
func (p *Puzzle) ApplyNotation(s string) error {
	moves, err := ParseMoves(s)
	if err != nil {
		return err
	}
	return p.Apply(moves...)
}

// apply performs one logical move and records it once, however many
// quarter-turns it decomposes into.
func (p *Puzzle) apply(m Move) error {
	if err := p.turn(m); err != nil {
		return err
	}
	p.notify(m)
	return nil
}

// turn moves the pieces and records the move without telling anyone.
func (p *Puzzle) turn(m Move) error {
	if err := turn(p.reg, p.grid, m.Face, m.Turn.Quarters()); err != nil {
		return fmt.Errorf("failed to apply %s: %w", m.Notation(), err)
	}
	p.recordMove(m)
	return nil
}

// notify logs m and runs the move callback. Apply holds notifications
// until the whole sequence has succeeded.
func (p *Puzzle) notify(m Move) {
	p.cfg.logger.Debug("move applied", "move", m.Notation())
	if p.cfg.onMove != nil {
		p.cfg.onMove(m)
	}
}

// recordMove appends to the move log. Validation happened in the engine.
func (p *Puzzle) recordMove(m Move) {
	p.history = append(p.history, m)
}

// mustApply applies a canonical move. The only possible failure is a
// registry/grid desynchronization, which is a bug.
func (p *Puzzle) mustApply(m Move) {
	if err := p.apply(m); err != nil {
		panic(err)
	}
}

// One method per logical move.

func (p *Puzzle) U()      { p.mustApply(U) }
func (p *Puzzle) UPrime() { p.mustApply(UPrime) }
func (p *Puzzle) U2()     { p.mustApply(U2) }
func (p *Puzzle) D()      { p.mustApply(D) }
func (p *Puzzle) DPrime() { p.mustApply(DPrime) }
func (p *Puzzle) D2()     { p.mustApply(D2) }
func (p *Puzzle) F()      { p.mustApply(F) }
func (p *Puzzle) FPrime() { p.mustApply(FPrime) }
func (p *Puzzle) F2()     { p.mustApply(F2) }
func (p *Puzzle) B()      { p.mustApply(B) }
func (p *Puzzle) BPrime() { p.mustApply(BPrime) }
func (p *Puzzle) B2()     { p.mustApply(B2) }
func (p *Puzzle) R()      { p.mustApply(R) }
func (p *Puzzle) RPrime() { p.mustApply(RPrime) }
func (p *Puzzle) R2()     { p.mustApply(R2) }
func (p *Puzzle) L()      { p.mustApply(L) }
func (p *Puzzle) LPrime() { p.mustApply(LPrime) }
func (p *Puzzle) L2()     { p.mustApply(L2) }

// History returns the notation of every logical move, oldest first.
func (p *Puzzle) History() []string {
	out := make([]string, len(p.history))
	for i, m := range p.history {
		out[i] = m.Notation()
	}
	return out
}

// Moves returns a copy of the move log.
func (p *Puzzle) Moves() []Move {
	out := make([]Move, len(p.history))
	copy(out, p.history)
	return out
}

// Project returns the 3x3 color grid of a face.
func (p *Puzzle) Project(f Face) (FaceGrid, error) {
	return project(p.reg, p.grid, f)
}

// ProjectLetters returns a face as nine color letters, row by row.
func (p *Puzzle) ProjectLetters(f Face) (string, error) {
	g, err := p.Project(f)
	if err != nil {
		return "", err
	}
	return g.Letters(), nil
}

// FaceletString serializes the puzzle as 54 facelets in U, R, F, D, L, B
// order, each color written as the face it belongs to when solved.
func (p *Puzzle) FaceletString() string {
	s, err := faceletString(p.reg, p.grid)
	if err != nil {
		panic(err)
	}
	return s
}

// IsSolved reports whether every face shows a single color.
func (p *Puzzle) IsSolved() bool {
	for _, f := range Faces {
		g, err := p.Project(f)
		if err != nil || !g.Uniform() {
			return false
		}
	}
	return true
}

// PieceAt returns the piece at a grid position. The center of the volume
// is always empty. Out-of-range positions panic.
func (p *Puzzle) PieceAt(pos Position) (Piece, bool) {
	idx, ok := p.grid.At(pos)
	if !ok {
		return Piece{}, false
	}
	return p.reg.pieces[idx], true
}

// Piece returns the piece with the given label.
func (p *Puzzle) Piece(label string) (Piece, error) {
	return p.reg.Lookup(label)
}

// PieceByColors returns the piece whose color set is exactly colors.
func (p *Puzzle) PieceByColors(colors ...Color) (Piece, error) {
	for _, piece := range p.reg.pieces {
		if piece.HasColors(colors...) {
			return piece, nil
		}
	}
	return Piece{}, fmt.Errorf("%w: colors %v", ErrNotFound, colors)
}

// Pieces returns every piece in registry order: centers, edges, corners.
func (p *Puzzle) Pieces() []Piece {
	return p.reg.Pieces()
}

// Rebuild resynchronizes the position grid from the pieces.
// Moves keep the grid current, so this is only needed after out-of-band
// changes to piece positions.
func (p *Puzzle) Rebuild() {
	p.grid.Rebuild(p.reg.pieces)
}

// String returns the unfolded net as text.
func (p *Puzzle) String() string {
	var grids [6]FaceGrid
	for _, f := range Faces {
		grids[f], _ = p.Project(f)
	}

	var b strings.Builder
	writeRow := func(g FaceGrid, row int) {
		for _, c := range g[row] {
			b.WriteByte(c.Letter())
			b.WriteByte(' ')
		}
	}

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		writeRow(grids[FaceU], row)
		b.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, f := range []Face{FaceL, FaceF, FaceR, FaceB} {
			writeRow(grids[f], row)
		}
		b.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		writeRow(grids[FaceD], row)
		b.WriteString("\n")
	}

	return b.String()
}
