package cubie

import "fmt"

// Labels of the 26 pieces in registry order: centers, edges, corners.
// Each letter names a face the piece touches when solved.
var (
	centerLabels = []string{"U", "D", "F", "B", "R", "L"}
	edgeLabels   = []string{"UF", "UL", "UB", "UR", "DF", "DR", "DL", "DB", "FL", "FR", "BL", "BR"}
	cornerLabels = []string{"UFL", "UFR", "UBL", "UBR", "DFL", "DFR", "DBL", "DBR"}
)

// PieceCount is the number of movable pieces in the puzzle.
const PieceCount = 26

// Registry owns every piece of a puzzle. Pieces live in an arena addressed
// by a stable index; labels map to that index.
type Registry struct {
	pieces []Piece
	labels map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pieces: make([]Piece, 0, PieceCount),
		labels: make(map[string]int, PieceCount),
	}
}

// newSolvedRegistry creates the 26 pieces in the solved configuration.
func newSolvedRegistry() *Registry {
	r := NewRegistry()
	for _, group := range []struct {
		kind   Kind
		labels []string
	}{
		{Center, centerLabels},
		{Edge, edgeLabels},
		{Corner, cornerLabels},
	} {
		for _, label := range group.labels {
			p, err := solvedPiece(group.kind, label)
			if err != nil {
				// The label tables are fixed; failing here is a programming error.
				panic(err)
			}
			if _, err := r.Add(p); err != nil {
				panic(err)
			}
		}
	}
	return r
}

// solvedPiece builds a piece in its home position from its label.
func solvedPiece(kind Kind, label string) (Piece, error) {
	pos := Core
	stickers := make([]Sticker, 0, len(label))
	for i := 0; i < len(label); i++ {
		f, err := ParseFace(label[i : i+1])
		if err != nil {
			return Piece{}, err
		}
		switch f {
		case FaceU:
			pos.Y = 2
		case FaceD:
			pos.Y = 0
		case FaceF:
			pos.Z = 2
		case FaceB:
			pos.Z = 0
		case FaceR:
			pos.X = 2
		case FaceL:
			pos.X = 0
		}
		stickers = append(stickers, Sticker{Color: f.SolvedColor(), Face: f})
	}
	return NewPiece(kind, label, pos, stickers...)
}

// Add appends a piece and returns its index. Labels must be unique.
func (r *Registry) Add(p Piece) (int, error) {
	if _, ok := r.labels[p.Label]; ok {
		return 0, fmt.Errorf("cubie: duplicate piece label %q", p.Label)
	}
	idx := len(r.pieces)
	r.pieces = append(r.pieces, p)
	r.labels[p.Label] = idx
	return idx, nil
}

// Lookup returns the piece with the given label.
func (r *Registry) Lookup(label string) (Piece, error) {
	idx, ok := r.labels[label]
	if !ok {
		return Piece{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return r.pieces[idx], nil
}

// Index returns the arena index of a label.
func (r *Registry) Index(label string) (int, bool) {
	idx, ok := r.labels[label]
	return idx, ok
}

// Get returns the piece at an arena index.
func (r *Registry) Get(idx int) (Piece, error) {
	if idx < 0 || idx >= len(r.pieces) {
		return Piece{}, fmt.Errorf("%w: index %d", ErrNotFound, idx)
	}
	return r.pieces[idx], nil
}

// Pieces returns a copy of all pieces in insertion order.
func (r *Registry) Pieces() []Piece {
	out := make([]Piece, len(r.pieces))
	copy(out, r.pieces)
	return out
}

// Len returns the number of registered pieces.
func (r *Registry) Len() int {
	return len(r.pieces)
}

// piece returns a pointer into the arena for in-place mutation.
func (r *Registry) piece(idx int) *Piece {
	return &r.pieces[idx]
}

// clone creates a deep copy of the registry.
func (r *Registry) clone() *Registry {
	c := &Registry{
		pieces: make([]Piece, len(r.pieces)),
		labels: make(map[string]int, len(r.labels)),
	}
	copy(c.pieces, r.pieces)
	for k, v := range r.labels {
		c.labels[k] = v
	}
	return c
}
