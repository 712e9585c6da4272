package cubie

import (
	"fmt"
	"strings"
)

// Kind distinguishes the three piece variants.
type Kind uint8

const (
	Center Kind = iota + 1 // One sticker, never moves
	Edge                   // Two stickers
	Corner                 // Three stickers
)

func (k Kind) String() string {
	switch k {
	case Center:
		return "center"
	case Edge:
		return "edge"
	case Corner:
		return "corner"
	default:
		return "unknown"
	}
}

// Arity returns the number of stickers a piece of this kind carries.
func (k Kind) Arity() int {
	switch k {
	case Center:
		return 1
	case Edge:
		return 2
	case Corner:
		return 3
	default:
		return 0
	}
}

// Sticker assigns a color to the face it currently shows on.
type Sticker struct {
	Color Color
	Face  Face
}

// Piece is a physical cubie: a stable label, a position in the grid and
// a color-to-face mapping whose size is fixed by its Kind.
type Piece struct {
	Label    string
	Kind     Kind
	Position Position

	stickers [3]Sticker
	n        uint8
}

// NewPiece creates a piece, checking that the stickers match the kind.
// Colors must be distinct and so must faces; otherwise the mapping would
// have fewer entries than the kind requires and ErrInvalidArity is returned.
func NewPiece(kind Kind, label string, pos Position, stickers ...Sticker) (Piece, error) {
	want := kind.Arity()
	if want == 0 {
		return Piece{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidArity, kind)
	}
	if len(stickers) != want {
		return Piece{}, fmt.Errorf("%w: %s %s has %d stickers, want %d", ErrInvalidArity, kind, label, len(stickers), want)
	}
	if !pos.InRange() || pos == Core {
		return Piece{}, fmt.Errorf("cubie: piece %s has invalid position %v", label, pos)
	}

	p := Piece{Label: label, Kind: kind, Position: pos, n: uint8(want)}
	for i, s := range stickers {
		if s.Color == NoColor || !s.Face.Valid() {
			return Piece{}, fmt.Errorf("%w: %s %s has invalid sticker %v", ErrInvalidArity, kind, label, s)
		}
		for _, prev := range stickers[:i] {
			if prev.Color == s.Color || prev.Face == s.Face {
				return Piece{}, fmt.Errorf("%w: %s %s repeats %v", ErrInvalidArity, kind, label, s)
			}
		}
		p.stickers[i] = s
	}
	return p, nil
}

// Stickers returns a copy of the piece's color-to-face mapping.
func (p Piece) Stickers() []Sticker {
	out := make([]Sticker, p.n)
	copy(out, p.stickers[:p.n])
	return out
}

// Len returns the number of stickers on the piece.
func (p Piece) Len() int {
	return int(p.n)
}

// Colors returns the piece's colors in construction order.
func (p Piece) Colors() []Color {
	out := make([]Color, p.n)
	for i := range out {
		out[i] = p.stickers[i].Color
	}
	return out
}

// FaceOf returns the face a color is currently showing on.
func (p Piece) FaceOf(c Color) (Face, bool) {
	for _, s := range p.stickers[:p.n] {
		if s.Color == c {
			return s.Face, true
		}
	}
	return 0, false
}

// ColorOn returns the color the piece shows on a face.
func (p Piece) ColorOn(f Face) (Color, bool) {
	for _, s := range p.stickers[:p.n] {
		if s.Face == f {
			return s.Color, true
		}
	}
	return NoColor, false
}

// HasColors reports whether the piece's color set equals colors exactly.
func (p Piece) HasColors(colors ...Color) bool {
	if len(colors) != int(p.n) {
		return false
	}
	for i, c := range colors {
		if _, ok := p.FaceOf(c); !ok {
			return false
		}
		for _, prev := range colors[:i] {
			if prev == c {
				return false
			}
		}
	}
	return true
}

// reorient remaps every sticker's face through a face permutation.
func (p *Piece) reorient(table *[6]Face) {
	for i := range p.stickers[:p.n] {
		p.stickers[i].Face = table[p.stickers[i].Face]
	}
}

func (p Piece) String() string {
	parts := make([]string, p.n)
	for i, s := range p.stickers[:p.n] {
		parts[i] = s.Color.String() + ":" + s.Face.String()
	}
	return fmt.Sprintf("%s %s at %v {%s}", p.Kind, p.Label, p.Position, strings.Join(parts, " "))
}
