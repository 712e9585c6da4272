package cubie

import (
	"errors"
	"testing"
)

func TestNewPieceArity(t *testing.T) {
	pos := Position{X: 2, Y: 2, Z: 2}
	corner := []Sticker{{Yellow, FaceU}, {Red, FaceR}, {Blue, FaceF}}

	if _, err := NewPiece(Corner, "UFR", pos, corner...); err != nil {
		t.Fatalf("valid corner rejected: %v", err)
	}

	tests := []struct {
		name     string
		kind     Kind
		stickers []Sticker
	}{
		{"corner with two", Corner, corner[:2]},
		{"edge with three", Edge, corner},
		{"center with none", Center, nil},
		{"repeated color", Corner, []Sticker{{Yellow, FaceU}, {Yellow, FaceR}, {Blue, FaceF}}},
		{"repeated face", Corner, []Sticker{{Yellow, FaceU}, {Red, FaceU}, {Blue, FaceF}}},
		{"no color", Edge, []Sticker{{NoColor, FaceU}, {Red, FaceR}}},
		{"unknown kind", Kind(9), corner},
	}
	for _, tt := range tests {
		if _, err := NewPiece(tt.kind, "X", pos, tt.stickers...); !errors.Is(err, ErrInvalidArity) {
			t.Errorf("%s: error = %v, want ErrInvalidArity", tt.name, err)
		}
	}
}

func TestNewPieceRejectsCore(t *testing.T) {
	if _, err := NewPiece(Center, "U", Core, Sticker{Yellow, FaceU}); err == nil {
		t.Error("piece at the core should be rejected")
	}
}

func TestSolvedRegistry(t *testing.T) {
	r := newSolvedRegistry()
	if r.Len() != PieceCount {
		t.Fatalf("registry has %d pieces, want %d", r.Len(), PieceCount)
	}

	counts := map[Kind]int{}
	for _, p := range r.Pieces() {
		counts[p.Kind]++
		if p.Len() != p.Kind.Arity() {
			t.Errorf("%s has %d stickers, want %d", p.Label, p.Len(), p.Kind.Arity())
		}
		if !p.IsHome() {
			t.Errorf("%s is not home in the solved registry", p)
		}
	}
	if counts[Center] != 6 || counts[Edge] != 12 || counts[Corner] != 8 {
		t.Errorf("kind counts = %v", counts)
	}

	if _, err := r.Add(r.pieces[0]); err == nil {
		t.Error("duplicate label should be rejected")
	}
	if _, err := r.Get(PieceCount); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get out of range error = %v, want ErrNotFound", err)
	}
}

func TestPieceColorQueries(t *testing.T) {
	p, err := newSolvedRegistry().Lookup("DFR")
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := p.ColorOn(FaceD); !ok || c != White {
		t.Errorf("ColorOn(D) = %v, %v", c, ok)
	}
	if _, ok := p.ColorOn(FaceU); ok {
		t.Error("DFR should show nothing on U")
	}
	if !p.HasColors(Red, White, Blue) {
		t.Error("HasColors should ignore order")
	}
	if p.HasColors(White, Blue) || p.HasColors(White, White, Blue) {
		t.Error("HasColors should require the exact set")
	}
}
