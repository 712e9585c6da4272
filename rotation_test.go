package cubie

import (
	"errors"
	"testing"
)

// Outward unit normals, used to check the tables against a real rotation.
var normals = [6][3]int{
	FaceU: {0, 1, 0},
	FaceR: {1, 0, 0},
	FaceF: {0, 0, 1},
	FaceD: {0, -1, 0},
	FaceL: {-1, 0, 0},
	FaceB: {0, 0, -1},
}

// rotateCW turns v a quarter clockwise as seen from outside along n:
// v' = n(n.v) - n x v.
func rotateCW(n, v [3]int) [3]int {
	cross := [3]int{
		n[1]*v[2] - n[2]*v[1],
		n[2]*v[0] - n[0]*v[2],
		n[0]*v[1] - n[1]*v[0],
	}
	dot := n[0]*v[0] + n[1]*v[1] + n[2]*v[2]
	var out [3]int
	for i := range out {
		out[i] = n[i]*dot - cross[i]
	}
	return out
}

func faceOfNormal(t *testing.T, v [3]int) Face {
	t.Helper()
	for _, f := range Faces {
		if normals[f] == v {
			return f
		}
	}
	t.Fatalf("vector %v is not a face normal", v)
	return 0
}

func TestFaceTurnsMatchGeometry(t *testing.T) {
	for _, f := range Faces {
		for _, s := range Faces {
			want := faceOfNormal(t, rotateCW(normals[f], normals[s]))
			if got := faceTurns[f][s]; got != want {
				t.Errorf("%v turn: sticker on %v goes to %v, want %v", f, s, got, want)
			}
		}
	}
}

func TestFaceCyclesMatchGeometry(t *testing.T) {
	for _, f := range Faces {
		n := normals[f]
		for name, c := range map[string]cycle{"edges": faceCycles[f].edges, "corners": faceCycles[f].corners} {
			for i, pos := range c {
				v := [3]int{pos.X - 1, pos.Y - 1, pos.Z - 1}
				if v[0]*n[0]+v[1]*n[1]+v[2]*n[2] != 1 {
					t.Errorf("%v %s slot %d: %v is not in the layer", f, name, i, pos)
				}
				r := rotateCW(n, v)
				got := Position{X: r[0] + 1, Y: r[1] + 1, Z: r[2] + 1}
				if want := c[(i+1)%4]; got != want {
					t.Errorf("%v %s slot %d: %v rotates to %v, want %v", f, name, i, pos, got, want)
				}
			}
		}
	}
}

func TestQuarterTurnKeepsGridConsistent(t *testing.T) {
	r := newSolvedRegistry()
	g := NewGrid()
	g.Rebuild(r.pieces)

	for _, f := range []Face{FaceR, FaceU, FaceF, FaceL, FaceD, FaceB, FaceU} {
		if err := quarterTurn(r, g, f); err != nil {
			t.Fatalf("quarterTurn(%v): %v", f, err)
		}
		if n := g.Occupied(); n != PieceCount {
			t.Fatalf("after %v: %d occupied cells, want %d", f, n, PieceCount)
		}
		if _, ok := g.At(Core); ok {
			t.Fatalf("after %v: core is occupied", f)
		}
		for idx, p := range r.pieces {
			at, ok := g.At(p.Position)
			if !ok || at != idx {
				t.Errorf("after %v: grid at %v = %d, want %d (%s)", f, p.Position, at, idx, p.Label)
			}
			if p.Len() != p.Kind.Arity() {
				t.Errorf("after %v: %s has %d stickers", f, p.Label, p.Len())
			}
		}
	}
}

func TestQuarterTurnMissingPieceLeavesStateUntouched(t *testing.T) {
	r := newSolvedRegistry()
	g := NewGrid()
	g.Rebuild(r.pieces)

	// Drop the UBR corner from the grid so the lookup fails part way.
	g.set(Position{2, 2, 0}, empty)
	before := r.clone()
	cells := g.cells

	err := quarterTurn(r, g, FaceU)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if g.cells != cells {
		t.Error("grid changed after failed turn")
	}
	for i := range r.pieces {
		if r.pieces[i] != before.pieces[i] {
			t.Errorf("piece %s changed after failed turn", r.pieces[i].Label)
		}
	}
}

func TestQuarterTurnInvalidFace(t *testing.T) {
	r := newSolvedRegistry()
	g := NewGrid()
	g.Rebuild(r.pieces)

	if err := quarterTurn(r, g, Face(6)); !errors.Is(err, ErrInvalidFace) {
		t.Errorf("expected ErrInvalidFace, got %v", err)
	}
}
