package cubie

import "fmt"

// faceTurns[f][s] is the face a sticker on face s shows after a clockwise
// quarter-turn of face f. Each table is a 4-cycle on the faces around the
// turning axis and the identity on the two faces along it.
var faceTurns = [6][6]Face{
	//        U      R      F      D      L      B
	FaceU: {FaceU, FaceF, FaceL, FaceD, FaceB, FaceR},
	FaceR: {FaceB, FaceR, FaceU, FaceF, FaceL, FaceD},
	FaceF: {FaceR, FaceD, FaceF, FaceL, FaceU, FaceB},
	FaceD: {FaceU, FaceB, FaceR, FaceD, FaceF, FaceL},
	FaceL: {FaceF, FaceR, FaceD, FaceB, FaceL, FaceU},
	FaceB: {FaceL, FaceU, FaceF, FaceR, FaceD, FaceB},
}

// cycle is four grid cells in clockwise order: the piece in slot i moves
// to slot i+1 (mod 4) on a clockwise quarter-turn.
type cycle [4]Position

// faceCycles holds the edge and corner cycles of each face's layer.
var faceCycles = [6]struct {
	edges, corners cycle
}{
	FaceU: {
		edges:   cycle{{1, 2, 2}, {0, 2, 1}, {1, 2, 0}, {2, 2, 1}}, // UF UL UB UR
		corners: cycle{{0, 2, 2}, {0, 2, 0}, {2, 2, 0}, {2, 2, 2}}, // UFL UBL UBR UFR
	},
	FaceR: {
		edges:   cycle{{2, 2, 1}, {2, 1, 0}, {2, 0, 1}, {2, 1, 2}}, // UR BR DR FR
		corners: cycle{{2, 2, 2}, {2, 2, 0}, {2, 0, 0}, {2, 0, 2}}, // UFR UBR DBR DFR
	},
	FaceF: {
		edges:   cycle{{1, 2, 2}, {2, 1, 2}, {1, 0, 2}, {0, 1, 2}}, // UF FR DF FL
		corners: cycle{{0, 2, 2}, {2, 2, 2}, {2, 0, 2}, {0, 0, 2}}, // UFL UFR DFR DFL
	},
	FaceD: {
		edges:   cycle{{1, 0, 2}, {2, 0, 1}, {1, 0, 0}, {0, 0, 1}}, // DF DR DB DL
		corners: cycle{{0, 0, 2}, {2, 0, 2}, {2, 0, 0}, {0, 0, 0}}, // DFL DFR DBR DBL
	},
	FaceL: {
		edges:   cycle{{0, 2, 1}, {0, 1, 2}, {0, 0, 1}, {0, 1, 0}}, // UL FL DL BL
		corners: cycle{{0, 2, 2}, {0, 0, 2}, {0, 0, 0}, {0, 2, 0}}, // UFL DFL DBL UBL
	},
	FaceB: {
		edges:   cycle{{1, 2, 0}, {0, 1, 0}, {1, 0, 0}, {2, 1, 0}}, // UB BL DB BR
		corners: cycle{{0, 2, 0}, {0, 0, 0}, {2, 0, 0}, {2, 2, 0}}, // UBL DBL DBR UBR
	},
}

// quarterTurn applies one clockwise quarter-turn of face f.
//
// Every affected piece is looked up before anything changes, so an error
// leaves the registry and grid untouched. Position cycling and sticker
// reorientation then happen together for each piece.
func quarterTurn(r *Registry, g *Grid, f Face) error {
	if !f.Valid() {
		return fmt.Errorf("%w: face %d", ErrInvalidFace, int(f))
	}

	layer := &faceCycles[f]
	groups := [2]*cycle{&layer.edges, &layer.corners}

	var moving [2][4]int
	for gi, c := range groups {
		for i, pos := range c {
			idx, ok := g.At(pos)
			if !ok || idx >= r.Len() {
				return fmt.Errorf("%w: no piece at %v during %v turn", ErrNotFound, pos, f)
			}
			moving[gi][i] = idx
		}
	}

	table := &faceTurns[f]
	for gi, c := range groups {
		for i, idx := range moving[gi] {
			dst := c[(i+1)%4]
			p := r.piece(idx)
			p.Position = dst
			p.reorient(table)
			g.set(dst, idx)
		}
	}
	return nil
}

// turn applies n clockwise quarter-turns of face f.
func turn(r *Registry, g *Grid, f Face, n int) error {
	for i := 0; i < n; i++ {
		if err := quarterTurn(r, g, f); err != nil {
			return err
		}
	}
	return nil
}
