// Package cubie models a 3x3x3 twisty puzzle as 26 physical pieces.
//
// Each piece carries a stable label, a grid position and a mapping from
// its colors to the faces they currently show on. Face turns permute and
// reorient pieces; face colors are never stored and are projected from the
// pieces on demand.
//
// # Quick Start
//
//	p := cubie.New()
//
//	// Apply moves using predefined constants
//	p.Apply(cubie.R, cubie.U, cubie.RPrime, cubie.UPrime)
//
//	// Or from notation
//	p.ApplyNotation("F B2 L' D")
//
//	// Or one method per move
//	p.F()
//	p.UPrime()
//
//	fmt.Println("Solved:", p.IsSolved())
//	fmt.Println("History:", p.History())
//	fmt.Print(p)
//
// # Queries
//
//	front, _ := p.Project(cubie.FaceF)              // 3x3 colors
//	piece, _ := p.PieceByColors(cubie.Yellow, cubie.Red, cubie.Blue)
//	at, _ := p.PieceAt(cubie.Position{X: 2, Y: 2, Z: 2})
//	facelets := p.FaceletString()                    // 54 chars, URFDLB order
//
// # Orientation
//
// The solved puzzle shows Yellow on U, Red on R, Blue on F, White on D,
// Orange on L and Green on B. Grid coordinates run X from L (0) to R (2),
// Y from D (0) to U (2) and Z from B (0) to F (2). Clockwise is judged
// looking at the turned face from outside the puzzle.
//
// # Solving
//
// Solving is delegated to a Solver, which receives the facelet string:
//
//	moves, err := p.Solve(ctx, solver)
//	if err == nil {
//	    p.Apply(moves...)
//	}
package cubie
