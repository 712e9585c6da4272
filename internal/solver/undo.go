package solver

import (
	"context"
	"fmt"

	"github.com/SeamusWaldron/cubie"
)

// Undo solves a puzzle whose move history is known by reversing it.
// The history is replayed on a fresh puzzle first; if that does not
// reproduce the facelets being solved, the solver refuses to answer.
type Undo struct {
	moves []cubie.Move
}

// NewUndo creates an Undo solver for a puzzle that reached its state from
// solved by applying moves.
func NewUndo(moves []cubie.Move) *Undo {
	cp := make([]cubie.Move, len(moves))
	copy(cp, moves)
	return &Undo{moves: cp}
}

// Solve implements cubie.Solver.
func (u *Undo) Solve(ctx context.Context, facelets string) ([]cubie.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	replay := cubie.New()
	if err := replay.Apply(u.moves...); err != nil {
		return nil, fmt.Errorf("%w: failed to replay history: %v", cubie.ErrSolverUnreachable, err)
	}
	if got := replay.FaceletString(); got != facelets {
		return nil, fmt.Errorf("%w: history does not reach %s", cubie.ErrSolverUnreachable, facelets)
	}

	return cubie.MergeMoves(cubie.InvertMoves(u.moves)), nil
}
