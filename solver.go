package cubie

import (
	"context"
	"errors"
	"fmt"
)

// Solver turns a 54-character facelet string into a move sequence that
// solves it. Implementations may use lookup tables, search, or an external
// program; the puzzle depends only on this contract.
type Solver interface {
	Solve(ctx context.Context, facelets string) ([]Move, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, facelets string) ([]Move, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, facelets string) ([]Move, error) {
	return f(ctx, facelets)
}

// Solve serializes the puzzle and asks s for a solution. The puzzle is not
// modified. Solver failures are reported as ErrSolverUnreachable.
func (p *Puzzle) Solve(ctx context.Context, s Solver) ([]Move, error) {
	facelets := p.FaceletString()
	moves, err := s.Solve(ctx, facelets)
	if err != nil {
		if errors.Is(err, ErrSolverUnreachable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSolverUnreachable, err)
	}
	for _, m := range moves {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: solver returned invalid move %v", ErrSolverUnreachable, m)
		}
	}
	p.cfg.logger.Debug("solver answered", "moves", len(moves))
	return moves, nil
}
