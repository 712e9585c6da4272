package cubie

import (
	"context"
	"errors"
	"testing"
)

func TestSolveSendsFacelets(t *testing.T) {
	p := New()
	p.R()

	var seen string
	s := SolverFunc(func(ctx context.Context, facelets string) ([]Move, error) {
		seen = facelets
		return []Move{RPrime}, nil
	})

	moves, err := p.Solve(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if seen != p.FaceletString() || len(seen) != 54 {
		t.Errorf("solver saw %q", seen)
	}
	if err := p.Apply(moves...); err != nil {
		t.Fatal(err)
	}
	if !p.IsSolved() {
		t.Error("applying the solution should solve the puzzle")
	}
}

func TestSolveDoesNotMutate(t *testing.T) {
	p := New()
	p.ApplyNotation("F U")
	before := p.FaceletString()

	p.Solve(context.Background(), SolverFunc(func(context.Context, string) ([]Move, error) {
		return []Move{UPrime, FPrime}, nil
	}))
	if p.FaceletString() != before || len(p.History()) != 2 {
		t.Error("Solve should not modify the puzzle")
	}
}

func TestSolveWrapsFailures(t *testing.T) {
	p := New()
	failing := SolverFunc(func(context.Context, string) ([]Move, error) {
		return nil, errors.New("connection refused")
	})
	if _, err := p.Solve(context.Background(), failing); !errors.Is(err, ErrSolverUnreachable) {
		t.Errorf("expected ErrSolverUnreachable, got %v", err)
	}

	bogus := SolverFunc(func(context.Context, string) ([]Move, error) {
		return []Move{{Face: Face(7), Turn: CW}}, nil
	})
	if _, err := p.Solve(context.Background(), bogus); !errors.Is(err, ErrSolverUnreachable) {
		t.Errorf("expected ErrSolverUnreachable for invalid move, got %v", err)
	}
}

func TestSolveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := SolverFunc(func(ctx context.Context, _ string) ([]Move, error) {
		return nil, ctx.Err()
	})
	if _, err := New().Solve(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
