package scramble

import (
	"reflect"
	"testing"

	"github.com/SeamusWaldron/cubie"
)

func TestGenerateLength(t *testing.T) {
	s := NewSeeded(1)
	if got := len(s.Generate(0)); got != DefaultLength {
		t.Errorf("default length = %d, want %d", got, DefaultLength)
	}
	if got := len(s.Generate(5)); got != 5 {
		t.Errorf("length = %d, want 5", got)
	}
	if got := len(s.History()); got != 2 {
		t.Errorf("history has %d scrambles, want 2", got)
	}
}

func TestGenerateNoRepeatedFace(t *testing.T) {
	s := NewSeeded(42)
	for n := 0; n < 50; n++ {
		moves := s.Generate(30)
		for i := 1; i < len(moves); i++ {
			if moves[i].Face == moves[i-1].Face {
				t.Fatalf("scramble %s repeats face at %d", cubie.FormatMoves(moves), i)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewSeeded(7).Generate(25)
	b := NewSeeded(7).Generate(25)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %s and %s", cubie.FormatMoves(a), cubie.FormatMoves(b))
	}
}

func TestApplyThenInvertSolves(t *testing.T) {
	p := cubie.New()
	moves, err := NewSeeded(3).Apply(p, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.History()) != 20 {
		t.Errorf("history has %d moves, want 20", len(p.History()))
	}
	p.Apply(cubie.InvertMoves(moves)...)
	if !p.IsSolved() {
		t.Error("scramble followed by its inverse should be solved")
		t.Log(p.String())
	}
}
