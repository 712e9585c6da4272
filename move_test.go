package cubie

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"U", U},
		{"U'", UPrime},
		{"U2", U2},
		{" B ", B},
	}
	for _, tt := range tests {
		got, err := ParseMove(tt.in)
		if err != nil {
			t.Errorf("ParseMove(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMove(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMoveRejects(t *testing.T) {
	for _, in := range []string{"", "X", "u", "r'", "U3", "U''", "M", "x", "Rw", "R`", "L2'", "R'2"} {
		if _, err := ParseMove(in); !errors.Is(err, ErrInvalidFace) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidFace", in, err)
		}
	}
}

func TestParseMovesRoundTrip(t *testing.T) {
	const seq = "R U R' U' F2 B L' D2"
	moves, err := ParseMoves(seq)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatMoves(moves); got != seq {
		t.Errorf("FormatMoves = %q, want %q", got, seq)
	}
	if got, _ := ParseMoves("   "); len(got) != 0 {
		t.Errorf("blank sequence parsed to %v", got)
	}
}

func TestMergeMoves(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"R R", "R2"},
		{"R R R", "R'"},
		{"R R'", ""},
		{"U R R' U", "U2"},
		{"F2 F", "F'"},
		{"L D", "L D"},
	}
	for _, tt := range tests {
		moves, _ := ParseMoves(tt.in)
		if got := FormatMoves(MergeMoves(moves)); got != tt.want {
			t.Errorf("MergeMoves(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInvertMoves(t *testing.T) {
	moves, _ := ParseMoves("R U2 F'")
	want, _ := ParseMoves("F U2 R'")
	if got := InvertMoves(moves); !reflect.DeepEqual(got, want) {
		t.Errorf("InvertMoves = %v, want %v", FormatMoves(got), FormatMoves(want))
	}
}

func TestAllMovesAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range AllMoves {
		if !m.Valid() {
			t.Errorf("%v is not valid", m)
		}
		seen[m.Notation()] = true
	}
	if len(seen) != 18 {
		t.Errorf("AllMoves has %d distinct moves, want 18", len(seen))
	}
}
