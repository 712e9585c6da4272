package cubie

import "testing"

func TestProgressSolved(t *testing.T) {
	prog := New().Progress()
	if prog.Stage != StageSolved || prog.HomePieces != PieceCount {
		t.Errorf("Progress() = %+v, want solved", prog)
	}
}

func TestProgressStages(t *testing.T) {
	tests := []struct {
		moves string
		want  Stage
	}{
		// U-layer moves only disturb the last layer.
		{"U", StageSecondLayer},
		{"R U R' U'", StageCross},
		{"U R U' R' U' F' U F", StageFirstLayer},
		{"R", StageScrambled},
		{"F R U R' U' F'", StageSecondLayer},
	}
	for _, tt := range tests {
		p := New()
		if err := p.ApplyNotation(tt.moves); err != nil {
			t.Fatal(err)
		}
		if got := p.Progress().Stage; got != tt.want {
			t.Errorf("%q: stage = %v, want %v", tt.moves, got, tt.want)
			t.Log(p.String())
		}
	}
}

func TestStageOrdering(t *testing.T) {
	if !(StageScrambled < StageCross && StageCross < StageFirstLayer &&
		StageFirstLayer < StageSecondLayer && StageSecondLayer < StageSolved) {
		t.Error("stages should be ordered")
	}
	if StageCross.DisplayName() != "White Cross" {
		t.Errorf("DisplayName = %q", StageCross.DisplayName())
	}
}
