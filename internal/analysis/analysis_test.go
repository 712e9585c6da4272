package analysis

import (
	"testing"
	"time"

	"github.com/SeamusWaldron/cubie"
)

// timed spaces the moves stepMs apart, starting at stepMs.
func timed(t *testing.T, notation string, stepMs int64) []TimedMove {
	t.Helper()
	moves, err := cubie.ParseMoves(notation)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]TimedMove, len(moves))
	for i, m := range moves {
		out[i] = TimedMove{Move: m, TsMs: int64(i+1) * stepMs}
	}
	return out
}

func TestSummarize(t *testing.T) {
	moves := timed(t, "R R U U' F", 500)
	moves[4].TsMs = 5000 // long pause before F

	s := Summarize(moves, []Mark{
		{Stage: cubie.StageCross, MoveIndex: 1, TsMs: 1000},
		{Stage: cubie.StageSolved, MoveIndex: 4, TsMs: 5000},
	})

	if s.TotalMoves != 5 || s.MergedMoves != 2 {
		t.Errorf("moves = %d merged = %d, want 5 and 2", s.TotalMoves, s.MergedMoves)
	}
	if s.DurationMs != 5000 || s.TPS != 1 {
		t.Errorf("duration = %d tps = %v", s.DurationMs, s.TPS)
	}
	if s.LongestPauseMs != 3000 || s.PauseCount != 1 {
		t.Errorf("longest pause = %d count = %d", s.LongestPauseMs, s.PauseCount)
	}
	if len(s.Stages) != 2 {
		t.Fatalf("stages = %+v", s.Stages)
	}
	if st := s.Stages[0]; st.MoveCount != 2 || st.DurationMs != 1000 || st.TPS != 2 {
		t.Errorf("first stage = %+v", st)
	}
	if st := s.Stages[1]; st.MoveCount != 3 || st.StartTsMs != 1000 || st.DurationMs != 4000 {
		t.Errorf("second stage = %+v", st)
	}
	// R and U tie; U comes first.
	if s.Profile.MostUsedFace != cubie.FaceU || s.Profile.FacePairs["RU"] != 1 {
		t.Errorf("profile = %+v", s.Profile)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.TotalMoves != 0 || s.TPS != 0 || s.Efficiency != 0 || len(s.Stages) != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestMineNGrams(t *testing.T) {
	moves := timed(t, "R U R' U' F R U R' U' B R U R' U'", 100)
	report := MineNGrams(moves, 4, 6, 3)

	fours := report[4]
	if len(fours) == 0 {
		t.Fatal("no 4-grams found")
	}
	if fours[0].Sequence != "R U R' U'" || fours[0].Count != 3 {
		t.Errorf("top 4-gram = %+v", fours[0])
	}
	if got := fours[0].Occurrences; len(got) != 3 || got[1].StartIndex != 5 || got[1].TsMs != 600 {
		t.Errorf("occurrences = %+v", got)
	}
	if _, ok := report[6]; ok {
		t.Errorf("6-grams should not repeat: %+v", report[6])
	}
}

func TestMineNGramsShortInput(t *testing.T) {
	if r := MineNGrams(timed(t, "R U", 100), 4, 8, 5); len(r) != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestFindAlgorithms(t *testing.T) {
	moves := timed(t, "R U R' U' R U R' U' D R U R' U R U2 R'", 100)
	report := FindAlgorithms(moves, Algorithms)

	if report.Counts["Sexy Move"] != 2 || report.Counts["Sune"] != 1 {
		t.Errorf("counts = %v", report.Counts)
	}
	if report.UnmatchedMoves != 1 {
		t.Errorf("unmatched = %d, want 1", report.UnmatchedMoves)
	}
	if report.ConsecutiveRepeats != 1 {
		t.Errorf("consecutive repeats = %d, want 1", report.ConsecutiveRepeats)
	}
	if m := report.Matches[2]; m.StartIndex != 9 || m.EndIndex != 15 {
		t.Errorf("sune match = %+v", m)
	}
}

func TestFindAlgorithmsPrefersTPerm(t *testing.T) {
	report := FindAlgorithms(timed(t, cubie.FormatMoves(cubie.TPerm), 100), Algorithms)
	if len(report.Matches) != 1 || report.Matches[0].Name != "T-Perm" {
		t.Errorf("matches = %+v", report.Matches)
	}
}

func TestAnalyzeRepetitions(t *testing.T) {
	report := AnalyzeRepetitions(timed(t, "R R' U U F R F R F R", 100))

	if len(report.Cancellations) != 1 || report.Cancellations[0].Index1 != 0 {
		t.Errorf("cancellations = %+v", report.Cancellations)
	}
	if len(report.MergeOpportunities) != 1 || report.MergeOpportunities[0].MergedMove != "U2" {
		t.Errorf("merges = %+v", report.MergeOpportunities)
	}
	if report.WastedMoves != 3 {
		t.Errorf("wasted = %d, want 3", report.WastedMoves)
	}
	if len(report.BackAndForth) != 1 {
		t.Fatalf("back and forth = %+v", report.BackAndForth)
	}
	if p := report.BackAndForth[0]; p.StartIndex != 4 || p.EndIndex != 9 || p.Count != 3 || p.TsMs != 500 {
		t.Errorf("pattern = %+v", p)
	}
}

func TestAnalyzeTrends(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var sessions []SessionData
	for i, d := range []int64{4000, 3000, 2000, 1000} {
		sessions = append(sessions, SessionData{
			SessionID:  string(rune('a' + i)),
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			DurationMs: d,
			Solved:     true,
			Summary: &Summary{
				TotalMoves: 10,
				TPS:        2,
				Stages:     []StageStats{{Stage: cubie.StageCross, DurationMs: d / 2, MoveCount: 4}},
			},
		})
	}
	sessions = append(sessions, SessionData{SessionID: "x", StartedAt: base, DurationMs: 500})

	r := AnalyzeTrends(sessions)
	if r.TotalSessions != 5 || r.SolvedSessions != 4 {
		t.Errorf("sessions = %d solved = %d", r.TotalSessions, r.SolvedSessions)
	}
	if r.AvgDurationMs != 2500 || r.AvgMoves != 10 {
		t.Errorf("averages = %v %v", r.AvgDurationMs, r.AvgMoves)
	}
	if r.Best.SessionID != "d" || r.Worst.SessionID != "a" {
		t.Errorf("best = %+v worst = %+v", r.Best, r.Worst)
	}
	if r.ImprovementPct != 75 {
		t.Errorf("improvement = %v, want 75", r.ImprovementPct)
	}
	if r.ConsistencyScore < 55 || r.ConsistencyScore > 56 {
		t.Errorf("consistency = %v", r.ConsistencyScore)
	}
	if len(r.RollingAvgs) != 0 {
		t.Errorf("rolling = %v", r.RollingAvgs)
	}
	cross := r.StageTrends["cross"]
	if cross.Samples != 4 || cross.AvgMoves != 4 || cross.ImprovementPct != 75 {
		t.Errorf("cross trend = %+v", cross)
	}
}

func TestAnalyzeTrendsEmpty(t *testing.T) {
	r := AnalyzeTrends(nil)
	if r.SolvedSessions != 0 || r.Best != nil || len(r.Sessions) != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
