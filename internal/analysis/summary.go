// Package analysis computes statistics over recorded move sequences.
package analysis

import (
	"github.com/SeamusWaldron/cubie"
)

// TimedMove is a move with its offset from the start of a session.
type TimedMove struct {
	Move cubie.Move
	TsMs int64
}

// Mark records the move at which a stage was first reached.
type Mark struct {
	Stage     cubie.Stage
	MoveIndex int
	TsMs      int64
}

// Summary contains statistics for a single session.
type Summary struct {
	TotalMoves        int          `json:"total_moves"`
	MergedMoves       int          `json:"merged_moves"`
	Efficiency        float64      `json:"efficiency"`
	DurationMs        int64        `json:"duration_ms"`
	TPS               float64      `json:"tps"`
	LongestPauseMs    int64        `json:"longest_pause_ms"`
	PauseCount        int          `json:"pause_count"`
	AvgMoveDurationMs float64      `json:"avg_move_duration_ms"`
	Stages            []StageStats `json:"stages,omitempty"`
	Profile           *Profile     `json:"profile"`
}

// StageStats covers the moves made while working towards one stage.
type StageStats struct {
	Stage      cubie.Stage `json:"stage"`
	StartTsMs  int64       `json:"start_ts_ms"`
	EndTsMs    int64       `json:"end_ts_ms"`
	DurationMs int64       `json:"duration_ms"`
	MoveCount  int         `json:"move_count"`
	TPS        float64     `json:"tps"`
}

// PauseThresholdMs is the gap between moves counted as a pause.
const PauseThresholdMs = 1500

// Summarize computes the summary of a session's moves and stage marks.
// Marks must be in move order.
func Summarize(moves []TimedMove, marks []Mark) *Summary {
	plain := make([]cubie.Move, len(moves))
	for i, m := range moves {
		plain[i] = m.Move
	}

	s := &Summary{
		TotalMoves:        len(moves),
		MergedMoves:       len(cubie.MergeMoves(plain)),
		LongestPauseMs:    FindLongestPause(moves),
		PauseCount:        CountPausesOver(moves, PauseThresholdMs),
		AvgMoveDurationMs: AvgMoveDuration(moves),
		Profile:           AnalyzeProfile(plain),
	}
	if len(moves) > 0 {
		s.DurationMs = moves[len(moves)-1].TsMs
		s.Efficiency = float64(s.MergedMoves) / float64(s.TotalMoves)
	}
	s.TPS = CalculateTPS(len(moves), s.DurationMs)

	start, startTs := 0, int64(0)
	for _, mark := range marks {
		end := min(mark.MoveIndex, len(moves)-1)
		if end < start {
			continue
		}
		st := StageStats{
			Stage:     mark.Stage,
			StartTsMs: startTs,
			EndTsMs:   mark.TsMs,
			MoveCount: end - start + 1,
		}
		st.DurationMs = st.EndTsMs - st.StartTsMs
		st.TPS = CalculateTPS(st.MoveCount, st.DurationMs)
		s.Stages = append(s.Stages, st)
		start, startTs = end+1, mark.TsMs
	}
	return s
}

// CalculateTPS calculates turns per second.
func CalculateTPS(moves int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(moves) / (float64(durationMs) / 1000.0)
}

// AvgMoveDuration calculates the average time between moves.
func AvgMoveDuration(moves []TimedMove) float64 {
	if len(moves) < 2 {
		return 0
	}
	totalGap := moves[len(moves)-1].TsMs - moves[0].TsMs
	return float64(totalGap) / float64(len(moves)-1)
}

// FindLongestPause finds the longest gap between consecutive moves.
func FindLongestPause(moves []TimedMove) int64 {
	var longest int64
	for i := 1; i < len(moves); i++ {
		longest = max(longest, moves[i].TsMs-moves[i-1].TsMs)
	}
	return longest
}

// CountPausesOver counts gaps longer than thresholdMs.
func CountPausesOver(moves []TimedMove, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		if moves[i].TsMs-moves[i-1].TsMs > thresholdMs {
			count++
		}
	}
	return count
}

// Profile counts which faces and turns are used.
type Profile struct {
	FaceCounts   map[cubie.Face]int `json:"face_counts"`
	TurnCounts   map[cubie.Turn]int `json:"turn_counts"`
	MostUsedFace cubie.Face         `json:"most_used_face"`
	FacePairs    map[string]int     `json:"face_pairs"` // e.g. "RU" -> count
}

// AnalyzeProfile analyzes which faces and turns are most used.
func AnalyzeProfile(moves []cubie.Move) *Profile {
	p := &Profile{
		FaceCounts: make(map[cubie.Face]int),
		TurnCounts: make(map[cubie.Turn]int),
		FacePairs:  make(map[string]int),
	}

	for i, m := range moves {
		p.FaceCounts[m.Face]++
		p.TurnCounts[m.Turn]++
		if i > 0 {
			p.FacePairs[moves[i-1].Face.String()+m.Face.String()]++
		}
	}

	// Ties go to the earlier face in U R F D L B order.
	best := 0
	for _, f := range cubie.Faces {
		if n := p.FaceCounts[f]; n > best {
			best = n
			p.MostUsedFace = f
		}
	}
	return p
}
