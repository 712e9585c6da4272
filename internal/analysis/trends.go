package analysis

import (
	"math"
	"slices"
	"time"

	"github.com/SeamusWaldron/cubie"
)

// SessionData is the per-session input to AnalyzeTrends.
type SessionData struct {
	SessionID  string
	StartedAt  time.Time
	DurationMs int64
	Solved     bool
	Summary    *Summary
}

// TrendReport compares solved sessions over time.
type TrendReport struct {
	TotalSessions    int                   `json:"total_sessions"`
	SolvedSessions   int                   `json:"solved_sessions"`
	Start            string                `json:"start,omitempty"`
	End              string                `json:"end,omitempty"`
	AvgDurationMs    float64               `json:"avg_duration_ms"`
	AvgMoves         float64               `json:"avg_moves"`
	AvgTPS           float64               `json:"avg_tps"`
	Best             *SessionStats         `json:"best,omitempty"`
	Worst            *SessionStats         `json:"worst,omitempty"`
	ImprovementPct   float64               `json:"improvement_pct"`
	ConsistencyScore float64               `json:"consistency_score"`
	RollingAvgs      map[int]float64       `json:"rolling_averages"`
	StageTrends      map[string]StageTrend `json:"stage_trends"`
	Sessions         []SessionStats        `json:"sessions"`
}

// SessionStats is one solved session as seen by the trend report.
type SessionStats struct {
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs int64   `json:"duration_ms"`
	MoveCount  int     `json:"move_count"`
	TPS        float64 `json:"tps"`
}

// StageTrend averages one stage across sessions.
type StageTrend struct {
	Stage          string  `json:"stage"`
	Samples        int     `json:"samples"`
	AvgDurationMs  float64 `json:"avg_duration_ms"`
	AvgMoves       float64 `json:"avg_moves"`
	ImprovementPct float64 `json:"improvement_pct"`
}

// rollingWindows are the "last N" averages reported when enough sessions exist.
var rollingWindows = []int{5, 10, 25, 50}

// AnalyzeTrends reports averages and improvement across solved sessions.
// Unsolved sessions are counted but otherwise ignored.
func AnalyzeTrends(sessions []SessionData) *TrendReport {
	report := &TrendReport{
		TotalSessions: len(sessions),
		RollingAvgs:   make(map[int]float64),
		StageTrends:   make(map[string]StageTrend),
		Sessions:      []SessionStats{},
	}

	var solved []SessionData
	for _, s := range sessions {
		if s.Solved && s.DurationMs > 0 && s.Summary != nil {
			solved = append(solved, s)
		}
	}
	slices.SortStableFunc(solved, func(a, b SessionData) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	report.SolvedSessions = len(solved)
	if len(solved) == 0 {
		return report
	}

	report.Start = solved[0].StartedAt.Format(time.RFC3339)
	report.End = solved[len(solved)-1].StartedAt.Format(time.RFC3339)

	durations := make([]float64, len(solved))
	var totalMoves int
	var totalTPS float64
	for i, s := range solved {
		st := SessionStats{
			SessionID:  s.SessionID,
			Timestamp:  s.StartedAt.Format(time.RFC3339),
			DurationMs: s.DurationMs,
			MoveCount:  s.Summary.TotalMoves,
			TPS:        s.Summary.TPS,
		}
		report.Sessions = append(report.Sessions, st)
		durations[i] = float64(s.DurationMs)
		totalMoves += st.MoveCount
		totalTPS += st.TPS

		if report.Best == nil || st.DurationMs < report.Best.DurationMs {
			best := st
			report.Best = &best
		}
		if report.Worst == nil || st.DurationMs > report.Worst.DurationMs {
			worst := st
			report.Worst = &worst
		}
	}

	n := float64(len(solved))
	report.AvgDurationMs = mean(durations)
	report.AvgMoves = float64(totalMoves) / n
	report.AvgTPS = totalTPS / n
	report.ImprovementPct = improvement(durations)
	report.ConsistencyScore = consistency(durations)

	for _, w := range rollingWindows {
		if len(durations) >= w {
			report.RollingAvgs[w] = mean(durations[len(durations)-w:])
		}
	}

	report.StageTrends = stageTrends(solved)
	return report
}

func stageTrends(sessions []SessionData) map[string]StageTrend {
	durations := make(map[cubie.Stage][]float64)
	moves := make(map[cubie.Stage]int)
	for _, s := range sessions {
		for _, st := range s.Summary.Stages {
			durations[st.Stage] = append(durations[st.Stage], float64(st.DurationMs))
			moves[st.Stage] += st.MoveCount
		}
	}

	trends := make(map[string]StageTrend, len(durations))
	for stage, d := range durations {
		trends[stage.String()] = StageTrend{
			Stage:          stage.String(),
			Samples:        len(d),
			AvgDurationMs:  mean(d),
			AvgMoves:       float64(moves[stage]) / float64(len(d)),
			ImprovementPct: improvement(d),
		}
	}
	return trends
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// improvement compares the first and last quarter of v, as the percentage
// reduction. It needs at least four samples.
func improvement(v []float64) float64 {
	if len(v) < 4 {
		return 0
	}
	q := len(v) / 4
	first := mean(v[:q])
	last := mean(v[len(v)-q:])
	if first <= 0 {
		return 0
	}
	return (first - last) / first * 100
}

// consistency maps the coefficient of variation onto 0-100, higher meaning
// more consistent.
func consistency(v []float64) float64 {
	if len(v) < 2 {
		return 100
	}
	m := mean(v)
	if m <= 0 {
		return 100
	}
	var sq float64
	for _, x := range v {
		sq += (x - m) * (x - m)
	}
	cv := math.Sqrt(sq/float64(len(v))) / m
	return math.Max(0, 100-cv*100)
}
