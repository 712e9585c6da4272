package analysis

import (
	"github.com/SeamusWaldron/cubie"
)

// Cancellation is a pair of adjacent moves that undo each other, such as R R'.
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Move1  string `json:"move1"`
	Move2  string `json:"move2"`
	TsMs   int64  `json:"ts_ms"`
}

// MergeOpportunity is a pair of adjacent same-face moves that combine into one.
type MergeOpportunity struct {
	Index1     int    `json:"index1"`
	Index2     int    `json:"index2"`
	Move1      string `json:"move1"`
	Move2      string `json:"move2"`
	MergedMove string `json:"merged_move"`
	TsMs       int64  `json:"ts_ms"`
}

// BackAndForth is a two-move pattern repeated back to back, such as R U R U R U.
type BackAndForth struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
	TsMs       int64    `json:"ts_ms"`
}

// RepetitionReport collects wasted motion found in a session.
type RepetitionReport struct {
	Cancellations      []Cancellation     `json:"cancellations"`
	MergeOpportunities []MergeOpportunity `json:"merge_opportunities"`
	BackAndForth       []BackAndForth     `json:"back_and_forth"`
	WastedMoves        int                `json:"wasted_moves"`
}

// minBackAndForth is the number of repeats before a pattern is reported.
const minBackAndForth = 3

// AnalyzeRepetitions looks for adjacent cancellations, mergeable pairs and
// back-and-forth patterns.
func AnalyzeRepetitions(moves []TimedMove) *RepetitionReport {
	report := &RepetitionReport{
		Cancellations:      []Cancellation{},
		MergeOpportunities: []MergeOpportunity{},
		BackAndForth:       []BackAndForth{},
	}

	for i := 0; i+1 < len(moves); i++ {
		m1, m2 := moves[i].Move, moves[i+1].Move
		if m1.Face != m2.Face {
			continue
		}
		merged := m1.Merge(m2)
		if merged == nil {
			report.Cancellations = append(report.Cancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Move1:  m1.Notation(),
				Move2:  m2.Notation(),
				TsMs:   moves[i].TsMs,
			})
			report.WastedMoves += 2
			continue
		}
		report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
			Index1:     i,
			Index2:     i + 1,
			Move1:      m1.Notation(),
			Move2:      m2.Notation(),
			MergedMove: merged.Notation(),
			TsMs:       moves[i].TsMs,
		})
		report.WastedMoves++
	}

	report.BackAndForth = findBackAndForth(moves)
	return report
}

func findBackAndForth(moves []TimedMove) []BackAndForth {
	patterns := []BackAndForth{}

	i := 0
	for i+3 < len(moves) {
		a, b := moves[i].Move, moves[i+1].Move
		if a.Face == b.Face {
			i++
			continue
		}

		count := 1
		j := i + 2
		for j+1 < len(moves) && sameMove(moves[j].Move, a) && sameMove(moves[j+1].Move, b) {
			count++
			j += 2
		}

		if count < minBackAndForth {
			i++
			continue
		}
		patterns = append(patterns, BackAndForth{
			StartIndex: i,
			EndIndex:   i + count*2 - 1,
			Pattern:    []string{a.Notation(), b.Notation()},
			Count:      count,
			TsMs:       moves[i].TsMs,
		})
		i = j
	}
	return patterns
}

func sameMove(a, b cubie.Move) bool {
	return a.Face == b.Face && a.Turn == b.Turn
}
