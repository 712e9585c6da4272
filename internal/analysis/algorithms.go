package analysis

import (
	"github.com/SeamusWaldron/cubie"
)

// Algorithm is a named move sequence to look for in a session.
type Algorithm struct {
	Name     string
	Sequence []cubie.Move
}

func mustParse(s string) []cubie.Move {
	moves, err := cubie.ParseMoves(s)
	if err != nil {
		panic(err)
	}
	return moves
}

// Known algorithms, longest first so longer matches win.
var Algorithms = []Algorithm{
	{Name: "T-Perm", Sequence: cubie.TPerm},
	{Name: "Sune", Sequence: mustParse("R U R' U R U2 R'")},
	{Name: "Anti-Sune", Sequence: mustParse("R U2 R' U' R U' R'")},
	{Name: "Left Sune", Sequence: mustParse("L' U' L U' L' U2 L")},
	{Name: "Sexy Move", Sequence: cubie.SexyMove},
	{Name: "Sledgehammer", Sequence: mustParse("R' F R F'")},
	{Name: "Left Sexy Move", Sequence: mustParse("L' U' L U")},
}

// AlgorithmMatch is one non-overlapping occurrence of a known algorithm.
type AlgorithmMatch struct {
	Name       string `json:"name"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	TsMs       int64  `json:"ts_ms"`
}

// AlgorithmReport summarizes known algorithm usage.
type AlgorithmReport struct {
	Matches            []AlgorithmMatch `json:"matches"`
	Counts             map[string]int   `json:"counts"`
	UnmatchedMoves     int              `json:"unmatched_moves"`
	ConsecutiveRepeats int              `json:"consecutive_repeats"`
	AvgGapMs           float64          `json:"avg_gap_ms"`
}

// FindAlgorithms scans moves left to right for known algorithms. Matched
// moves are not reused.
func FindAlgorithms(moves []TimedMove, algs []Algorithm) *AlgorithmReport {
	report := &AlgorithmReport{
		Matches: []AlgorithmMatch{},
		Counts:  make(map[string]int),
	}

	lastEnd := -1
	var lastEndTs, totalGap int64
	gaps := 0

	for i := 0; i < len(moves); i++ {
		alg, ok := matchAt(moves, i, algs)
		if !ok {
			report.UnmatchedMoves++
			continue
		}

		end := i + len(alg.Sequence) - 1
		report.Matches = append(report.Matches, AlgorithmMatch{
			Name:       alg.Name,
			StartIndex: i,
			EndIndex:   end,
			TsMs:       moves[i].TsMs,
		})
		report.Counts[alg.Name]++

		if lastEnd >= 0 {
			if lastEnd == i-1 {
				report.ConsecutiveRepeats++
			}
			totalGap += moves[i].TsMs - lastEndTs
			gaps++
		}
		lastEnd, lastEndTs = end, moves[end].TsMs
		i = end
	}

	if gaps > 0 {
		report.AvgGapMs = float64(totalGap) / float64(gaps)
	}
	return report
}

func matchAt(moves []TimedMove, start int, algs []Algorithm) (Algorithm, bool) {
	for _, alg := range algs {
		if start+len(alg.Sequence) > len(moves) {
			continue
		}
		ok := true
		for j, want := range alg.Sequence {
			m := moves[start+j].Move
			if m.Face != want.Face || m.Turn != want.Turn {
				ok = false
				break
			}
		}
		if ok {
			return alg, true
		}
	}
	return Algorithm{}, false
}
