package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/analysis"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var (
	statsLast bool
	statsJSON bool
	statsTopK int
)

var sessionStatsCmd = &cobra.Command{
	Use:   "stats [session-id]",
	Short: "Analyze the moves of a session",
	Long: `Show timing per stage, pauses, face usage, repeated move sequences and
known algorithms found in a session.`,
	RunE: runSessionStats,
}

func init() {
	sessionCmd.AddCommand(sessionStatsCmd)
	sessionStatsCmd.Flags().BoolVar(&statsLast, "last", false, "Analyze the most recent session")
	sessionStatsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the report as JSON")
	sessionStatsCmd.Flags().IntVar(&statsTopK, "top", 3, "Repeated sequences to show per length")
}

type statsReport struct {
	SessionID   string                     `json:"session_id"`
	Summary     *analysis.Summary          `json:"summary"`
	NGrams      map[int][]analysis.NGram   `json:"ngrams"`
	Algorithms  *analysis.AlgorithmReport  `json:"algorithms"`
	Repetitions *analysis.RepetitionReport `json:"repetitions"`
}

// stageFromKey maps a stored stage key back to a stage.
func stageFromKey(key string) (cubie.Stage, bool) {
	for s := cubie.StageScrambled; s <= cubie.StageSolved; s++ {
		if s.String() == key {
			return s, true
		}
	}
	return 0, false
}

// timedMoves converts stored records and stage marks for the analysis package.
// Marks with unknown stage keys are skipped.
func timedMoves(records []storage.MoveRecord, stageMarks []storage.StageMark) ([]analysis.TimedMove, []analysis.Mark, error) {
	moves := make([]analysis.TimedMove, len(records))
	for i, r := range records {
		m, err := r.Move()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse stored move %d: %w", r.MoveIndex, err)
		}
		moves[i] = analysis.TimedMove{Move: m, TsMs: r.TsMs}
	}

	var marks []analysis.Mark
	for _, m := range stageMarks {
		if s, ok := stageFromKey(m.StageKey); ok {
			marks = append(marks, analysis.Mark{Stage: s, MoveIndex: m.MoveIndex, TsMs: m.TsMs})
		}
	}
	return moves, marks, nil
}

func buildStats(sessionID string, records []storage.MoveRecord, stageMarks []storage.StageMark, topK int) (*statsReport, error) {
	moves, marks, err := timedMoves(records, stageMarks)
	if err != nil {
		return nil, err
	}
	return &statsReport{
		SessionID:   sessionID,
		Summary:     analysis.Summarize(moves, marks),
		NGrams:      analysis.MineNGrams(moves, 4, 8, topK),
		Algorithms:  analysis.FindAlgorithms(moves, analysis.Algorithms),
		Repetitions: analysis.AnalyzeRepetitions(moves),
	}, nil
}

func runSessionStats(cmd *cobra.Command, args []string) error {
	_, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(storage.NewSessionRepository(db), args, statsLast)
	if err != nil {
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	marks, err := storage.NewStageRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get stages: %w", err)
	}

	report, err := buildStats(s.SessionID, records, marks, statsTopK)
	if err != nil {
		return err
	}

	if statsJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printStats(report)
	return nil
}

func printStats(r *statsReport) {
	sum := r.Summary
	ms := func(v int64) string { return formatDuration(time.Duration(v) * time.Millisecond) }

	fmt.Println(titleStyle.Render("Session " + shortID(r.SessionID)))
	fmt.Println()
	fmt.Printf("Moves:        %d (%d after merging, %.0f%%)\n", sum.TotalMoves, sum.MergedMoves, sum.Efficiency*100)
	fmt.Printf("Time:         %s\n", ms(sum.DurationMs))
	fmt.Printf("TPS:          %.2f\n", sum.TPS)
	fmt.Printf("Avg move:     %.0fms\n", sum.AvgMoveDurationMs)
	fmt.Printf("Longest gap:  %s (%d pauses over %s)\n", ms(sum.LongestPauseMs), sum.PauseCount, ms(analysis.PauseThresholdMs))
	fmt.Println()

	if len(sum.Stages) > 0 {
		fmt.Println(stageStyle.Render("Stages"))
		for _, st := range sum.Stages {
			fmt.Printf("  %-13s %3d moves  %8s  %.2f TPS\n", st.Stage.DisplayName(), st.MoveCount, ms(st.DurationMs), st.TPS)
		}
		fmt.Println()
	}

	if sum.TotalMoves > 0 {
		fmt.Println(stageStyle.Render("Faces"))
		for _, f := range cubie.Faces {
			fmt.Printf("  %s %3d", f, sum.Profile.FaceCounts[f])
		}
		fmt.Println()
		fmt.Println()
	}

	if len(r.NGrams) > 0 {
		fmt.Println(stageStyle.Render("Repeated sequences"))
		lengths := make([]int, 0, len(r.NGrams))
		for n := range r.NGrams {
			lengths = append(lengths, n)
		}
		sort.Ints(lengths)
		for _, n := range lengths {
			for _, ng := range r.NGrams[n] {
				fmt.Printf("  %dx  %s\n", ng.Count, moveStyle.Render(ng.Sequence))
			}
		}
		fmt.Println()
	}

	if len(r.Algorithms.Matches) > 0 {
		fmt.Println(stageStyle.Render("Algorithms"))
		names := make([]string, 0, len(r.Algorithms.Counts))
		for name := range r.Algorithms.Counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-15s %d\n", name, r.Algorithms.Counts[name])
		}
		fmt.Printf("  %d moves outside known algorithms\n", r.Algorithms.UnmatchedMoves)
		fmt.Println()
	}

	if rep := r.Repetitions; rep.WastedMoves > 0 || len(rep.BackAndForth) > 0 {
		fmt.Println(stageStyle.Render("Wasted motion"))
		fmt.Printf("  %d cancellations, %d mergeable pairs (%d moves)\n", len(rep.Cancellations), len(rep.MergeOpportunities), rep.WastedMoves)
		for _, p := range rep.BackAndForth {
			fmt.Printf("  %s repeated %dx at move %d\n", moveStyle.Render(strings.Join(p.Pattern, " ")), p.Count, p.StartIndex+1)
		}
	}
}
