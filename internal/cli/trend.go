package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/analysis"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var (
	trendWindow int
	trendJSON   bool
)

var sessionTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show improvement across recent sessions",
	Long: `Compare recent solved sessions: averages, best and worst, rolling
averages, consistency and per-stage improvement.`,
	RunE: runSessionTrend,
}

func init() {
	sessionCmd.AddCommand(sessionTrendCmd)
	sessionTrendCmd.Flags().IntVar(&trendWindow, "window", 50, "Number of recent sessions to analyze")
	sessionTrendCmd.Flags().BoolVar(&trendJSON, "json", false, "Print the report as JSON")
}

// sessionData summarizes a stored session for trend analysis. Duration is
// taken from the last move so time spent before the first turn and after the
// last one is not counted.
func sessionData(db *storage.DB, s storage.Session) (analysis.SessionData, error) {
	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return analysis.SessionData{}, fmt.Errorf("failed to get moves: %w", err)
	}
	stageMarks, err := storage.NewStageRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return analysis.SessionData{}, fmt.Errorf("failed to get stages: %w", err)
	}
	moves, marks, err := timedMoves(records, stageMarks)
	if err != nil {
		return analysis.SessionData{}, err
	}
	sum := analysis.Summarize(moves, marks)
	return analysis.SessionData{
		SessionID:  s.SessionID,
		StartedAt:  s.StartedAt,
		DurationMs: sum.DurationMs,
		Solved:     s.Solved,
		Summary:    sum,
	}, nil
}

func runSessionTrend(cmd *cobra.Command, args []string) error {
	_, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(trendWindow)
	if err != nil {
		return err
	}
	data := make([]analysis.SessionData, 0, len(sessions))
	for _, s := range sessions {
		d, err := sessionData(db, s)
		if err != nil {
			return err
		}
		data = append(data, d)
	}

	report := analysis.AnalyzeTrends(data)
	if trendJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printTrend(report)
	return nil
}

func printTrend(r *analysis.TrendReport) {
	ms := func(v float64) string { return formatDuration(time.Duration(v) * time.Millisecond) }

	fmt.Println(titleStyle.Render(fmt.Sprintf("Trend over %d sessions", r.TotalSessions)))
	fmt.Println()
	if r.SolvedSessions == 0 {
		fmt.Println(statusStyle.Render("No solved sessions yet."))
		return
	}

	fmt.Printf("Solved:       %d\n", r.SolvedSessions)
	fmt.Printf("Average:      %s, %.1f moves, %.2f TPS\n", ms(r.AvgDurationMs), r.AvgMoves, r.AvgTPS)
	fmt.Printf("Best:         %s (%s)\n", ms(float64(r.Best.DurationMs)), shortID(r.Best.SessionID))
	fmt.Printf("Worst:        %s (%s)\n", ms(float64(r.Worst.DurationMs)), shortID(r.Worst.SessionID))
	fmt.Printf("Improvement:  %+.1f%%\n", r.ImprovementPct)
	fmt.Printf("Consistency:  %.0f/100\n", r.ConsistencyScore)

	if len(r.RollingAvgs) > 0 {
		windows := make([]int, 0, len(r.RollingAvgs))
		for w := range r.RollingAvgs {
			windows = append(windows, w)
		}
		slices.Sort(windows)
		fmt.Println()
		for _, w := range windows {
			fmt.Printf("  ao%-4d %s\n", w, ms(r.RollingAvgs[w]))
		}
	}

	if len(r.StageTrends) > 0 {
		fmt.Println()
		fmt.Println(stageStyle.Render("Stages"))
		for s := cubie.StageCross; s <= cubie.StageSolved; s++ {
			t, ok := r.StageTrends[s.String()]
			if !ok {
				continue
			}
			fmt.Printf("  %-13s %8s  %5.1f moves  %+.1f%%\n", s.DisplayName(), ms(t.AvgDurationMs), t.AvgMoves, t.ImprovementPct)
		}
	}
}
