package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie/internal/storage"
)

var (
	exportFormat string
	exportOutput string
	exportLast   bool
)

var sessionExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export the moves of a session",
	Long: `Export the move sequence of a session in text or JSON format.

JSON output includes the scramble, the stages reached and every move with
its timestamp.

Examples:
  cubie session export --last
  cubie session export <session-id> --format json
  cubie session export <session-id> -o moves.txt`,
	RunE: runSessionExport,
}

func init() {
	sessionCmd.AddCommand(sessionExportCmd)
	sessionExportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the most recent session")
	sessionExportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	sessionExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

type exportedMove struct {
	MoveIndex int    `json:"move_index"`
	TsMs      int64  `json:"ts_ms"`
	Face      string `json:"face"`
	Turn      int    `json:"turn"`
	Notation  string `json:"notation"`
}

type exportedStage struct {
	Stage     string `json:"stage"`
	MoveIndex int    `json:"move_index"`
	TsMs      int64  `json:"ts_ms"`
}

type exportedSession struct {
	SessionID  string          `json:"session_id"`
	Scramble   string          `json:"scramble,omitempty"`
	Solved     bool            `json:"solved"`
	FinalState string          `json:"final_state,omitempty"`
	Stages     []exportedStage `json:"stages"`
	Moves      []exportedMove  `json:"moves"`
}

func runSessionExport(cmd *cobra.Command, args []string) error {
	_, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(storage.NewSessionRepository(db), args, exportLast)
	if err != nil {
		return err
	}
	moves, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(moves) == 0 {
		return fmt.Errorf("no moves found for session %s", s.SessionID)
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "txt":
		notations := make([]string, len(moves))
		for i, m := range moves {
			notations[i] = m.Notation
		}
		output = strings.Join(notations, " ")

	case "json":
		marks, err := storage.NewStageRepository(db).GetBySession(s.SessionID)
		if err != nil {
			return fmt.Errorf("failed to get stages: %w", err)
		}
		data, err := json.MarshalIndent(buildExport(s, marks, moves), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	default:
		return fmt.Errorf("unknown format: %s (use txt or json)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %d moves to %s\n", len(moves), exportOutput)
	return nil
}

func buildExport(s *storage.Session, marks []storage.StageMark, moves []storage.MoveRecord) exportedSession {
	out := exportedSession{
		SessionID: s.SessionID,
		Solved:    s.Solved,
		Stages:    make([]exportedStage, 0, len(marks)),
		Moves:     make([]exportedMove, 0, len(moves)),
	}
	if s.Scramble != nil {
		out.Scramble = *s.Scramble
	}
	if s.FinalState != nil {
		out.FinalState = *s.FinalState
	}
	for _, m := range marks {
		out.Stages = append(out.Stages, exportedStage{Stage: m.StageKey, MoveIndex: m.MoveIndex, TsMs: m.TsMs})
	}
	for _, m := range moves {
		out.Moves = append(out.Moves, exportedMove{
			MoveIndex: m.MoveIndex,
			TsMs:      m.TsMs,
			Face:      m.Face,
			Turn:      m.Turn,
			Notation:  m.Notation,
		})
	}
	return out
}
