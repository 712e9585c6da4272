package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var replayLast bool

var sessionReplayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Step through a recorded session",
	Long: `Replay a recorded session move by move, starting from its scramble.

Keyboard shortcuts:
  right/l   - Next move
  left/h    - Previous move
  home/end  - Jump to start or end
  q/Esc     - Quit`,
	RunE: runSessionReplay,
}

func init() {
	sessionCmd.AddCommand(sessionReplayCmd)
	sessionReplayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
}

type replayModel struct {
	sessionID string
	start     *cubie.Puzzle
	moves     []cubie.Move
	marks     map[int]string // move index -> stage key
	pos       int            // moves applied
	current   *cubie.Puzzle
	quitting  bool
}

func newReplayModel(s *storage.Session, records []storage.MoveRecord, stageMarks []storage.StageMark) (*replayModel, error) {
	start := cubie.New()
	if s.Scramble != nil {
		if err := start.ApplyNotation(*s.Scramble); err != nil {
			return nil, fmt.Errorf("failed to apply stored scramble: %w", err)
		}
	}

	moves := make([]cubie.Move, len(records))
	for i, r := range records {
		mv, err := r.Move()
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored move %d: %w", r.MoveIndex, err)
		}
		moves[i] = mv
	}

	marks := make(map[int]string, len(stageMarks))
	for _, m := range stageMarks {
		marks[m.MoveIndex] = m.StageKey
	}

	m := &replayModel{sessionID: s.SessionID, start: start, moves: moves, marks: marks}
	m.seek(0)
	return m, nil
}

// seek rebuilds the puzzle after the first pos moves.
func (m *replayModel) seek(pos int) {
	pos = max(0, min(pos, len(m.moves)))
	p := m.start.Clone()
	if err := p.Apply(m.moves[:pos]...); err != nil {
		// Stored moves were validated on the way in.
		panic(err)
	}
	m.pos = pos
	m.current = p
}

func (m *replayModel) Init() tea.Cmd {
	return nil
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "right", "l", " ":
		m.seek(m.pos + 1)
	case "left", "h":
		m.seek(m.pos - 1)
	case "home":
		m.seek(0)
	case "end":
		m.seek(len(m.moves))
	}
	return m, nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Replay %s", shortID(m.sessionID))))
	b.WriteString("\n\n")
	b.WriteString(renderNet(m.current))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Move %d/%d", m.pos, len(m.moves)))
	if m.pos > 0 {
		b.WriteString("  ")
		b.WriteString(moveStyle.Render(m.moves[m.pos-1].Notation()))
		if key, ok := m.marks[m.pos-1]; ok {
			b.WriteString("  ")
			b.WriteString(stageStyle.Render(fmt.Sprintf("Reached %s!", stageDisplayName(key))))
		}
	}
	b.WriteString("\n")
	prog := m.current.Progress()
	b.WriteString(fmt.Sprintf("%s  %s\n", renderProgress(prog.Stage, prog.Stage),
		statusStyle.Render(fmt.Sprintf("%d/%d pieces home", prog.HomePieces, cubie.PieceCount))))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("left/right=step  home/end=jump  q=quit"))
	b.WriteString("\n")
	return b.String()
}

func runSessionReplay(cmd *cobra.Command, args []string) error {
	_, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(storage.NewSessionRepository(db), args, replayLast)
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

	model, err := newReplayModel(s, records, marks)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}
