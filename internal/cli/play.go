package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/notation"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/scramble"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive puzzle in the terminal",
	Long: `Start an interactive TUI that records a session as you turn the puzzle
from the keyboard. An active session is resumed; otherwise a new one is
started from a random scramble.

Keyboard shortcuts:
  u r f d l b   - Turn a face clockwise
  U R F D L B   - Turn a face counter-clockwise
  backspace     - Undo the last move
  h             - Hint (next move of a solution)
  n             - New scramble (ends the current session)
  e             - End the session
  q/Esc         - Quit (the session stays active)`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVarP(&scrambleLength, "length", "n", 0, "Scramble length for new sessions")
	playCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Seed for the first scramble")
}

// keyMove maps a key to a face turn: lower case turns clockwise, upper case
// counter-clockwise.
func keyMove(key string) (cubie.Move, bool) {
	if len(key) != 1 {
		return cubie.Move{}, false
	}
	f, err := cubie.ParseFace(strings.ToUpper(key))
	if err != nil {
		return cubie.Move{}, false
	}
	if key == strings.ToUpper(key) {
		return cubie.Move{Face: f, Turn: cubie.CCW}, true
	}
	return cubie.Move{Face: f, Turn: cubie.CW}, true
}

// Messages
type tickMsg time.Time
type hintMsg struct {
	moves []cubie.Move
	err   error
}

type playModel struct {
	session   *recorder.Session
	stateFile *recorder.StateFile
	db        *storage.DB
	scrambler *scramble.Scrambler
	length    int
	solverCmd string

	moves   []cubie.Move
	reached []cubie.Stage
	hint    string
	ended   bool

	err      error
	quitting bool
}

func newPlayModel(db *storage.DB, stateFile *recorder.StateFile, s *scramble.Scrambler, length int, solverCmd string) *playModel {
	return &playModel{
		db:        db,
		stateFile: stateFile,
		scrambler: s,
		length:    length,
		solverCmd: solverCmd,
	}
}

// open resumes the active session or starts a scrambled one.
func (m *playModel) open() error {
	if m.stateFile.HasActiveSession() {
		if s, err := resumeActive(m.stateFile, m.db); err == nil {
			m.attach(s)
			return nil
		}
	}
	return m.newSession()
}

func (m *playModel) newSession() error {
	if m.session != nil && m.session.State() == recorder.StateRecording {
		if err := m.session.End(); err != nil {
			return err
		}
	}
	s := recorder.NewSession(m.db, m.stateFile, newLogger())
	if _, err := s.Start("play", m.scrambler.Generate(m.length), "", ""); err != nil {
		return err
	}
	m.attach(s)
	return nil
}

func (m *playModel) attach(s *recorder.Session) {
	m.session = s
	m.moves = nil
	m.reached = nil
	m.hint = ""
	m.ended = false
	s.SetMoveCallback(func(mv cubie.Move) { m.moves = append(m.moves, mv) })
	s.SetStageCallback(func(st cubie.Stage) { m.reached = append(m.reached, st) })
}

func (m *playModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// hintCmd asks the solver for a solution off the UI goroutine.
func (m *playModel) hintCmd() tea.Cmd {
	p := m.session.Snapshot()
	solverCmd := m.solverCmd
	return func() tea.Msg {
		var state recorder.AppState
		if m.stateFile != nil {
			state = m.stateFile.State()
		}
		s, _, err := pickSolver(solverCmd, state, p.Moves())
		if err != nil {
			return hintMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		moves, err := p.Solve(ctx, s)
		return hintMsg{moves: moves, err: err}
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "n":
			m.err = m.newSession()
			return m, nil
		case "e":
			if !m.ended {
				m.err = m.session.End()
				m.ended = m.err == nil
			}
			return m, nil
		case "h":
			if !m.ended {
				m.hint = "thinking..."
				return m, m.hintCmd()
			}
			return m, nil
		case "backspace":
			if !m.ended && len(m.moves) > 0 {
				m.err = m.session.Apply(m.moves[len(m.moves)-1].Inverse())
			}
			return m, nil
		}
		if mv, ok := keyMove(key); ok && !m.ended {
			m.hint = ""
			m.err = m.session.Apply(mv)
		}
		return m, nil

	case hintMsg:
		switch {
		case msg.err != nil:
			m.hint = ""
			m.err = msg.err
		case len(msg.moves) == 0:
			m.hint = "already solved"
		default:
			m.hint = fmt.Sprintf("%s (%d to go)", msg.moves[0].Notation(), len(msg.moves))
		}
		return m, nil

	case tickMsg:
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cubie"))
	b.WriteString("\n\n")

	snap := m.session.Snapshot()
	b.WriteString(renderNet(snap))
	b.WriteString("\n")

	if m.ended {
		b.WriteString(stageStyle.Render("Session ended"))
	} else {
		elapsed := time.Duration(m.session.ElapsedMs()) * time.Millisecond
		b.WriteString(statusStyle.Render(fmt.Sprintf("Session %s  %s", shortID(m.session.SessionID()), formatDuration(elapsed))))
	}
	b.WriteString("\n")
	b.WriteString(renderProgress(m.session.Progress()))
	b.WriteString("\n")
	if snap.IsSolved() && m.session.MoveCount() > 0 {
		b.WriteString(stageStyle.Render("SOLVED!"))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Moves: %d  %s\n", m.session.MoveCount(), renderMoves(m.moves, 20)))
	if len(m.moves) > 0 {
		b.WriteString(statusStyle.Render("Last: " + notation.Describe(m.moves[len(m.moves)-1])))
		b.WriteString("\n")
	}
	if len(m.reached) > 0 {
		names := make([]string, len(m.reached))
		for i, s := range m.reached {
			names[i] = s.DisplayName()
		}
		b.WriteString(statusStyle.Render("Reached: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	if m.hint != "" {
		b.WriteString(fmt.Sprintf("Hint: %s\n", moveStyle.Render(m.hint)))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("urfdlb=turn  URFDLB=reverse  backspace=undo  h=hint  n=new  e=end  q=quit"))
	b.WriteString("\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runPlay(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	model := newPlayModel(db, stateFile, newScrambler(cmd), configuredScrambleLength(scrambleLength), solverCommand)
	if err := model.open(); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
