package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/ble"
	"github.com/SeamusWaldron/cubie/internal/protocol"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Follow a GoCube smart cube over Bluetooth",
	Long: `Connect to a GoCube and mirror its turns on the puzzle in real time,
recording them into a session.

Keyboard shortcuts:
  s       - Start a new session (the cube must be solved)
  e       - End the current session
  f       - Flash the cube backlight
  q/Esc   - Quit`,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
}

// Messages
type bleConnectedMsg struct{ name string }
type bleMessageMsg struct{ msg *protocol.Message }
type bleErrorMsg struct{ err error }

type liveModel struct {
	// BLE
	client      *ble.Client
	scanResults []ble.ScanResult
	connected   bool
	deviceName  string
	battery     int
	msgChan     chan *protocol.Message

	// Database
	db        *storage.DB
	stateFile *recorder.StateFile
	session   *recorder.Session

	moves   []cubie.Move
	reached []cubie.Stage
	elapsed time.Duration

	err      error
	quitting bool
}

func newLiveModel(db *storage.DB, stateFile *recorder.StateFile, client *ble.Client, results []ble.ScanResult) *liveModel {
	m := &liveModel{
		client:      client,
		scanResults: results,
		battery:     -1,
		msgChan:     make(chan *protocol.Message, 100),
		db:          db,
		stateFile:   stateFile,
		session:     recorder.NewSession(db, stateFile, newLogger()),
	}
	m.hook(m.session)
	return m
}

func (m *liveModel) hook(s *recorder.Session) {
	s.SetMoveCallback(func(mv cubie.Move) { m.moves = append(m.moves, mv) })
	s.SetStageCallback(func(st cubie.Stage) { m.reached = append(m.reached, st) })
}

func (m *liveModel) Init() tea.Cmd {
	return tea.Batch(
		m.connectBLE(),
		m.tickCmd(),
		m.listenForMessages(),
	)
}

func (m *liveModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		return bleMessageMsg{msg: <-m.msgChan}
	}
}

func (m *liveModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *liveModel) connectBLE() tea.Cmd {
	client := m.client
	results := m.scanResults
	last := m.stateFile.State().LastDeviceID
	msgChan := m.msgChan

	return func() tea.Msg {
		client.SetMessageCallback(func(msg *protocol.Message) {
			select {
			case msgChan <- msg:
			default:
				// Channel full, drop message
			}
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.ConnectToResult(ctx, pickDevice(results, last)); err != nil {
			return bleErrorMsg{err: fmt.Errorf("connection failed: %w", err)}
		}
		return bleConnectedMsg{name: client.DeviceName()}
	}
}

func (m *liveModel) startSession() {
	if !m.connected {
		m.err = fmt.Errorf("not connected")
		return
	}
	if m.session.State() == recorder.StateRecording {
		if m.err = m.session.End(); m.err != nil {
			return
		}
	}
	if err := m.client.ResetSolved(); err != nil {
		m.err = err
		return
	}

	s := recorder.NewSession(m.db, m.stateFile, newLogger())
	m.hook(s)
	if _, err := s.Start("live", nil, m.client.DeviceName(), m.client.DeviceUUID()); err != nil {
		m.err = err
		return
	}
	m.session = s
	m.moves = nil
	m.reached = nil
	m.err = nil
}

func (m *liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.client.Disconnect()
			return m, tea.Quit
		case "s":
			m.startSession()
		case "e":
			if m.session.State() == recorder.StateRecording {
				m.err = m.session.End()
			}
		case "f":
			m.err = m.client.FlashBacklight()
		}
		return m, nil

	case bleConnectedMsg:
		m.connected = true
		m.deviceName = msg.name
		if err := m.stateFile.SetLastDevice(m.client.DeviceUUID(), msg.name); err != nil {
			m.err = err
		}
		return m, nil

	case bleErrorMsg:
		m.err = msg.err
		return m, nil

	case bleMessageMsg:
		if err := m.session.HandleMessage(msg.msg); err != nil {
			m.err = err
		}
		m.battery = m.client.Battery()
		return m, m.listenForMessages()

	case tickMsg:
		m.elapsed = time.Duration(m.session.ElapsedMs()) * time.Millisecond
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *liveModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cubie live"))
	b.WriteString("\n\n")

	if m.connected {
		status := fmt.Sprintf("Connected: %s", m.deviceName)
		if m.battery >= 0 {
			status += fmt.Sprintf(" (Battery: %d%%)", m.battery)
		}
		b.WriteString(statusStyle.Render(status))
	} else {
		b.WriteString(errorStyle.Render("Connecting..."))
	}
	b.WriteString("\n\n")

	snap := m.session.Snapshot()
	b.WriteString(renderNet(snap))
	b.WriteString("\n")

	if m.session.State() == recorder.StateRecording {
		b.WriteString(stageStyle.Render(fmt.Sprintf("RECORDING: %s", formatDuration(m.elapsed))))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Session: %s\n", shortID(m.session.SessionID())))
		b.WriteString(renderProgress(m.session.Progress()))
		b.WriteString("\n")
		if snap.IsSolved() && m.session.MoveCount() > 0 {
			b.WriteString(stageStyle.Render("SOLVED!"))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("Moves: %d  %s\n", m.session.MoveCount(), renderMoves(m.moves, 20)))
	} else {
		b.WriteString("Ready to record\n")
		b.WriteString("Press 's' to start (cube must be SOLVED first)\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "Keys: s=start  f=flash  q=quit"
	if m.session.State() == recorder.StateRecording {
		help = "Keys: s=restart  e=end  f=flash  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func runLive(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	// Scan before the TUI takes over the terminal.
	client, results, err := scanForGoCube(cmd.Context(), 3)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No GoCube devices found.")
		fmt.Println()
		fmt.Println("To fix this:")
		fmt.Println("  1. Rotate your cube to wake it up")
		fmt.Println("  2. Make sure it's not connected to your phone")
		fmt.Println("  3. Run this command again")
		return nil
	}

	model := newLiveModel(db, stateFile, client, results)
	if stateFile.HasActiveSession() {
		fmt.Printf("Resuming active session: %s\n", stateFile.ActiveSessionID())
		if err := model.session.Resume(stateFile.ActiveSessionID()); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Could not resume: %v", err)))
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
