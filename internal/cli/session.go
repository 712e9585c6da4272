package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var (
	sessionNotes    string
	sessionScramble string
	sessionRandom   bool
	listLimit       int
	showLast        bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage recorded sessions",
	Long:  `Commands for starting, continuing, ending and inspecting recorded sessions.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session",
	Long: `Start a new session from a solved puzzle, optionally scrambled.

Examples:
  cubie session start --random
  cubie session start --scramble "R U R' U'" --notes "practice"`,
	RunE: runSessionStart,
}

var sessionMoveCmd = &cobra.Command{
	Use:   "move <moves...>",
	Short: "Apply moves to the active session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionMove,
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active session",
	RunE:  runSessionEnd,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show details of a session",
	Long: `Display a session's metadata, the stages reached and the moves made
between them, and its final state.

Use --last to show the most recent session.`,
	RunE: runSessionShow,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and everything recorded with it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.AddCommand(sessionStartCmd)
	sessionStartCmd.Flags().StringVar(&sessionNotes, "notes", "", "Notes for this session")
	sessionStartCmd.Flags().StringVar(&sessionScramble, "scramble", "", "Scramble to apply before recording")
	sessionStartCmd.Flags().BoolVar(&sessionRandom, "random", false, "Generate a random scramble")
	sessionStartCmd.Flags().IntVarP(&scrambleLength, "length", "n", 0, "Random scramble length")
	sessionStartCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Seed for the random scramble")
	sessionStartCmd.MarkFlagsMutuallyExclusive("scramble", "random")

	sessionCmd.AddCommand(sessionMoveCmd)
	sessionCmd.AddCommand(sessionEndCmd)

	sessionCmd.AddCommand(sessionListCmd)
	sessionListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")

	sessionCmd.AddCommand(sessionShowCmd)
	sessionShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")

	sessionCmd.AddCommand(sessionDeleteCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	if stateFile.HasActiveSession() {
		return fmt.Errorf("active session already in progress: %s\nUse 'cubie session end' to finish it first", stateFile.ActiveSessionID())
	}

	var moves []cubie.Move
	switch {
	case sessionRandom:
		moves = newScrambler(cmd).Generate(configuredScrambleLength(scrambleLength))
	case sessionScramble != "":
		if moves, err = cubie.ParseMoves(sessionScramble); err != nil {
			return fmt.Errorf("invalid scramble: %w", err)
		}
	}

	session := recorder.NewSession(db, stateFile, newLogger())
	id, err := session.Start(sessionNotes, moves, "", "")
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	fmt.Printf("Started session: %s\n", id)
	if len(moves) > 0 {
		fmt.Printf("Scramble: %s\n", moveStyle.Render(cubie.FormatMoves(moves)))
	}
	fmt.Println()
	fmt.Print(renderNet(session.Snapshot()))
	fmt.Println()
	fmt.Println("Apply moves with: cubie session move R U R' U'")
	fmt.Println("End with: cubie session end")
	return nil
}

// resumeActive rebuilds the active session.
func resumeActive(stateFile *recorder.StateFile, db *storage.DB) (*recorder.Session, error) {
	if !stateFile.HasActiveSession() {
		return nil, fmt.Errorf("no active session in progress")
	}
	session := recorder.NewSession(db, stateFile, newLogger())
	if err := session.Resume(stateFile.ActiveSessionID()); err != nil {
		if errors.Is(err, recorder.ErrSessionNotFound) || errors.Is(err, recorder.ErrSessionEnded) {
			// Stale state file.
			stateFile.ClearActiveSession()
		}
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}
	return session, nil
}

func runSessionMove(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := resumeActive(stateFile, db)
	if err != nil {
		return err
	}

	var reached []cubie.Stage
	session.SetStageCallback(func(s cubie.Stage) { reached = append(reached, s) })

	if err := session.ApplyNotation(strings.Join(args, " ")); err != nil {
		return err
	}

	fmt.Print(renderNet(session.Snapshot()))
	fmt.Println()
	for _, s := range reached {
		fmt.Println(stageStyle.Render(fmt.Sprintf("Reached %s!", s.DisplayName())))
	}
	fmt.Println(renderProgress(session.Progress()))
	fmt.Printf("Moves: %d\n", session.MoveCount())
	if session.Snapshot().IsSolved() {
		fmt.Println()
		fmt.Println("Solved! End with: cubie session end")
	}
	return nil
}

func runSessionEnd(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := resumeActive(stateFile, db)
	if err != nil {
		return err
	}
	id := session.SessionID()
	if err := session.End(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rec, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	fmt.Printf("Session ended: %s\n", id)
	fmt.Println()
	if rec != nil && rec.DurationMs != nil {
		duration := time.Duration(*rec.DurationMs) * time.Millisecond
		fmt.Printf("Duration: %s\n", formatDuration(duration))
	}
	fmt.Printf("Moves:    %d\n", session.MoveCount())
	_, highest := session.Progress()
	fmt.Printf("Best:     %s\n", highest.DisplayName())
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(listLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded. Start one with: cubie session start")
		return nil
	}

	moveRepo := storage.NewMoveRepository(db)
	active := stateFile.ActiveSessionID()

	fmt.Printf("%-36s  %-19s  %-10s  %-6s  %-6s  %s\n", "ID", "STARTED", "DURATION", "MOVES", "SOLVED", "NOTES")
	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}
		moves, _ := moveRepo.Count(s.SessionID)
		solved := "no"
		if s.Solved {
			solved = "yes"
		}
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		status := ""
		if s.SessionID == active {
			status = " (active)"
		}

		fmt.Printf("%-36s  %-19s  %-10s  %-6d  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			moves,
			solved,
			notes,
			status,
		)
	}
	return nil
}

// findSession resolves a session ID argument or --last.
func findSession(repo *storage.SessionRepository, args []string, last bool) (*storage.Session, error) {
	if last {
		s, err := repo.GetLast()
		if err != nil {
			return nil, fmt.Errorf("failed to get latest session: %w", err)
		}
		if s == nil {
			return nil, fmt.Errorf("no sessions found")
		}
		return s, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("please provide a session ID or use --last")
	}
	s, err := repo.Get(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session not found: %s", args[0])
	}
	return s, nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	_, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(storage.NewSessionRepository(db), args, showLast)
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

	fmt.Println(titleStyle.Render("Session Details"))
	fmt.Println()
	fmt.Printf("ID:       %s\n", s.SessionID)
	fmt.Printf("Started:  %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if s.EndedAt != nil {
		fmt.Printf("Ended:    %s\n", s.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if s.DurationMs != nil {
		fmt.Printf("Duration: %s\n", formatDuration(time.Duration(*s.DurationMs)*time.Millisecond))
	}
	if s.DeviceName != nil {
		fmt.Printf("Device:   %s\n", *s.DeviceName)
	}
	if s.Notes != nil {
		fmt.Printf("Notes:    %s\n", *s.Notes)
	}
	if s.Scramble != nil {
		fmt.Printf("Scramble: %s\n", *s.Scramble)
	}
	fmt.Printf("Moves:    %d\n", len(records))
	fmt.Println()

	for _, seg := range stageSegments(marks, records) {
		fmt.Println(stageStyle.Render(fmt.Sprintf("%s (%d moves)", seg.label, len(seg.moves))))
		for _, line := range wrapMoves(seg.moves, 60) {
			fmt.Printf("  %s\n", line)
		}
	}

	if s.FinalState != nil {
		fmt.Println()
		fmt.Printf("Final state: %s\n", *s.FinalState)
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	stateFile, db, err := loadState()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if stateFile.ActiveSessionID() == args[0] {
		stateFile.ClearActiveSession()
	}
	fmt.Printf("Deleted session: %s\n", args[0])
	return nil
}

// segment is a run of moves ending at a stage mark.
type segment struct {
	label string
	moves []string
}

// stageSegments splits the move list at each stage mark. Moves after the
// last mark form a trailing segment.
func stageSegments(marks []storage.StageMark, records []storage.MoveRecord) []segment {
	var segs []segment
	next := 0
	for _, mark := range marks {
		seg := segment{label: stageDisplayName(mark.StageKey)}
		for next < len(records) && records[next].MoveIndex <= mark.MoveIndex {
			seg.moves = append(seg.moves, records[next].Notation)
			next++
		}
		segs = append(segs, seg)
	}
	if next < len(records) {
		seg := segment{label: "Unfinished"}
		for _, r := range records[next:] {
			seg.moves = append(seg.moves, r.Notation)
		}
		segs = append(segs, seg)
	}
	return segs
}

// stageDisplayName maps a stored stage key back to its display name.
func stageDisplayName(key string) string {
	if s, ok := stageFromKey(key); ok {
		return s.DisplayName()
	}
	return key
}

// wrapMoves groups move notations into lines of at most width characters.
func wrapMoves(moves []string, width int) []string {
	var lines []string
	var line string
	for _, m := range moves {
		switch {
		case line == "":
			line = m
		case len(line)+len(m)+1 > width:
			lines = append(lines, line)
			line = m
		default:
			line += " " + m
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
