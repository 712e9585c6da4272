package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/solver"
)

var (
	solveFromSession bool
	solveTimeout     time.Duration
)

var solveCmd = &cobra.Command{
	Use:   "solve [moves...]",
	Short: "Find a solution for a scrambled puzzle",
	Long: `Scramble a solved puzzle with the given moves and ask a solver for a solution.

With --solver (or a solver saved with 'cubie config set-solver') an external
program is run with the 54-character facelet string as its last argument and
must print the solution in move notation. Without one, the known moves are
inverted.

Examples:
  cubie solve "R U R' U'"
  cubie solve --solver kociemba F2 D L'
  cubie solve --session`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolVar(&solveFromSession, "session", false, "Solve the active recording session")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 30*time.Second, "Time limit for the solver")
}

// pickSolver prefers an explicit command line, then the saved one, and
// falls back to undoing the known moves.
func pickSolver(line string, state recorder.AppState, known []cubie.Move) (cubie.Solver, string, error) {
	if line == "" {
		line = state.SolverCommand
	}
	if line == "" {
		return solver.NewUndo(known), "undo", nil
	}
	s, err := solver.NewCommand(line, newLogger())
	if err != nil {
		return nil, "", err
	}
	return s, line, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	var p *cubie.Puzzle
	if solveFromSession {
		if len(args) > 0 {
			return fmt.Errorf("--session takes no moves")
		}
		if p, err = activeSnapshot(stateFile); err != nil {
			return err
		}
	} else {
		p = cubie.New(cubie.WithLogger(newLogger()))
		if err := p.ApplyNotation(strings.Join(args, " ")); err != nil {
			return err
		}
	}

	if p.IsSolved() {
		fmt.Println("Already solved.")
		return nil
	}

	s, name, err := pickSolver(solverCommand, stateFile.State(), p.Moves())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), solveTimeout)
	defer cancel()

	start := time.Now()
	solution, err := p.Solve(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to solve with %s: %w", name, err)
	}

	fmt.Printf("Facelets: %s\n", p.FaceletString())
	fmt.Printf("Solver:   %s (%s)\n", name, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Solution: %s\n", moveStyle.Render(cubie.FormatMoves(solution)))
	fmt.Printf("Length:   %d moves\n", len(solution))

	check := p.Clone()
	if err := check.Apply(solution...); err != nil {
		return err
	}
	if !check.IsSolved() {
		fmt.Println(errorStyle.Render("Warning: the solution does not solve the puzzle"))
	}
	return nil
}

// activeSnapshot rebuilds the active session's puzzle from the database.
func activeSnapshot(stateFile *recorder.StateFile) (*cubie.Puzzle, error) {
	if !stateFile.HasActiveSession() {
		return nil, recorder.ErrNoSession
	}
	db, err := openDB(stateFile)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	session := recorder.NewSession(db, nil, newLogger())
	if err := session.Resume(stateFile.ActiveSessionID()); err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}
