// Package solver provides implementations of cubie.Solver.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/SeamusWaldron/cubie"
)

// ErrNoCommand is returned when a Command solver has no program configured.
var ErrNoCommand = errors.New("solver: no command configured")

// Command runs an external solver program. The facelet string is passed as
// the last argument and the solution is read from stdout as space-separated
// move notation, for example a kociemba command line tool.
type Command struct {
	Path   string
	Args   []string
	Logger *slog.Logger
}

// NewCommand parses a command line such as "kociemba" or
// "python3 -m kociemba" into a Command.
func NewCommand(line string, logger *slog.Logger) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Command{Path: fields[0], Args: fields[1:], Logger: logger}, nil
}

// Solve implements cubie.Solver.
func (c *Command) Solve(ctx context.Context, facelets string) ([]cubie.Move, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("%w: %w", cubie.ErrSolverUnreachable, ErrNoCommand)
	}

	args := append(append([]string{}, c.Args...), facelets)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger().Debug("running solver", "path", c.Path, "facelets", facelets)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", cubie.ErrSolverUnreachable, c.Path, msg)
	}

	out := strings.TrimSpace(stdout.String())
	moves, err := cubie.ParseMoves(out)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable solution %q: %v", cubie.ErrSolverUnreachable, out, err)
	}
	c.logger().Debug("solver finished", "moves", len(moves))
	return moves, nil
}

func (c *Command) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
