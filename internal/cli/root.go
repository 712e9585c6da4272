// Package cli implements the command-line interface for cubie.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath        string
	verbose       bool
	solverCommand string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubie",
	Short: "Piece-based 3x3x3 puzzle simulator and recorder",
	Long: `cubie - A 3x3x3 twisty puzzle simulator built from individual pieces.

Apply moves in standard notation, render the sticker net, scramble and solve,
record sessions to a local database, or follow a GoCube smart cube over
Bluetooth.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubie/cubie.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&solverCommand, "solver", "", "External solver command line (facelets are passed as the last argument)")
}

// newLogger returns a text logger on stderr. Debug output needs --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveDBPath picks the database path: flag, then state file, then default.
func resolveDBPath(flag string, state recorder.AppState) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if state.DBPath != "" {
		return state.DBPath, nil
	}
	return storage.DefaultDBPath()
}

// openDB opens and migrates the database.
func openDB(stateFile *recorder.StateFile) (*storage.DB, error) {
	var state recorder.AppState
	if stateFile != nil {
		state = stateFile.State()
	}
	path, err := resolveDBPath(dbPath, state)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// loadState loads the state file and opens the database it points at.
func loadState() (*recorder.StateFile, *storage.DB, error) {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}
	db, err := openDB(stateFile)
	if err != nil {
		return nil, nil, err
	}
	return stateFile, db, nil
}
