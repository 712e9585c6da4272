package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie/internal/recorder"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
	Long: `Settings are stored in ~/.cubie/state.json.

Examples:
  cubie config
  cubie config set-solver "kociemba"
  cubie config set-scramble-length 25
  cubie config set-db ~/cubes/practice.db`,
	RunE: runConfigShow,
}

var configSolverCmd = &cobra.Command{
	Use:   "set-solver <command>",
	Short: "Save the external solver command (empty to clear)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(sf *recorder.StateFile) error {
			return sf.SetSolverCommand(args[0])
		})
	},
}

var configScrambleCmd = &cobra.Command{
	Use:   "set-scramble-length <n>",
	Short: "Save the default scramble length (0 for the built-in default)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[0])
		}
		return updateConfig(func(sf *recorder.StateFile) error {
			return sf.SetScrambleLength(n)
		})
	},
}

var configDBCmd = &cobra.Command{
	Use:   "set-db <path>",
	Short: "Save the database path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		return updateConfig(func(sf *recorder.StateFile) error {
			return sf.SetDBPath(path)
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSolverCmd)
	configCmd.AddCommand(configScrambleCmd)
	configCmd.AddCommand(configDBCmd)
}

func updateConfig(set func(*recorder.StateFile) error) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if err := set(stateFile); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return printConfig(stateFile)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	return printConfig(stateFile)
}

func printConfig(stateFile *recorder.StateFile) error {
	state := stateFile.State()
	db, err := resolveDBPath("", state)
	if err != nil {
		return err
	}
	orDefault := func(s, def string) string {
		if s == "" {
			return statusStyle.Render(def)
		}
		return s
	}

	fmt.Printf("State file:      %s\n", stateFile.Path())
	fmt.Printf("Database:        %s\n", db)
	fmt.Printf("Solver:          %s\n", orDefault(state.SolverCommand, "(undo known moves)"))
	length := ""
	if state.ScrambleLength > 0 {
		length = strconv.Itoa(state.ScrambleLength)
	}
	fmt.Printf("Scramble length: %s\n", orDefault(length, "(default)"))
	return nil
}
