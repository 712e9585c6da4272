package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/scramble"
)

var (
	scrambleLength int
	scrambleSeed   int64
	scrambleCount  int
	scrambleQuiet  bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Generate random scrambles",
	Long: `Generate random scrambles that never turn the same face twice in a row.

The default length comes from the state file (see 'cubie config') or is 20.

Examples:
  cubie scramble
  cubie scramble --length 25 --count 5
  cubie scramble --seed 42 --quiet`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleLength, "length", "n", 0, "Number of moves (default from state, else 20)")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Seed for a reproducible scramble")
	scrambleCmd.Flags().IntVarP(&scrambleCount, "count", "c", 1, "Number of scrambles to generate")
	scrambleCmd.Flags().BoolVarP(&scrambleQuiet, "quiet", "q", false, "Print only the move sequence")
}

// newScrambler honours --seed when it was given.
func newScrambler(cmd *cobra.Command) *scramble.Scrambler {
	if cmd.Flags().Changed("seed") {
		return scramble.NewSeeded(scrambleSeed)
	}
	return scramble.New()
}

// configuredScrambleLength falls back to the state file when length is unset.
func configuredScrambleLength(length int) int {
	if length > 0 {
		return length
	}
	if sf, err := recorder.NewDefaultStateFile(); err == nil && sf.State().ScrambleLength > 0 {
		return sf.State().ScrambleLength
	}
	return scramble.DefaultLength
}

func runScramble(cmd *cobra.Command, args []string) error {
	if scrambleCount < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	length := configuredScrambleLength(scrambleLength)
	s := newScrambler(cmd)

	for i := 0; i < scrambleCount; i++ {
		moves := s.Generate(length)
		if scrambleQuiet {
			fmt.Println(cubie.FormatMoves(moves))
			continue
		}

		p := cubie.New(cubie.WithLogger(newLogger()))
		if err := p.Apply(moves...); err != nil {
			return err
		}
		if scrambleCount > 1 {
			fmt.Println(titleStyle.Render(fmt.Sprintf("Scramble %d", i+1)))
		}
		fmt.Println(moveStyle.Render(cubie.FormatMoves(moves)))
		fmt.Println()
		fmt.Print(renderNet(p))
		fmt.Println()
	}
	return nil
}
