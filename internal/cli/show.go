package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/notation"
)

var (
	showPlain    bool
	showFacelets bool
	showPieces   bool
	showDescribe bool
)

var showCmd = &cobra.Command{
	Use:   "show [moves...]",
	Short: "Apply moves to a solved puzzle and print it",
	Long: `Apply a move sequence to a solved puzzle and print the sticker net.

Examples:
  cubie show "R U R' U'"
  cubie show R U2 F --facelets
  cubie show --pieces F`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print letters without colour")
	showCmd.Flags().BoolVar(&showFacelets, "facelets", false, "Print the 54-character facelet string")
	showCmd.Flags().BoolVar(&showPieces, "pieces", false, "List every piece with its position")
	showCmd.Flags().BoolVar(&showDescribe, "describe", false, "Describe each move in words")
}

func runShow(cmd *cobra.Command, args []string) error {
	p := cubie.New(cubie.WithLogger(newLogger()))
	if err := p.ApplyNotation(strings.Join(args, " ")); err != nil {
		return err
	}

	if showDescribe && len(p.Moves()) > 0 {
		fmt.Println(notation.DescribeAll(p.Moves()))
		fmt.Println()
	}

	switch {
	case showFacelets:
		fmt.Println(p.FaceletString())
		return nil
	case showPlain:
		fmt.Print(p.String())
	default:
		fmt.Print(renderNet(p))
	}

	if showPieces {
		fmt.Println()
		for _, piece := range p.Pieces() {
			marker := ""
			if !piece.IsHome() {
				marker = moveStyle.Render(" *")
			}
			fmt.Printf("  %-4s %s%s\n", piece.Label, piece.Position, marker)
		}
	}

	prog := p.Progress()
	fmt.Println()
	fmt.Printf("%s  %s\n", renderProgress(prog.Stage, prog.Stage), statusStyle.Render(fmt.Sprintf("%d/%d pieces home", prog.HomePieces, cubie.PieceCount)))
	return nil
}
