package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubie"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	stageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

var stickerColors = map[cubie.Color]lipgloss.Color{
	cubie.Yellow: lipgloss.Color("#FFD500"),
	cubie.Red:    lipgloss.Color("#C41E3A"),
	cubie.Blue:   lipgloss.Color("#0051BA"),
	cubie.White:  lipgloss.Color("#FFFFFF"),
	cubie.Orange: lipgloss.Color("#FF5800"),
	cubie.Green:  lipgloss.Color("#009E60"),
}

func stickerStyle(c cubie.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(stickerColors[c]).
		Foreground(lipgloss.Color("#000000"))
}

// Net dimensions: the unfolded puzzle is 4 faces wide and 3 faces tall.
const (
	netRows = 9
	netCols = 12
)

// netOrigin is the top-left cell of each face in the unfolded net.
var netOrigin = [6][2]int{
	cubie.FaceU: {0, 3},
	cubie.FaceL: {3, 0},
	cubie.FaceF: {3, 3},
	cubie.FaceR: {3, 6},
	cubie.FaceB: {3, 9},
	cubie.FaceD: {6, 3},
}

// netLayout projects every face into the unfolded net. Cells outside the
// net hold NoColor.
func netLayout(p *cubie.Puzzle) ([netRows][netCols]cubie.Color, error) {
	var net [netRows][netCols]cubie.Color
	for _, f := range cubie.Faces {
		grid, err := p.Project(f)
		if err != nil {
			return net, err
		}
		o := netOrigin[f]
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				net[o[0]+r][o[1]+c] = grid[r][c]
			}
		}
	}
	return net, nil
}

// renderNet draws the unfolded puzzle with coloured stickers.
func renderNet(p *cubie.Puzzle) string {
	net, err := netLayout(p)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("render failed: %v", err))
	}

	var b strings.Builder
	for r := range net {
		var row strings.Builder
		for c := range net[r] {
			color := net[r][c]
			if color == cubie.NoColor {
				row.WriteString("   ")
				continue
			}
			row.WriteString(stickerStyle(color).Render(" " + string(color.Letter()) + " "))
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteString("\n")
	}
	return b.String()
}

// renderProgress describes the current and highest stage.
func renderProgress(current, highest cubie.Stage) string {
	s := fmt.Sprintf("Stage: %s", stageStyle.Render(current.DisplayName()))
	if highest > current {
		s += statusStyle.Render(fmt.Sprintf(" (best: %s)", highest.DisplayName()))
	}
	return s
}

// renderMoves shows at most the last limit moves.
func renderMoves(moves []cubie.Move, limit int) string {
	if len(moves) == 0 {
		return statusStyle.Render("(no moves)")
	}
	prefix := ""
	if limit > 0 && len(moves) > limit {
		moves = moves[len(moves)-limit:]
		prefix = "... "
	}
	return prefix + moveStyle.Render(cubie.FormatMoves(moves))
}
