package cubie

import "strings"

// Stage represents layer-by-layer progress, building the white layer on D.
// Stages are ordered from Scrambled to Solved, allowing comparison with
// < and > operators.
type Stage int

const (
	// StageScrambled: the white cross is not complete.
	StageScrambled Stage = iota

	// StageCross: the four white edges are home and oriented.
	StageCross

	// StageFirstLayer: the white corners are home too.
	StageFirstLayer

	// StageSecondLayer: the four middle-layer edges are home too.
	StageSecondLayer

	// StageSolved: every piece is home.
	StageSolved
)

// String returns a short identifier for the stage.
func (s Stage) String() string {
	switch s {
	case StageScrambled:
		return "scrambled"
	case StageCross:
		return "cross"
	case StageFirstLayer:
		return "first_layer"
	case StageSecondLayer:
		return "second_layer"
	case StageSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageScrambled:
		return "Scrambled"
	case StageCross:
		return "White Cross"
	case StageFirstLayer:
		return "First Layer"
	case StageSecondLayer:
		return "Second Layer"
	case StageSolved:
		return "Solved"
	default:
		return "Unknown"
	}
}

// Progress summarizes how far the puzzle is from solved.
type Progress struct {
	Stage      Stage
	HomePieces int // Pieces in their solved position and orientation
}

// IsHome reports whether every sticker shows on the face of its own color,
// which also pins the piece to its solved position.
func (p Piece) IsHome() bool {
	for _, s := range p.stickers[:p.n] {
		if s.Face.SolvedColor() != s.Color {
			return false
		}
	}
	return true
}

// Progress reports the current layer-by-layer stage.
func (p *Puzzle) Progress() Progress {
	var prog Progress
	home := make(map[string]bool, PieceCount)
	for _, piece := range p.reg.pieces {
		if piece.IsHome() {
			home[piece.Label] = true
			prog.HomePieces++
		}
	}

	all := func(match func(label string) bool) bool {
		for _, piece := range p.reg.pieces {
			if match(piece.Label) && !home[piece.Label] {
				return false
			}
		}
		return true
	}
	onD := func(label string) bool { return strings.HasPrefix(label, "D") }
	middle := func(label string) bool { return len(label) == 2 && !strings.ContainsAny(label, "UD") }

	switch {
	case prog.HomePieces == PieceCount:
		prog.Stage = StageSolved
	case !all(func(l string) bool { return onD(l) && len(l) == 2 }):
		prog.Stage = StageScrambled
	case !all(onD):
		prog.Stage = StageCross
	case !all(middle):
		prog.Stage = StageFirstLayer
	default:
		prog.Stage = StageSecondLayer
	}
	return prog
}
