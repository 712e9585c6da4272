package cubie

// Color represents a sticker color.
type Color byte

const (
	NoColor Color = iota // No sticker faces that direction
	Yellow               // Up face when solved
	Red                  // Right face when solved
	Blue                 // Front face when solved
	White                // Down face when solved
	Orange               // Left face when solved
	Green                // Back face when solved
)

// Colors lists the six sticker colors in solved face order (U, R, F, D, L, B).
var Colors = [6]Color{Yellow, Red, Blue, White, Orange, Green}

func (c Color) String() string {
	switch c {
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case White:
		return "white"
	case Orange:
		return "orange"
	case Green:
		return "green"
	default:
		return "black"
	}
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Letter returns the first letter of the color name in upper case.
// Yellow=Y, Red=R, Blue=B, White=W, Orange=O, Green=G.
func (c Color) Letter() byte {
	switch c {
	case Yellow:
		return 'Y'
	case Red:
		return 'R'
	case Blue:
		return 'B'
	case White:
		return 'W'
	case Orange:
		return 'O'
	case Green:
		return 'G'
	default:
		return 'X'
	}
}

// ParseColor parses a color name or its letter (case-insensitive).
func ParseColor(s string) (Color, bool) {
	switch s {
	case "yellow", "Yellow", "YELLOW", "y", "Y":
		return Yellow, true
	case "red", "Red", "RED", "r", "R":
		return Red, true
	case "blue", "Blue", "BLUE", "b", "B":
		return Blue, true
	case "white", "White", "WHITE", "w", "W":
		return White, true
	case "orange", "Orange", "ORANGE", "o", "O":
		return Orange, true
	case "green", "Green", "GREEN", "g", "G":
		return Green, true
	}
	return NoColor, false
}

// solverLetter is the facelet alphabet expected by two-phase solvers: each
// color is named after the face it belongs to when solved.
func (c Color) solverLetter() byte {
	switch c {
	case Yellow:
		return 'U'
	case Red:
		return 'R'
	case Blue:
		return 'F'
	case White:
		return 'D'
	case Orange:
		return 'L'
	case Green:
		return 'B'
	default:
		return '?'
	}
}
