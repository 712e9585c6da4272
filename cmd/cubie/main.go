// cubie - CLI for simulating, recording and solving a 3x3x3 puzzle.
package main

import (
	"github.com/SeamusWaldron/cubie/internal/cli"
)

func main() {
	cli.Execute()
}
