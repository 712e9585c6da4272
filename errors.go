package cubie

import "errors"

// Sentinel errors for the cubie package.
var (
	// Construction errors
	ErrInvalidArity = errors.New("cubie: piece color count does not match its kind")

	// Move and projection errors
	ErrInvalidFace = errors.New("cubie: invalid face or move token")

	// Consistency errors. A piece missing from the registry during a move
	// means the registry and the position grid disagree.
	ErrNotFound = errors.New("cubie: piece not found")

	// Solver errors
	ErrSolverUnreachable = errors.New("cubie: solver rejected puzzle state")
)
