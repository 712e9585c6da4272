package cubie

// Tracker wraps a Puzzle and reports the first time each stage is reached.
type Tracker struct {
	puzzle  *Puzzle
	highest Stage // Monotonic, never goes backwards
	onStage func(stage Stage, moveIndex int)
}

// NewTracker creates a tracker over p. The starting stage is taken from
// p's current state, so only later improvements are reported.
func NewTracker(p *Puzzle) *Tracker {
	return &Tracker{
		puzzle:  p,
		highest: p.Progress().Stage,
	}
}

// SetStageCallback sets a callback fired when a new highest stage is
// reached. moveIndex is the zero-based history index of the move that
// reached it.
func (t *Tracker) SetStageCallback(cb func(stage Stage, moveIndex int)) {
	t.onStage = cb
}

// Apply applies moves one at a time and checks for stage transitions after
// each. It stops at the first error.
func (t *Tracker) Apply(moves ...Move) error {
	for _, m := range moves {
		if err := t.puzzle.Apply(m); err != nil {
			return err
		}
		t.check()
	}
	return nil
}

// Restart resets the high-water mark to the puzzle's current stage, for
// example after a scramble.
func (t *Tracker) Restart() {
	t.highest = t.puzzle.Progress().Stage
}

func (t *Tracker) check() {
	current := t.puzzle.Progress().Stage
	if current <= t.highest {
		return
	}
	t.highest = current
	if t.onStage != nil {
		t.onStage(current, len(t.puzzle.history)-1)
	}
}

// Current returns the stage of the puzzle as it is now.
func (t *Tracker) Current() Stage {
	return t.puzzle.Progress().Stage
}

// Highest returns the highest stage reached since the tracker started.
func (t *Tracker) Highest() Stage {
	return t.highest
}

// Puzzle returns the tracked puzzle.
func (t *Tracker) Puzzle() *Puzzle {
	return t.puzzle
}
