package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/protocol"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var (
	ErrSessionActive   = errors.New("recorder: session already in progress")
	ErrNoSession       = errors.New("recorder: no session in progress")
	ErrSessionNotFound = errors.New("recorder: session not found")
	ErrSessionEnded    = errors.New("recorder: session already ended")
)

// SessionState represents the current state of a session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session owns a puzzle and records every move applied to it.
//
// All methods are safe for concurrent use: a device notification goroutine
// may apply moves while a UI reads the state. Moves and queries are
// serialized by a single lock.
type Session struct {
	db        *storage.DB
	stateFile *StateFile
	logger    *slog.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int
	scramble  []cubie.Move
	puzzle    *cubie.Puzzle
	tracker   *cubie.Tracker

	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository
	eventRepo   *storage.EventRepository
	stageRepo   *storage.StageRepository

	onMove  func(cubie.Move)
	onStage func(cubie.Stage)
}

// NewSession creates a session manager. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := cubie.New(cubie.WithLogger(logger))
	return &Session{
		db:          db,
		stateFile:   stateFile,
		logger:      logger,
		state:       StateIdle,
		puzzle:      p,
		tracker:     cubie.NewTracker(p),
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
		eventRepo:   storage.NewEventRepository(db),
		stageRepo:   storage.NewStageRepository(db),
	}
}

// SetMoveCallback sets the callback for applied moves.
// Callbacks run after the session lock is released.
func (s *Session) SetMoveCallback(cb func(cubie.Move)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMove = cb
}

// SetStageCallback sets the callback for newly reached stages.
func (s *Session) SetStageCallback(cb func(cubie.Stage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStage = cb
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded after the scramble.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// Scramble returns the scramble the session started from.
func (s *Session) Scramble() []cubie.Move {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]cubie.Move, len(s.scramble))
	copy(out, s.scramble)
	return out
}

// ElapsedMs returns the time since the session started in milliseconds.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime).Milliseconds()
}

// Snapshot returns a copy of the puzzle that the caller may read freely.
func (s *Session) Snapshot() *cubie.Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzle.Clone()
}

// Progress returns the current and highest stage reached.
func (s *Session) Progress() (current, highest cubie.Stage) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Current(), s.tracker.Highest()
}

// Start starts a new session from a solved puzzle scrambled by scramble.
func (s *Session) Start(notes string, scramble []cubie.Move, deviceName, deviceID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrSessionActive
	}

	p := cubie.New(cubie.WithLogger(s.logger))
	if err := p.Apply(scramble...); err != nil {
		return "", fmt.Errorf("failed to apply scramble: %w", err)
	}

	id, err := s.sessionRepo.Create(notes, cubie.FormatMoves(scramble), deviceName, deviceID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.begin(id, time.Now(), scramble, cubie.NewTracker(p))
	s.tracker.SetStageCallback(s.recordStage)
	s.logger.Info("session started", "session", id, "scramble", cubie.FormatMoves(scramble))

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			s.logger.Warn("failed to save active session", "err", err)
		}
	}
	return id, nil
}

// Resume rebuilds an open session by replaying its scramble and moves.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrSessionActive
	}

	rec, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if rec.EndedAt != nil {
		return fmt.Errorf("%w: %s", ErrSessionEnded, sessionID)
	}

	var scramble []cubie.Move
	if rec.Scramble != nil {
		if scramble, err = cubie.ParseMoves(*rec.Scramble); err != nil {
			return fmt.Errorf("failed to parse stored scramble: %w", err)
		}
	}
	p := cubie.New(cubie.WithLogger(s.logger))
	if err := p.Apply(scramble...); err != nil {
		return fmt.Errorf("failed to replay scramble: %w", err)
	}

	records, err := s.moveRepo.GetBySession(sessionID)
	if err != nil {
		return err
	}

	// Stage marks already exist for the replayed moves.
	tracker := cubie.NewTracker(p)
	for _, r := range records {
		m, err := r.Move()
		if err != nil {
			return fmt.Errorf("failed to parse stored move %d: %w", r.MoveIndex, err)
		}
		if err := tracker.Apply(m); err != nil {
			return fmt.Errorf("failed to replay move %d: %w", r.MoveIndex, err)
		}
	}

	s.begin(sessionID, rec.StartedAt, scramble, tracker)
	s.moveIndex = len(records)
	tracker.SetStageCallback(s.recordStage)

	s.logger.Info("session resumed", "session", sessionID, "moves", len(records))
	return nil
}

// begin installs the tracked puzzle. Caller holds s.mu and sets the stage
// callback once the puzzle is in its live state.
func (s *Session) begin(id string, started time.Time, scramble []cubie.Move, t *cubie.Tracker) {
	s.sessionID = id
	s.startTime = started
	s.scramble = scramble
	s.puzzle = t.Puzzle()
	s.moveIndex = 0
	s.tracker = t
	s.state = StateRecording
}

// recordStage stores a stage mark. Called by the tracker under s.mu.
func (s *Session) recordStage(stage cubie.Stage, historyIndex int) {
	moveIndex := historyIndex - len(s.scramble)
	ts := time.Since(s.startTime).Milliseconds()
	if _, err := s.stageRepo.Create(s.sessionID, stage.String(), moveIndex, ts); err != nil {
		s.logger.Warn("stage not recorded", "stage", stage, "err", err)
	}
	s.logger.Info("stage reached", "stage", stage.DisplayName(), "move", moveIndex)
}

// Apply validates, stores and applies moves. Nothing is stored or applied
// if any move is invalid.
func (s *Session) Apply(moves ...cubie.Move) error {
	return s.apply(moves, nil)
}

// ApplyNotation parses and applies a move sequence.
func (s *Session) ApplyNotation(notation string) error {
	moves, err := cubie.ParseMoves(notation)
	if err != nil {
		return err
	}
	return s.Apply(moves...)
}

func (s *Session) apply(moves []cubie.Move, eventID *int64) error {
	if len(moves) == 0 {
		return nil
	}
	for _, m := range moves {
		if !m.Valid() {
			return fmt.Errorf("%w: %v", cubie.ErrInvalidFace, m)
		}
	}

	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrNoSession
	}

	// Valid moves only fail on an internal inconsistency. Try them on a
	// copy so such a failure leaves nothing stored.
	if err := s.puzzle.Clone().Apply(moves...); err != nil {
		s.mu.Unlock()
		return err
	}

	before := s.tracker.Highest()
	ts := time.Since(s.startTime).Milliseconds()
	if err := s.moveRepo.CreateBatch(s.sessionID, moves, s.moveIndex, ts, eventID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to store moves: %w", err)
	}
	s.moveIndex += len(moves)
	if err := s.tracker.Apply(moves...); err != nil {
		s.mu.Unlock()
		return err
	}

	after := s.tracker.Highest()
	onMove, onStage := s.onMove, s.onStage
	s.mu.Unlock()

	if onMove != nil {
		for _, m := range moves {
			onMove(m)
		}
	}
	if onStage != nil && after > before {
		onStage(after)
	}
	return nil
}

// HandleMessage stores a device message and applies any moves it carries.
// Messages arriving outside a session are ignored.
func (s *Session) HandleMessage(msg *protocol.Message) error {
	if s.State() != StateRecording {
		return nil
	}

	eventType, payload, err := protocol.DecodeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}

	s.mu.RLock()
	id, ts := s.sessionID, time.Since(s.startTime).Milliseconds()
	s.mu.RUnlock()

	raw := msg.RawBase64
	eventID, err := s.eventRepo.Create(id, ts, eventType, payload, &raw)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}

	if msg.Type != protocol.MsgTypeRotation {
		return nil
	}
	rotations, err := protocol.DecodeRotation(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to decode rotations: %w", err)
	}
	return s.apply(protocol.RotationsToMoves(rotations), &eventID)
}

// End closes the session, storing the final facelet string.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNoSession
	}

	if err := s.sessionRepo.End(s.sessionID, s.puzzle.FaceletString(), s.puzzle.IsSolved()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.state = StateEnded
	s.logger.Info("session ended", "session", s.sessionID, "moves", s.moveIndex, "solved", s.puzzle.IsSolved())

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.logger.Warn("failed to clear active session", "err", err)
		}
	}
	return nil
}
