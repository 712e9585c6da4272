package recorder

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/protocol"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

func newTestSession(t *testing.T) (*Session, *storage.DB, *StateFile) {
	t.Helper()
	dir := t.TempDir()

	db, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}

	sf, err := NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(db, sf, nil), db, sf
}

func TestStateFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	sf, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sf.SetSolverCommand("kociemba")
	sf.SetScrambleLength(25)
	sf.SetLastDevice("AA:BB", "GoCube_X")

	reloaded, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	st := reloaded.State()
	if st.SolverCommand != "kociemba" || st.ScrambleLength != 25 || st.LastDeviceName != "GoCube_X" {
		t.Errorf("reloaded state = %+v", st)
	}
	if err := reloaded.SetScrambleLength(-1); err == nil {
		t.Error("negative scramble length should be rejected")
	}
}

func TestSessionRecordsMovesAndStages(t *testing.T) {
	s, db, sf := newTestSession(t)

	scramble, _ := cubie.ParseMoves("R U R' U'")
	id, err := s.Start("", scramble, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if sf.ActiveSessionID() != id {
		t.Errorf("active session = %q, want %q", sf.ActiveSessionID(), id)
	}
	if _, err := s.Start("", nil, "", ""); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start error = %v, want ErrSessionActive", err)
	}

	var stages []cubie.Stage
	s.SetStageCallback(func(st cubie.Stage) { stages = append(stages, st) })

	if err := s.ApplyNotation("U R U' R'"); err != nil {
		t.Fatal(err)
	}
	if !s.Snapshot().IsSolved() {
		t.Fatal("inverse of the scramble should solve")
	}
	if s.MoveCount() != 4 {
		t.Errorf("MoveCount = %d, want 4", s.MoveCount())
	}
	if len(stages) != 1 || stages[0] != cubie.StageSolved {
		t.Errorf("stage callbacks = %v, want [solved]", stages)
	}

	marks, err := storage.NewStageRepository(db).GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 1 || marks[0].StageKey != "solved" || marks[0].MoveIndex != 3 {
		t.Errorf("stage marks = %+v", marks)
	}

	if err := s.End(); err != nil {
		t.Fatal(err)
	}
	if sf.HasActiveSession() {
		t.Error("End should clear the active session")
	}
	rec, _ := storage.NewSessionRepository(db).Get(id)
	if rec == nil || !rec.Solved || rec.FinalState == nil || *rec.FinalState != cubie.New().FaceletString() {
		t.Errorf("stored session = %+v", rec)
	}
	if err := s.Apply(cubie.R); !errors.Is(err, ErrNoSession) {
		t.Errorf("Apply after End error = %v, want ErrNoSession", err)
	}
}

func TestSessionInvalidNotationStoresNothing(t *testing.T) {
	s, db, _ := newTestSession(t)
	id, _ := s.Start("", nil, "", "")

	if err := s.ApplyNotation("R X"); !errors.Is(err, cubie.ErrInvalidFace) {
		t.Errorf("error = %v, want ErrInvalidFace", err)
	}
	if n, _ := storage.NewMoveRepository(db).Count(id); n != 0 {
		t.Errorf("%d moves stored after invalid notation", n)
	}
	if !s.Snapshot().IsSolved() {
		t.Error("puzzle changed after invalid notation")
	}
}

func TestSessionStoreFailureAppliesNothing(t *testing.T) {
	s, db, _ := newTestSession(t)
	id, _ := s.Start("", nil, "", "")
	if err := s.Apply(cubie.R); err != nil {
		t.Fatal(err)
	}

	// Occupy the next index so the batch insert fails.
	moves := storage.NewMoveRepository(db)
	if _, err := moves.Create(id, 2, 0, cubie.F, nil); err != nil {
		t.Fatal(err)
	}

	before := s.Snapshot().FaceletString()
	if err := s.Apply(cubie.U, cubie.D); err == nil {
		t.Fatal("expected a store error")
	}
	if got := s.Snapshot().FaceletString(); got != before {
		t.Errorf("puzzle changed after a failed store: %s", got)
	}
	if s.MoveCount() != 1 {
		t.Errorf("move count = %d, want 1", s.MoveCount())
	}
	if n, _ := moves.Count(id); n != 2 {
		t.Errorf("%d moves stored, want 2", n)
	}

	// The index did not advance, so the next move takes index 1.
	if err := s.Apply(cubie.L); err != nil {
		t.Fatal(err)
	}
	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 || records[1].MoveIndex != 1 || records[1].Notation != "L" {
		t.Errorf("records = %+v", records)
	}
}

func TestSessionResume(t *testing.T) {
	s, db, _ := newTestSession(t)
	scramble, _ := cubie.ParseMoves("F2 D L'")
	id, _ := s.Start("", scramble, "", "")
	s.ApplyNotation("R U2")
	want := s.Snapshot().FaceletString()

	resumed := NewSession(db, nil, nil)
	if err := resumed.Resume(id); err != nil {
		t.Fatal(err)
	}
	if got := resumed.Snapshot().FaceletString(); got != want {
		t.Errorf("resumed state = %s, want %s", got, want)
	}
	if resumed.MoveCount() != 2 {
		t.Errorf("resumed MoveCount = %d, want 2", resumed.MoveCount())
	}
	if got := cubie.FormatMoves(resumed.Scramble()); got != "F2 D L'" {
		t.Errorf("resumed scramble = %q", got)
	}

	// New moves continue the index sequence.
	if err := resumed.Apply(cubie.B); err != nil {
		t.Fatal(err)
	}
	if next, _ := storage.NewMoveRepository(db).GetNextIndex(id); next != 3 {
		t.Errorf("next index = %d, want 3", next)
	}

	resumed.End()
	if err := NewSession(db, nil, nil).Resume(id); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("resume ended session error = %v, want ErrSessionEnded", err)
	}
	if err := NewSession(db, nil, nil).Resume("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("resume missing session error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionHandleMessage(t *testing.T) {
	s, db, _ := newTestSession(t)
	id, _ := s.Start("", nil, "GoCube_1", "AA:BB")

	var seen []string
	s.SetMoveCallback(func(m cubie.Move) { seen = append(seen, m.Notation()) })

	// Red clockwise twice in one notification, then a battery report.
	rot, _ := protocol.Parse(protocol.Frame(protocol.MsgTypeRotation, []byte{0x08, 0, 0x08, 0}))
	bat, _ := protocol.Parse(protocol.Frame(protocol.MsgTypeBattery, []byte{90}))
	for _, msg := range []*protocol.Message{rot, bat} {
		if err := s.HandleMessage(msg); err != nil {
			t.Fatal(err)
		}
	}

	if len(seen) != 1 || seen[0] != "R2" {
		t.Errorf("moves = %v, want [R2]", seen)
	}
	events, _ := storage.NewEventRepository(db).GetBySession(id, "")
	if len(events) != 2 || events[0].EventType != "rotation" || events[1].EventType != "battery" {
		t.Errorf("events = %+v", events)
	}
	records, _ := storage.NewMoveRepository(db).GetBySession(id)
	if len(records) != 1 || records[0].EventID == nil || *records[0].EventID != events[0].EventID {
		t.Errorf("move records = %+v", records)
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Start("", nil, "", "")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 6; i++ {
			s.Apply(cubie.SexyMove...)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			p := s.Snapshot()
			_ = p.FaceletString()
			s.Progress()
		}
	}()
	wg.Wait()

	if !s.Snapshot().IsSolved() || s.MoveCount() != 24 {
		t.Errorf("after 6 sexy moves: solved=%v moves=%d", s.Snapshot().IsSolved(), s.MoveCount())
	}
}
