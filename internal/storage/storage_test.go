package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/cubie"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return db
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create("", "R U F'", "GoCube_1", "AA:BB")
	if err != nil {
		t.Fatal(err)
	}

	s, err := repo.Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get: %v, %v", s, err)
	}
	if s.Scramble == nil || *s.Scramble != "R U F'" {
		t.Errorf("scramble = %v", s.Scramble)
	}
	if s.Notes != nil {
		t.Errorf("empty notes should be NULL, got %q", *s.Notes)
	}
	if s.EndedAt != nil || s.Solved {
		t.Error("new session should be open and unsolved")
	}

	p := cubie.New()
	if err := repo.End(id, p.FaceletString(), p.IsSolved()); err != nil {
		t.Fatal(err)
	}
	s, _ = repo.Get(id)
	if s.EndedAt == nil || s.DurationMs == nil {
		t.Error("ended session should have end time and duration")
	}
	if !s.Solved || s.FinalState == nil || *s.FinalState != p.FaceletString() {
		t.Errorf("final state = %v, solved = %v", s.FinalState, s.Solved)
	}

	if missing, err := repo.Get("nope"); err != nil || missing != nil {
		t.Errorf("Get(missing) = %v, %v", missing, err)
	}
}

func TestSessionListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.Create("", "", "", "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	list, err := repo.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].SessionID != ids[2] || list[1].SessionID != ids[1] {
		t.Errorf("List(2) = %+v", list)
	}

	last, err := repo.GetLast()
	if err != nil || last == nil || last.SessionID != ids[2] {
		t.Errorf("GetLast = %v, %v", last, err)
	}
	if n, err := repo.Count(); err != nil || n != 3 {
		t.Errorf("Count = %d, %v, want 3", n, err)
	}
}

func TestMovesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, _ := sessions.Create("", "", "", "")
	seq, _ := cubie.ParseMoves("R U2 F'")
	if err := moves.CreateBatch(id, seq, 0, 100, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := moves.Create(id, 3, 250, cubie.LPrime, nil); err != nil {
		t.Fatal(err)
	}

	next, err := moves.GetNextIndex(id)
	if err != nil || next != 4 {
		t.Errorf("GetNextIndex = %d, %v", next, err)
	}

	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	var got []cubie.Move
	for _, r := range records {
		m, err := r.Move()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, m)
	}
	if s := cubie.FormatMoves(got); s != "R U2 F' L'" {
		t.Errorf("stored moves = %q", s)
	}
	if records[1].Face != "U" || records[1].Turn != int(cubie.Double) {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestDuplicateMoveIndexRollsBack(t *testing.T) {
	db := openTestDB(t)
	id, _ := NewSessionRepository(db).Create("", "", "", "")
	moves := NewMoveRepository(db)

	if _, err := moves.Create(id, 1, 0, cubie.R, nil); err != nil {
		t.Fatal(err)
	}
	err := moves.CreateBatch(id, []cubie.Move{cubie.U, cubie.F}, 0, 0, nil)
	if err == nil {
		t.Fatal("expected unique index violation")
	}
	if n, _ := moves.Count(id); n != 1 {
		t.Errorf("count = %d after failed batch, want 1", n)
	}
}

func TestDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	id, _ := sessions.Create("", "", "", "")

	events := NewEventRepository(db)
	eventID, err := events.Create(id, 5, "rotation", `{"moves":["R"]}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	NewMoveRepository(db).Create(id, 0, 5, cubie.R, &eventID)
	NewStageRepository(db).Create(id, cubie.StageCross.String(), 0, 5)

	if err := sessions.Delete(id); err != nil {
		t.Fatal(err)
	}
	for table, count := range map[string]func(string) (int, error){
		"moves":  NewMoveRepository(db).Count,
		"events": events.Count,
	} {
		if n, err := count(id); err != nil || n != 0 {
			t.Errorf("%s left after delete: %d, %v", table, n, err)
		}
	}
	if marks, _ := NewStageRepository(db).GetBySession(id); len(marks) != 0 {
		t.Errorf("stage marks left after delete: %v", marks)
	}
}

func TestMoveRequiresSession(t *testing.T) {
	db := openTestDB(t)
	_, err := NewMoveRepository(db).Create("missing", 0, 0, cubie.R, nil)
	if err == nil {
		t.Error("foreign key should reject moves for unknown sessions")
	}
}

func TestTransactionRollback(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO sessions (session_id, started_at) VALUES ('x', 'now')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}
	if s, _ := NewSessionRepository(db).Get("x"); s != nil {
		t.Error("rolled back insert is visible")
	}
}
