package cli

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/scramble"
	"github.com/SeamusWaldron/cubie/internal/solver"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

func TestKeyMove(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"r", "R", true},
		{"R", "R'", true},
		{"u", "U", true},
		{"B", "B'", true},
		{"x", "", false},
		{"q", "", false},
		{"ctrl+r", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		m, ok := keyMove(tt.key)
		if ok != tt.ok {
			t.Errorf("keyMove(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			continue
		}
		if ok && m.Notation() != tt.want {
			t.Errorf("keyMove(%q) = %s, want %s", tt.key, m.Notation(), tt.want)
		}
	}
}

func TestNetLayoutSolved(t *testing.T) {
	net, err := netLayout(cubie.New())
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range cubie.Faces {
		o := netOrigin[f]
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if got := net[o[0]+r][o[1]+c]; got != f.SolvedColor() {
					t.Errorf("%v[%d][%d] = %v, want %v", f, r, c, got, f.SolvedColor())
				}
			}
		}
	}
	if net[0][0] != cubie.NoColor || net[8][11] != cubie.NoColor {
		t.Error("corners of the net should be empty")
	}
}

func TestNetLayoutAfterU(t *testing.T) {
	p := cubie.New()
	p.U()
	net, err := netLayout(p)
	if err != nil {
		t.Fatal(err)
	}
	// The top row of F now shows R's colour.
	for c := 3; c < 6; c++ {
		if net[3][c] != cubie.Red {
			t.Errorf("F top row col %d = %v, want red", c-3, net[3][c])
		}
	}
}

func TestRenderNetHasNineRows(t *testing.T) {
	out := renderNet(cubie.New())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != netRows {
		t.Fatalf("renderNet produced %d lines, want %d", len(lines), netRows)
	}
	if !strings.Contains(lines[4], "B") || !strings.Contains(lines[0], "Y") {
		t.Errorf("unexpected net:\n%s", out)
	}
}

func TestWrapMoves(t *testing.T) {
	moves := strings.Fields("R U R' U' R' F R2 U' R' U' R U R' F'")
	lines := wrapMoves(moves, 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if got := strings.Join(lines, " "); got != strings.Join(moves, " ") {
		t.Errorf("wrapped moves = %q", got)
	}
	if wrapMoves(nil, 10) != nil {
		t.Error("no moves should give no lines")
	}
}

func TestStageSegments(t *testing.T) {
	var records []storage.MoveRecord
	for i, n := range strings.Fields("U R U' R' L") {
		records = append(records, storage.MoveRecord{MoveIndex: i, Notation: n})
	}
	marks := []storage.StageMark{
		{StageKey: "cross", MoveIndex: 1},
		{StageKey: "solved", MoveIndex: 3},
	}

	segs := stageSegments(marks, records)
	want := []segment{
		{label: "White Cross", moves: []string{"U", "R"}},
		{label: "Solved", moves: []string{"U'", "R'"}},
		{label: "Unfinished", moves: []string{"L"}},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("segments = %+v, want %+v", segs, want)
	}
}

func TestStageDisplayNameUnknownKey(t *testing.T) {
	if got := stageDisplayName("bogus"); got != "bogus" {
		t.Errorf("stageDisplayName(bogus) = %q", got)
	}
}

func TestResolveDBPath(t *testing.T) {
	if got, _ := resolveDBPath("/flag.db", recorder.AppState{DBPath: "/state.db"}); got != "/flag.db" {
		t.Errorf("flag should win, got %s", got)
	}
	if got, _ := resolveDBPath("", recorder.AppState{DBPath: "/state.db"}); got != "/state.db" {
		t.Errorf("state should be used, got %s", got)
	}
}

func TestPickSolver(t *testing.T) {
	s, name, err := pickSolver("", recorder.AppState{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*solver.Undo); !ok || name != "undo" {
		t.Errorf("empty command gave %T %q, want undo", s, name)
	}

	s, name, err = pickSolver("", recorder.AppState{SolverCommand: "kociemba --fast"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.(*solver.Command)
	if !ok || c.Path != "kociemba" || name != "kociemba --fast" {
		t.Errorf("saved command gave %T %+v", s, s)
	}
}

func TestReplayModelSeek(t *testing.T) {
	scr := "R U"
	s := &storage.Session{SessionID: "abc", Scramble: &scr}
	records := []storage.MoveRecord{
		{MoveIndex: 0, Notation: "U'"},
		{MoveIndex: 1, Notation: "R'"},
	}
	marks := []storage.StageMark{{StageKey: "solved", MoveIndex: 1}}

	m, err := newReplayModel(s, records, marks)
	if err != nil {
		t.Fatal(err)
	}
	if m.current.IsSolved() {
		t.Fatal("replay should start scrambled")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if m.pos != 2 || !m.current.IsSolved() {
		t.Errorf("after end: pos=%d solved=%v", m.pos, m.current.IsSolved())
	}
	if !strings.Contains(m.View(), "Reached Solved!") {
		t.Error("view should announce the stage reached by the last move")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.pos != 2 {
		t.Errorf("stepping past the end moved to %d", m.pos)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.pos != 0 || m.current.FaceletString() != m.start.FaceletString() {
		t.Errorf("after stepping back: pos=%d", m.pos)
	}
}

func TestPlayModelRecordsKeys(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "play.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}
	sf, err := recorder.NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	m := newPlayModel(db, sf, scramble.NewSeeded(7), 10, "")
	if err := m.open(); err != nil {
		t.Fatal(err)
	}
	id := m.session.SessionID()
	if sf.ActiveSessionID() != id {
		t.Fatalf("active session = %q, want %q", sf.ActiveSessionID(), id)
	}

	for _, r := range "ruR" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.err != nil {
		t.Fatal(m.err)
	}
	if got := cubie.FormatMoves(m.moves); got != "R U R' R" {
		t.Errorf("moves = %q", got)
	}
	if n, _ := storage.NewMoveRepository(db).Count(id); n != 4 {
		t.Errorf("stored %d moves, want 4", n)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if !m.ended || sf.HasActiveSession() {
		t.Errorf("after e: ended=%v active=%v", m.ended, sf.HasActiveSession())
	}

	stored, err := storage.NewSessionRepository(db).Get(id)
	if err != nil || stored == nil {
		t.Fatalf("get session: %v %v", stored, err)
	}
	d, err := sessionData(db, *stored)
	if err != nil {
		t.Fatal(err)
	}
	if d.Solved || d.Summary.TotalMoves != 4 || d.Summary.MergedMoves != 2 {
		t.Errorf("session data = %+v summary = %+v", d, d.Summary)
	}
}

func TestBuildStats(t *testing.T) {
	var records []storage.MoveRecord
	for i, n := range strings.Fields("R U R' U' R U R' U'") {
		records = append(records, storage.MoveRecord{MoveIndex: i, TsMs: int64(i+1) * 250, Notation: n})
	}
	marks := []storage.StageMark{{StageKey: "cross", MoveIndex: 3, TsMs: 1000}, {StageKey: "bogus", MoveIndex: 5}}

	r, err := buildStats("abc", records, marks, 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Summary.TotalMoves != 8 || len(r.Summary.Stages) != 1 || r.Summary.Stages[0].Stage != cubie.StageCross {
		t.Errorf("summary = %+v", r.Summary)
	}
	if r.Algorithms.Counts["Sexy Move"] != 2 {
		t.Errorf("algorithm counts = %v", r.Algorithms.Counts)
	}
	if ng := r.NGrams[4]; len(ng) == 0 || ng[0].Sequence != "R U R' U'" {
		t.Errorf("4-grams = %+v", ng)
	}
	if r.Repetitions.WastedMoves != 0 || len(r.Repetitions.BackAndForth) != 0 {
		t.Errorf("repetitions = %+v", r.Repetitions)
	}

	records[0].Notation = "X"
	if _, err := buildStats("abc", records, nil, 3); err == nil {
		t.Error("expected an error for a corrupt stored move")
	}
}
