package storage

import "fmt"

// StageMark records the move at which a session first reached a stage.
type StageMark struct {
	MarkID    int64
	SessionID string
	StageKey  string
	MoveIndex int
	TsMs      int64
}

// StageRepository provides CRUD operations for stage marks.
type StageRepository struct {
	db *DB
}

// NewStageRepository creates a new stage repository.
func NewStageRepository(db *DB) *StageRepository {
	return &StageRepository{db: db}
}

// Create records a stage mark and returns its ID.
func (r *StageRepository) Create(sessionID, stageKey string, moveIndex int, tsMs int64) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO stage_marks (session_id, stage_key, move_index, ts_ms)
		VALUES (?, ?, ?, ?)
	`, sessionID, stageKey, moveIndex, tsMs)
	if err != nil {
		return 0, fmt.Errorf("failed to create stage mark: %w", err)
	}
	return result.LastInsertId()
}

// GetBySession retrieves the stage marks of a session in order.
func (r *StageRepository) GetBySession(sessionID string) ([]StageMark, error) {
	rows, err := r.db.Query(`
		SELECT mark_id, session_id, stage_key, move_index, ts_ms
		FROM stage_marks
		WHERE session_id = ?
		ORDER BY move_index, mark_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage marks: %w", err)
	}
	defer rows.Close()

	var marks []StageMark
	for rows.Next() {
		var m StageMark
		if err := rows.Scan(&m.MarkID, &m.SessionID, &m.StageKey, &m.MoveIndex, &m.TsMs); err != nil {
			return nil, fmt.Errorf("failed to scan stage mark: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}
