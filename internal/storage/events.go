package storage

import (
	"database/sql"
	"fmt"
)

// Event is a raw device notification stored alongside a session.
type Event struct {
	EventID     int64
	SessionID   string
	TsMs        int64
	EventType   string
	PayloadJSON string
	RawBase64   *string
}

// EventRepository provides CRUD operations for events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event and returns its ID.
func (r *EventRepository) Create(sessionID string, tsMs int64, eventType, payloadJSON string, rawBase64 *string) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO events (session_id, ts_ms, event_type, payload_json, raw_base64)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, tsMs, eventType, payloadJSON, rawBase64)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get event ID: %w", err)
	}
	return id, nil
}

// GetBySession retrieves events for a session in arrival order.
// An empty eventType returns every type.
func (r *EventRepository) GetBySession(sessionID, eventType string) ([]Event, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if eventType == "" {
		rows, err = r.db.Query(`
			SELECT event_id, session_id, ts_ms, event_type, payload_json, raw_base64
			FROM events
			WHERE session_id = ?
			ORDER BY ts_ms, event_id
		`, sessionID)
	} else {
		rows, err = r.db.Query(`
			SELECT event_id, session_id, ts_ms, event_type, payload_json, raw_base64
			FROM events
			WHERE session_id = ? AND event_type = ?
			ORDER BY ts_ms, event_id
		`, sessionID, eventType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.EventID, &e.SessionID, &e.TsMs, &e.EventType, &e.PayloadJSON, &e.RawBase64); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of events for a session.
func (r *EventRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM events WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
