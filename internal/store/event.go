package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a recorded action.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Action    string    `json:"action"`
	Pose      string    `json:"pose"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventRepository provides access to events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event. ID and CreatedAt are filled in when empty.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, action, pose, x, y, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Action, e.Pose, e.X, e.Y, e.CreatedAt,
	)
	return err
}

// Recent returns up to limit events across all sessions, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, session_id, action, pose, x, y, created_at
		 FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Action, &e.Pose, &e.X, &e.Y, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByAction returns how often each action fired in a session.
func (r *EventRepository) CountByAction(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT action, COUNT(*) FROM events WHERE session_id = ? GROUP BY action`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}
	return counts, rows.Err()
}
