package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session is one recorded run of a detector.
type Session struct {
	ID         string
	Detector   string
	Config     json.RawMessage
	Frames     int
	Detections int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create starts a new session for the named detector. config is stored as
// JSON for later inspection.
func (r *SessionRepository) Create(detector string, config any) (*Session, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encode session config: %w", err)
	}

	sess := &Session{
		ID:        uuid.New().String(),
		Detector:  detector,
		Config:    raw,
		StartedAt: time.Now().UTC(),
	}

	_, err = r.db.Exec(
		`INSERT INTO sessions (id, detector, config, started_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Detector, string(sess.Config), sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

const sessionColumns = `id, detector, config, frames, detections, started_at, ended_at`

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	s := &Session{}
	var (
		config string
		ended  sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.Detector, &config, &s.Frames, &s.Detections, &s.StartedAt, &ended); err != nil {
		return nil, err
	}
	s.Config = json.RawMessage(config)
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// End marks the session as finished.
func (r *SessionRepository) End(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// Delete removes a session and everything recorded for it.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
