package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/mediagraph/internal/landmark"
)

// Frame is one recorded frame of a session. Entities is nil for frames
// without a detection.
type Frame struct {
	ID         int64
	SessionID  string
	Seq        uint64
	Detected   bool
	CapturedAt time.Time
	Entities   [][]landmark.Landmark
}

// FrameRepository stores frames and their landmarks.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Add inserts f and its landmarks in a single transaction and updates the
// session counters.
func (r *FrameRepository) Add(f *Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO frames (session_id, seq, detected, captured_at) VALUES (?, ?, ?, ?)`,
		f.SessionID, int64(f.Seq), f.Detected, f.CapturedAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	if f.Detected && len(f.Entities) > 0 {
		stmt, err := tx.Prepare(
			`INSERT INTO landmarks (frame_id, entity, landmark_index, x, y, z, visibility, presence)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for entity, points := range f.Entities {
			for i, p := range points {
				if _, err := stmt.Exec(id, entity, i, p.X, p.Y, p.Z, p.Visibility, p.Presence); err != nil {
					return err
				}
			}
		}
	}

	detections := 0
	if f.Detected {
		detections = 1
	}
	result, err = tx.Exec(
		`UPDATE sessions SET frames = frames + 1, detections = detections + ? WHERE id = ?`,
		detections, f.SessionID,
	)
	if err != nil {
		return err
	}
	if err := expectOne(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	f.ID = id
	return nil
}

// ListBySession returns up to limit frames of a session in capture order,
// starting after seq. A limit of zero or less returns every frame.
func (r *FrameRepository) ListBySession(sessionID string, after uint64, limit int) ([]Frame, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, seq, detected, captured_at
		 FROM frames
		 WHERE session_id = ? AND seq > ?
		 ORDER BY seq
		 LIMIT ?`,
		sessionID, int64(after), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var (
			f   Frame
			seq int64
		)
		if err := rows.Scan(&f.ID, &f.SessionID, &seq, &f.Detected, &f.CapturedAt); err != nil {
			return nil, err
		}
		f.Seq = uint64(seq)
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range frames {
		if !frames[i].Detected {
			continue
		}
		entities, err := r.landmarks(frames[i].ID)
		if err != nil {
			return nil, err
		}
		frames[i].Entities = entities
	}

	return frames, nil
}

func (r *FrameRepository) landmarks(frameID int64) ([][]landmark.Landmark, error) {
	rows, err := r.db.Query(
		`SELECT entity, landmark_index, x, y, z, visibility, presence
		 FROM landmarks
		 WHERE frame_id = ?
		 ORDER BY entity, landmark_index`,
		frameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities [][]landmark.Landmark
	for rows.Next() {
		var (
			entity, index int
			p             landmark.Landmark
		)
		if err := rows.Scan(&entity, &index, &p.X, &p.Y, &p.Z, &p.Visibility, &p.Presence); err != nil {
			return nil, err
		}
		for len(entities) <= entity {
			entities = append(entities, nil)
		}
		entities[entity] = append(entities[entity], p)
	}

	return entities, rows.Err()
}
