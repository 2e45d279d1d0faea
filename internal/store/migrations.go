package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per capture loop run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			detector TEXT NOT NULL CHECK(detector IN ('pose', 'hands', 'face')),
			config TEXT NOT NULL DEFAULT '{}',
			frames INTEGER NOT NULL DEFAULT 0,
			detections INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Frames table - one row per processed frame
		`CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			detected INTEGER NOT NULL,
			captured_at DATETIME NOT NULL,
			UNIQUE(session_id, seq)
		)`,

		// Landmarks table - landmark positions of detected frames
		`CREATE TABLE IF NOT EXISTS landmarks (
			frame_id INTEGER NOT NULL REFERENCES frames(id) ON DELETE CASCADE,
			entity INTEGER NOT NULL,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			visibility REAL NOT NULL,
			presence REAL NOT NULL,
			PRIMARY KEY (frame_id, entity, landmark_index)
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_frames_session_id ON frames(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
