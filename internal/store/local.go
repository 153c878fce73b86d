// Package store persists tutor chat transcripts in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"antipop/internal/logging"

	_ "modernc.org/sqlite"
)

// TranscriptStore keeps one row per answered question, keyed by session and
// turn number.
type TranscriptStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewTranscriptStore opens (or creates) the database at path. ":memory:"
// gives a private in-memory database.
func NewTranscriptStore(path string) (*TranscriptStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes are serialized anyway and an in-memory database
	// exists per connection.
	db.SetMaxOpenConns(1)

	s := &TranscriptStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("Transcript store opened: %s", path)
	return s, nil
}

func (s *TranscriptStore) initialize() error {
	turnsTable := `
	CREATE TABLE IF NOT EXISTS chat_turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		question TEXT NOT NULL,
		context TEXT,
		reply TEXT,
		created_at INTEGER NOT NULL,
		UNIQUE(session_id, turn)
	);
	CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns(session_id);
	`
	if _, err := s.db.Exec(turnsTable); err != nil {
		return fmt.Errorf("failed to create chat_turns table: %w", err)
	}
	return RunMigrations(s.db)
}

// Path returns the database location.
func (s *TranscriptStore) Path() string { return s.dbPath }

// Close closes the database connection.
func (s *TranscriptStore) Close() error {
	logging.Store("Closing transcript store")
	return s.db.Close()
}
