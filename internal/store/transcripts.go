package store

import (
	"errors"
	"fmt"
	"time"

	"antipop/internal/logging"
)

// ErrInvalidTurn is returned for turns missing a session ID or question.
var ErrInvalidTurn = errors.New("invalid chat turn")

// Turn is one persisted question and its reply.
type Turn struct {
	SessionID string    `json:"session_id"`
	Turn      int       `json:"turn"`
	Question  string    `json:"question"`
	Context   string    `json:"context"`
	Reply     string    `json:"reply"`
	Model     string    `json:"model,omitempty"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary describes one stored session.
type SessionSummary struct {
	SessionID string
	Turns     int
	FirstAt   time.Time
	LastAt    time.Time
}

// SaveTurn records a turn. Re-saving an existing (session, turn) pair is a
// no-op, so callers may retry freely.
func (s *TranscriptStore) SaveTurn(t Turn) error {
	if t.SessionID == "" || t.Question == "" || t.Turn < 1 {
		return fmt.Errorf("%w: session=%q turn=%d", ErrInvalidTurn, t.SessionID, t.Turn)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Storing chat turn: session=%s turn=%d question_len=%d reply_len=%d",
		t.SessionID, t.Turn, len(t.Question), len(t.Reply))

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO chat_turns (session_id, turn, question, context, reply, model, fallback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.SessionID, t.Turn, t.Question, t.Context, t.Reply, t.Model, boolToInt(t.Fallback), t.CreatedAt.UnixMilli(),
	)
	if err != nil {
		logging.StoreError("Failed to store chat turn: session=%s turn=%d: %v", t.SessionID, t.Turn, err)
		return fmt.Errorf("failed to store chat turn: %w", err)
	}
	return nil
}

// History returns a session's turns in turn order. A positive limit keeps
// only the most recent turns.
func (s *TranscriptStore) History(sessionID string, limit int) ([]Turn, error) {
	timer := logging.StartTimer(logging.CategoryStore, "History")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT session_id, turn, question, context, reply, model, fallback, created_at FROM (
		   SELECT * FROM chat_turns WHERE session_id = ? ORDER BY turn DESC LIMIT ?
		 ) ORDER BY turn ASC`,
		sessionID, limit,
	)
	if err != nil {
		logging.StoreError("Failed to query history for %s: %v", sessionID, err)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var fallback int
		var createdAt int64
		if err := rows.Scan(&t.SessionID, &t.Turn, &t.Question, &t.Context, &t.Reply, &t.Model, &fallback, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		t.Fallback = fallback != 0
		t.CreatedAt = time.UnixMilli(createdAt)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	logging.StoreDebug("Retrieved %d turns for session=%s", len(turns), sessionID)
	return turns, nil
}

// NextTurn returns the turn number the next SaveTurn for sessionID should use.
func (s *TranscriptStore) NextTurn(sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(turn), 0) FROM chat_turns WHERE session_id = ?`, sessionID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to read last turn: %w", err)
	}
	return last + 1, nil
}

// Sessions lists stored sessions, most recently active first. A positive
// limit caps the result.
func (s *TranscriptStore) Sessions(limit int) ([]SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		 FROM chat_turns
		 GROUP BY session_id
		 ORDER BY MAX(created_at) DESC, session_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		logging.StoreError("Failed to list sessions: %v", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var first, last int64
		if err := rows.Scan(&sum.SessionID, &sum.Turns, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sum.FirstAt = time.UnixMilli(first)
		sum.LastAt = time.UnixMilli(last)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
