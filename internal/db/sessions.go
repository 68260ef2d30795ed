package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-coach/internal/interview"
)

// -----------------------------------------------------------------------------
// Session Store
// -----------------------------------------------------------------------------

// SessionStore implements interview.Store on the interview_sessions table.
// The whole session is kept as one JSONB document; status and role title are
// copied into columns for listing.
type SessionStore struct {
	db *DB
}

// NewSessionStore returns a store backed by db
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a new session
func (s *SessionStore) Create(ctx context.Context, session *interview.Session) error {
	content, err := encodeSession(session)
	if err != nil {
		return err
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, status, role_title, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, string(session.Status), session.RoleTitle, content, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	return nil
}

// Get loads a session by id
func (s *SessionStore) Get(ctx context.Context, id string) (*interview.Session, error) {
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT content FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &interview.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return decodeSession(content)
}

// Save replaces a stored session
func (s *SessionStore) Save(ctx context.Context, session *interview.Session) error {
	content, err := encodeSession(session)
	if err != nil {
		return err
	}

	tag, err := s.db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = $2, role_title = $3, content = $4, updated_at = NOW()
		 WHERE id = $1`,
		session.ID, string(session.Status), session.RoleTitle, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return &interview.NotFoundError{ID: session.ID}
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &interview.NotFoundError{ID: id}
	}
	return nil
}

// ListSessions returns the most recent sessions, optionally filtered by status
func (s *SessionStore) ListSessions(ctx context.Context, status interview.Status, limit int) ([]interview.Summary, error) {
	if limit <= 0 {
		limit = interview.DefaultListLimit
	}
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, status, role_title, created_at FROM interview_sessions
		 WHERE $1 = '' OR status = $1
		 ORDER BY created_at DESC, id LIMIT $2`,
		string(status), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := []interview.Summary{}
	for rows.Next() {
		var summary interview.Summary
		var st string
		if err := rows.Scan(&summary.ID, &st, &summary.RoleTitle, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		summary.Status = interview.Status(st)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// CountByStatus returns how many sessions are in each status
func (s *SessionStore) CountByStatus(ctx context.Context) (map[interview.Status]int64, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT status, COUNT(*) FROM interview_sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[interview.Status]int64)
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("failed to scan session count: %w", err)
		}
		counts[interview.Status(st)] = n
	}
	return counts, rows.Err()
}

func encodeSession(session *interview.Session) ([]byte, error) {
	content, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return content, nil
}

func decodeSession(content []byte) (*interview.Session, error) {
	var session interview.Session
	if err := json.Unmarshal(content, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Answers == nil {
		session.Answers = []interview.Answer{}
	}
	return &session, nil
}
