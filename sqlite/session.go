package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/newsarc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ newsarc.SessionService = (*SessionService)(nil)

// SessionService implements newsarc.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession persists a run summary, assigning a fresh ID when the
// caller did not bring one.
func (s *SessionService) CreateSession(ctx context.Context, session *newsarc.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, finished_at, attempted, succeeded, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.ID,
		session.StartedAt.UTC().Format(time.RFC3339),
		session.FinishedAt.UTC().Format(time.RFC3339),
		session.Attempted, session.Succeeded, session.Failed, session.Skipped)

	return err
}

// FindSessions returns all recorded sessions, most recent first.
func (s *SessionService) FindSessions(ctx context.Context) ([]*newsarc.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, attempted, succeeded, failed, skipped
		FROM sessions
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*newsarc.Session
	for rows.Next() {
		var session newsarc.Session
		var startedAt, finishedAt string

		if err := rows.Scan(&session.ID, &startedAt, &finishedAt,
			&session.Attempted, &session.Succeeded, &session.Failed, &session.Skipped); err != nil {
			return nil, err
		}

		session.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		session.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}

		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}
