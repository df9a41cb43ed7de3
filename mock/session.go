package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of newsarc.SessionService.
type SessionService struct {
	CreateSessionFn func(ctx context.Context, session *newsarc.Session) error
	FindSessionsFn  func(ctx context.Context) ([]*newsarc.Session, error)
}

func (s *SessionService) CreateSession(ctx context.Context, session *newsarc.Session) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessions(ctx context.Context) ([]*newsarc.Session, error) {
	return s.FindSessionsFn(ctx)
}
