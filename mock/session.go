package mock

import (
	"context"

	"github.com/sincloak/ragchat"
)

// Interface compliance check.
var _ ragchat.SessionService = (*SessionService)(nil)

// SessionService is a test double for ragchat.SessionService.
// Set the function fields for the methods you need; unset ones panic.
type SessionService struct {
	CreateSessionFn func(ctx context.Context, title string) (ragchat.Session, error)
	ListSessionsFn  func(ctx context.Context) ([]ragchat.Session, error)
	GetSessionFn    func(ctx context.Context, id string) (ragchat.Session, error)
	UpdateSessionFn func(ctx context.Context, id string, upd ragchat.SessionUpdate) (ragchat.Session, error)
	DeleteSessionFn func(ctx context.Context, id string) error
}

// CreateSession delegates to CreateSessionFn.
func (s *SessionService) CreateSession(ctx context.Context, title string) (ragchat.Session, error) {
	return s.CreateSessionFn(ctx, title)
}

// ListSessions delegates to ListSessionsFn.
func (s *SessionService) ListSessions(ctx context.Context) ([]ragchat.Session, error) {
	return s.ListSessionsFn(ctx)
}

// GetSession delegates to GetSessionFn.
func (s *SessionService) GetSession(ctx context.Context, id string) (ragchat.Session, error) {
	return s.GetSessionFn(ctx, id)
}

// UpdateSession delegates to UpdateSessionFn.
func (s *SessionService) UpdateSession(ctx context.Context, id string, upd ragchat.SessionUpdate) (ragchat.Session, error) {
	return s.UpdateSessionFn(ctx, id, upd)
}

// DeleteSession delegates to DeleteSessionFn.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
