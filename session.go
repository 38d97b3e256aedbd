package ragchat

import (
	"context"
	"time"
)

// Session represents a conversation session as mirrored from the backend.
// Messages is only populated for a session loaded with its transcript.
type Session struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsActive     bool
	MessageCount *int
	Messages     []*Message
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	s.MessageCount = clonePtr(s.MessageCount)
	s.Messages = cloneMessages(s.Messages)
	return s
}

// DefaultSessionTitle is used when a send starts without a current session.
const DefaultSessionTitle = "New Conversation"

// SessionUpdate carries the mutable session fields. Nil fields are left
// unchanged by the backend.
type SessionUpdate struct {
	Title    *string
	IsActive *bool
}

// SessionService is the persistence collaborator owning sessions.
type SessionService interface {
	CreateSession(ctx context.Context, title string) (Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	// GetSession returns the session with its transcript.
	GetSession(ctx context.Context, id string) (Session, error)
	UpdateSession(ctx context.Context, id string, upd SessionUpdate) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}
