package ragchat

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Chat owns the session list, the transcripts of loaded sessions and the
// per-session streaming status. A session is Streaming between the moment
// Send appends its user and assistant messages and the moment the stream
// terminates; otherwise it is Idle.
//
// All methods are safe for concurrent use. Listing, creating and deleting
// sessions are not synchronized against an in-flight stream.
type Chat struct {
	streamer Streamer
	sessions SessionService
	logger   zerolog.Logger

	mu          sync.Mutex
	list        []Session
	transcripts map[string]*Session
	current     string
	streaming   map[string]struct{}
}

// Option configures a [Chat].
type Option func(*Chat)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Chat) { c.logger = l }
}

// NewChat creates a Chat that streams through streamer and persists through
// sessions.
func NewChat(streamer Streamer, sessions SessionService, opts ...Option) *Chat {
	c := &Chat{
		streamer:    streamer,
		sessions:    sessions,
		logger:      zerolog.Nop(),
		transcripts: make(map[string]*Session),
		streaming:   make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SendOption configures a single Send invocation.
type SendOption func(*sendConfig)

type sendConfig struct {
	onEvent      func(Event)
	sessionID    string
	webSearch    bool
	deepThinking bool
}

// WithEventHandler sets a callback that receives each event after it has
// been applied to the assistant message.
func WithEventHandler(h func(Event)) SendOption {
	return func(c *sendConfig) { c.onEvent = h }
}

// WithSession sends to the given session instead of the current one. The
// session is loaded from the backend when it is not loaded yet.
func WithSession(id string) SendOption {
	return func(c *sendConfig) { c.sessionID = id }
}

// WithWebSearch asks the backend to augment retrieval with a web search.
func WithWebSearch(enabled bool) SendOption {
	return func(c *sendConfig) { c.webSearch = enabled }
}

// WithDeepThinking asks the backend for extended reasoning.
func WithDeepThinking(enabled bool) SendOption {
	return func(c *sendConfig) { c.deepThinking = enabled }
}

// Send appends a user message and an assistant placeholder to the session,
// streams the reply into the placeholder and returns a copy of the final
// assistant message.
//
// Without WithSession the current session is used, and one is created when
// there is none. Send fails with ErrSessionBusy when the session is already
// streaming. An error event fails the send with an *ApplicationError; content
// received before it stays in the transcript. After the stream terminates,
// whatever the outcome, the session list is refreshed on a best-effort basis.
func (c *Chat) Send(ctx context.Context, text string, opts ...SendOption) (*Message, error) {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := (ChatRequest{Message: text}).Validate(); err != nil {
		return nil, err
	}

	sessionID, err := c.resolveSession(ctx, cfg.sessionID)
	if err != nil {
		return nil, err
	}

	assistant, err := c.begin(sessionID, text)
	if err != nil {
		return nil, err
	}
	defer c.end(ctx, sessionID)

	agg := NewAggregator(assistant)
	defer func() {
		c.mu.Lock()
		agg.Finalize()
		c.mu.Unlock()
	}()

	stream, err := c.streamer.Stream(ctx, ChatRequest{
		Message:            text,
		SessionID:          sessionID,
		EnableWebSearch:    cfg.webSearch,
		EnableDeepThinking: cfg.deepThinking,
	})
	if err != nil {
		return nil, err
	}

	for evt, err := range Events(stream) {
		if err != nil {
			return c.snapshot(assistant), err
		}
		c.mu.Lock()
		applyErr := agg.Apply(evt)
		c.mu.Unlock()
		if cfg.onEvent != nil {
			cfg.onEvent(evt)
		}
		if applyErr != nil || evt.Type().Terminal() {
			return c.snapshot(assistant), applyErr
		}
	}
	return c.snapshot(assistant), nil
}

// resolveSession returns the ID of the session a send targets, loading or
// creating it as needed.
func (c *Chat) resolveSession(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	if id == "" {
		id = c.current
	}
	_, loaded := c.transcripts[id]
	c.mu.Unlock()

	switch {
	case id != "" && loaded:
		return id, nil
	case id != "":
		s, err := c.LoadSession(ctx, id)
		if err != nil {
			return "", err
		}
		return s.ID, nil
	default:
		s, err := c.CreateSession(ctx, "")
		if err != nil {
			return "", err
		}
		return s.ID, nil
	}
}

// begin performs the Idle→Streaming transition: it takes the session's
// streaming guard and appends the user message and assistant placeholder.
func (c *Chat) begin(sessionID, text string) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.streaming[sessionID]; busy {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionBusy)
	}
	s, ok := c.transcripts[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	c.streaming[sessionID] = struct{}{}
	assistant := NewAssistantMessage(sessionID)
	s.Messages = append(s.Messages, NewUserMessage(sessionID, text), assistant)
	c.logger.Debug().Str("session_id", sessionID).Str("message_id", assistant.ID).Msg("stream started")
	return assistant, nil
}

// end performs the Streaming→Idle transition and refreshes the session list.
// The refresh is best-effort: its failure is logged, never returned.
func (c *Chat) end(ctx context.Context, sessionID string) {
	c.mu.Lock()
	delete(c.streaming, sessionID)
	c.mu.Unlock()
	c.logger.Debug().Str("session_id", sessionID).Msg("stream ended")

	if err := c.LoadSessions(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("refresh sessions after stream")
	}
}

func (c *Chat) snapshot(m *Message) *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return m.Clone()
}

// LoadSessions replaces the session list with the backend's.
func (c *Chat) LoadSessions(ctx context.Context) error {
	list, err := c.sessions.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return nil
}

// LoadSession fetches a session with its transcript and makes it current.
// The matching list entry gets the transcript's message count. Loading a
// session that is streaming fails with ErrSessionBusy, since it would
// detach the open assistant message.
func (c *Chat) LoadSession(ctx context.Context, id string) (Session, error) {
	c.mu.Lock()
	_, busy := c.streaming[id]
	c.mu.Unlock()
	if busy {
		return Session{}, fmt.Errorf("load session %s: %w", id, ErrSessionBusy)
	}

	s, err := c.sessions.GetSession(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("load session %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A send may have started while the fetch was in flight.
	if _, busy := c.streaming[s.ID]; busy {
		return Session{}, fmt.Errorf("load session %s: %w", id, ErrSessionBusy)
	}
	if s.Messages == nil {
		s.Messages = []*Message{}
	}
	stored := s.Clone()
	c.transcripts[s.ID] = &stored
	c.current = s.ID
	if i := c.indexOf(s.ID); i >= 0 {
		entry := s
		entry.Messages = nil
		n := len(s.Messages)
		entry.MessageCount = &n
		c.list[i] = entry
	}
	return s, nil
}

// CreateSession creates a session, puts it first in the list and makes it
// current. An empty title becomes DefaultSessionTitle.
func (c *Chat) CreateSession(ctx context.Context, title string) (Session, error) {
	if title == "" {
		title = DefaultSessionTitle
	}
	s, err := c.sessions.CreateSession(ctx, title)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = slices.Insert(c.list, 0, s.Clone())
	stored := s.Clone()
	stored.Messages = []*Message{}
	c.transcripts[s.ID] = &stored
	c.current = s.ID
	return s, nil
}

// RenameSession changes a session's title.
func (c *Chat) RenameSession(ctx context.Context, id, title string) (Session, error) {
	if title == "" {
		return Session{}, fmt.Errorf("title must not be empty: %w", ErrValidation)
	}
	s, err := c.sessions.UpdateSession(ctx, id, SessionUpdate{Title: &title})
	if err != nil {
		return Session{}, fmt.Errorf("rename session %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		s.MessageCount = clonePtr(c.list[i].MessageCount)
		c.list[i] = s.Clone()
	}
	if t, ok := c.transcripts[id]; ok {
		t.Title = s.Title
		t.UpdatedAt = s.UpdatedAt
	}
	return s, nil
}

// DeleteSession deletes a session and forgets it locally.
func (c *Chat) DeleteSession(ctx context.Context, id string) error {
	if err := c.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = slices.DeleteFunc(c.list, func(s Session) bool { return s.ID == id })
	delete(c.transcripts, id)
	if c.current == id {
		c.current = ""
	}
	return nil
}

// Sessions returns a copy of the session list.
func (c *Chat) Sessions() []Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Session, len(c.list))
	for i, s := range c.list {
		out[i] = s.Clone()
	}
	return out
}

// Current returns a copy of the current session and its transcript.
func (c *Chat) Current() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionLocked(c.current)
}

// Session returns a copy of a loaded session and its transcript.
func (c *Chat) Session(id string) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionLocked(id)
}

// Streaming reports whether the session has an open assistant message.
func (c *Chat) Streaming(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.streaming[id]
	return ok
}

func (c *Chat) sessionLocked(id string) (Session, bool) {
	s, ok := c.transcripts[id]
	if !ok {
		return Session{}, false
	}
	return s.Clone(), true
}

func (c *Chat) indexOf(id string) int {
	return slices.IndexFunc(c.list, func(s Session) bool { return s.ID == id })
}
