package ragchat

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Message is one entry of a session transcript.
//
// User content is fixed at creation. Assistant content starts empty and is
// only appended to while its stream is open; once the stream terminates the
// message is never mutated again.
type Message struct {
	ID         string
	SessionID  string
	Role       Role
	Content    string
	CreatedAt  time.Time
	TokenUsage *TokenUsage
	References []ReferenceDocument
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(sessionID, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant placeholder with a fresh ID.
func NewAssistantMessage(sessionID string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
	}
}

// Clone returns a deep copy of m.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	if m.TokenUsage != nil {
		u := m.TokenUsage.clone()
		c.TokenUsage = &u
	}
	if m.References != nil {
		c.References = make([]ReferenceDocument, len(m.References))
		for i, r := range m.References {
			c.References[i] = r.clone()
		}
	}
	return &c
}

func (u TokenUsage) clone() TokenUsage {
	return TokenUsage{
		InputTokens:  clonePtr(u.InputTokens),
		OutputTokens: clonePtr(u.OutputTokens),
		RAGTokens:    clonePtr(u.RAGTokens),
		TotalTokens:  clonePtr(u.TotalTokens),
	}
}

func (r ReferenceDocument) clone() ReferenceDocument {
	return ReferenceDocument{
		Source:          clonePtr(r.Source),
		Content:         r.Content,
		Metadata:        maps.Clone(r.Metadata),
		SimilarityScore: clonePtr(r.SimilarityScore),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneMessages deep-copies a transcript.
func cloneMessages(msgs []*Message) []*Message {
	if msgs == nil {
		return nil
	}
	out := slices.Clone(msgs)
	for i, m := range out {
		out[i] = m.Clone()
	}
	return out
}
