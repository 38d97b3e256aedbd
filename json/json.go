// Package json persists session transcripts as versioned JSON documents.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sincloak/ragchat"
)

// envelope is the v1 wire format for an exported session.
type envelope struct {
	Version      int          `json:"version"`
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	IsActive     bool         `json:"is_active"`
	MessageCount *int         `json:"message_count,omitempty"`
	Messages     []messageDTO `json:"messages"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s ragchat.Session) ([]byte, error) {
	env := envelope{
		Version:      1,
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		IsActive:     s.IsActive,
		MessageCount: s.MessageCount,
		Messages:     make([]messageDTO, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (ragchat.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ragchat.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return ragchat.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]*ragchat.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return ragchat.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msg.SessionID = env.ID
		msgs[i] = msg
	}
	return ragchat.Session{
		ID:           env.ID,
		Title:        env.Title,
		CreatedAt:    env.CreatedAt,
		UpdatedAt:    env.UpdatedAt,
		IsActive:     env.IsActive,
		MessageCount: env.MessageCount,
		Messages:     msgs,
	}, nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
// The file is replaced atomically.
func Save(path string, s ragchat.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (ragchat.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ragchat.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
