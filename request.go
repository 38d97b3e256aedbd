package ragchat

import (
	"fmt"
	"strings"
)

// ChatRequest is the payload that opens a stream.
type ChatRequest struct {
	Message            string
	SessionID          string // empty lets the backend pick a session
	EnableWebSearch    bool
	EnableDeepThinking bool
}

// Validate checks that the request carries a non-blank message.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message must not be empty: %w", ErrValidation)
	}
	return nil
}
