package ragchat

import (
	"fmt"
	"strings"
)

// TokenUsage is a token accounting snapshot reported by the backend.
// Every field is optional; nil means the backend did not report it.
// RAGTokens counts tokens spent on retrieved context.
type TokenUsage struct {
	InputTokens  *int
	OutputTokens *int
	RAGTokens    *int
	TotalTokens  *int
}

// String renders the reported counts, e.g. "input 120 · rag 80 · total 200".
// It returns "" when nothing was reported.
func (u TokenUsage) String() string {
	var parts []string
	for _, f := range []struct {
		name string
		n    *int
	}{
		{"input", u.InputTokens},
		{"output", u.OutputTokens},
		{"rag", u.RAGTokens},
		{"total", u.TotalTokens},
	} {
		if f.n != nil {
			parts = append(parts, fmt.Sprintf("%s %d", f.name, *f.n))
		}
	}
	return strings.Join(parts, " · ")
}
