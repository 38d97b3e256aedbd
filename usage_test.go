package ragchat_test

import (
	"testing"

	"github.com/sincloak/ragchat"
	"github.com/stretchr/testify/assert"
)

func TestTokenUsage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ragchat.TokenUsage{}.String())
	assert.Equal(t, "total 42", ragchat.TokenUsage{TotalTokens: intPtr(42)}.String())
	assert.Equal(t, "input 120 · output 8 · rag 80 · total 208", ragchat.TokenUsage{
		InputTokens:  intPtr(120),
		OutputTokens: intPtr(8),
		RAGTokens:    intPtr(80),
		TotalTokens:  intPtr(208),
	}.String())
}
