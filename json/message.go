package json

import (
	"fmt"
	"time"

	"github.com/sincloak/ragchat"
)

// messageDTO is the JSON representation of a Message.
type messageDTO struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	TokenUsage *usageDTO      `json:"token_usage,omitempty"`
	References []referenceDTO `json:"references,omitempty"`
}

type usageDTO struct {
	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
	RAGTokens    *int `json:"rag_tokens,omitempty"`
	TotalTokens  *int `json:"total_tokens,omitempty"`
}

type referenceDTO struct {
	Source          *string        `json:"source,omitempty"`
	Content         string         `json:"content"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SimilarityScore *float64       `json:"similarity_score,omitempty"`
}

func marshalMessage(m *ragchat.Message) (messageDTO, error) {
	if m == nil {
		return messageDTO{}, fmt.Errorf("nil message")
	}
	switch m.Role {
	case ragchat.RoleUser, ragchat.RoleAssistant:
	default:
		return messageDTO{}, fmt.Errorf("unknown role: %q", m.Role)
	}
	dto := messageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if u := m.TokenUsage; u != nil {
		dto.TokenUsage = &usageDTO{
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
			RAGTokens:    u.RAGTokens,
			TotalTokens:  u.TotalTokens,
		}
	}
	for _, r := range m.References {
		dto.References = append(dto.References, referenceDTO{
			Source:          r.Source,
			Content:         r.Content,
			Metadata:        r.Metadata,
			SimilarityScore: r.SimilarityScore,
		})
	}
	return dto, nil
}

func unmarshalMessage(dto messageDTO) (*ragchat.Message, error) {
	role := ragchat.Role(dto.Role)
	switch role {
	case ragchat.RoleUser, ragchat.RoleAssistant:
	default:
		return nil, fmt.Errorf("unknown role: %q", dto.Role)
	}
	m := &ragchat.Message{
		ID:        dto.ID,
		Role:      role,
		Content:   dto.Content,
		CreatedAt: dto.CreatedAt,
	}
	if u := dto.TokenUsage; u != nil {
		m.TokenUsage = &ragchat.TokenUsage{
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
			RAGTokens:    u.RAGTokens,
			TotalTokens:  u.TotalTokens,
		}
	}
	if len(dto.References) > 0 {
		m.References = make([]ragchat.ReferenceDocument, len(dto.References))
		for i, r := range dto.References {
			metadata := r.Metadata
			if metadata == nil {
				metadata = map[string]any{}
			}
			m.References[i] = ragchat.ReferenceDocument{
				Source:          r.Source,
				Content:         r.Content,
				Metadata:        metadata,
				SimilarityScore: r.SimilarityScore,
			}
		}
	}
	return m, nil
}
