package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sincloak/ragchat"
)

// Decode parses one record into an event. It returns an error wrapping
// [ragchat.ErrDecode] when the record has no payload line, the payload is
// not valid JSON, the event type is missing or unknown, or a field required
// by the event type is absent. Callers skip such records.
func Decode(record string) (ragchat.Event, error) {
	payload, ok := payloadLine(record)
	if !ok {
		return nil, fmt.Errorf("no payload line: %w", ragchat.ErrDecode)
	}

	var raw apiStreamEvent
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ragchat.ErrDecode, err)
	}
	if raw.EventType == nil {
		return nil, fmt.Errorf("missing event_type: %w", ragchat.ErrDecode)
	}

	switch t := ragchat.EventType(*raw.EventType); t {
	case ragchat.EventTypeContent:
		if raw.Content == nil {
			return nil, missing(t, "content")
		}
		return ragchat.EventContent{Text: *raw.Content}, nil
	case ragchat.EventTypeTokenUsage:
		if raw.TokenUsage == nil {
			return nil, missing(t, "token_usage")
		}
		return ragchat.EventTokenUsage{Usage: toTokenUsage(*raw.TokenUsage)}, nil
	case ragchat.EventTypeReferences:
		if raw.References == nil {
			return nil, missing(t, "references")
		}
		refs, err := toReferences(*raw.References)
		if err != nil {
			return nil, err
		}
		return ragchat.EventReferences{References: refs}, nil
	case ragchat.EventTypeDone:
		return ragchat.EventDone{}, nil
	case ragchat.EventTypeError:
		var msg string
		if raw.Error != nil {
			msg = *raw.Error
		}
		return ragchat.EventError{Message: msg}, nil
	default:
		return nil, fmt.Errorf("unknown event_type %q: %w", t, ragchat.ErrDecode)
	}
}

// payloadLine returns the text after the marker on the first payload line.
func payloadLine(record string) (string, bool) {
	for line := range strings.Lines(record) {
		line = strings.TrimRight(line, "\r\n")
		if rest, ok := strings.CutPrefix(line, payloadPrefix); ok {
			return rest, true
		}
	}
	return "", false
}

func missing(t ragchat.EventType, field string) error {
	return fmt.Errorf("%s event without %s: %w", t, field, ragchat.ErrDecode)
}

func toTokenUsage(u apiTokenUsage) ragchat.TokenUsage {
	return ragchat.TokenUsage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		RAGTokens:    u.RAGTokens,
		TotalTokens:  u.TotalTokens,
	}
}

func toReferences(refs []apiReference) ([]ragchat.ReferenceDocument, error) {
	out := make([]ragchat.ReferenceDocument, len(refs))
	for i, r := range refs {
		if r.Content == nil {
			return nil, fmt.Errorf("reference %d without content: %w", i, ragchat.ErrDecode)
		}
		metadata := r.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		out[i] = ragchat.ReferenceDocument{
			Source:          r.Source,
			Content:         *r.Content,
			Metadata:        metadata,
			SimilarityScore: r.SimilarityScore,
		}
	}
	return out, nil
}
