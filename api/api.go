// Package api implements [ragchat.Streamer] and [ragchat.SessionService]
// against the RAG backend's REST API.
//
// Streaming replies arrive as blank-line-delimited records, each carrying one
// "data: <json>" line. The stream controller reads the response body one
// chunk at a time, splits it with [sse.Buffer], decodes records with
// [Decode] and hands events out through the pull-based [ragchat.Stream]
// interface.
package api

import (
	"encoding/json"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 60 * time.Second
	readChunkSize  = 4096

	streamPath   = "/v1/chat/stream"
	ingestPath   = "/v1/chat/ingest"
	sessionsPath = "/v1/sessions"

	// payloadPrefix marks the payload line of a record.
	payloadPrefix = "data: "
)

// apiChatRequest is the JSON body that opens a stream.
type apiChatRequest struct {
	Message            string  `json:"message"`
	SessionID          *string `json:"session_id,omitempty"`
	EnableWebSearch    bool    `json:"enable_web_search"`
	EnableDeepThinking bool    `json:"enable_deep_thinking"`
}

// apiStreamEvent is one record payload. The backend serializes every field,
// using null for the ones the event type does not use.
type apiStreamEvent struct {
	EventType  *string         `json:"event_type"`
	Content    *string         `json:"content"`
	TokenUsage *apiTokenUsage  `json:"token_usage"`
	References *[]apiReference `json:"references"`
	Error      *string         `json:"error"`
}

type apiTokenUsage struct {
	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
	RAGTokens    *int `json:"rag_tokens,omitempty"`
	TotalTokens  *int `json:"total_tokens,omitempty"`
}

type apiReference struct {
	Source          *string        `json:"source"`
	Content         *string        `json:"content"`
	Metadata        map[string]any `json:"metadata"`
	SimilarityScore *float64       `json:"similarity_score"`
}

// apiSession is the session representation used by the sessions endpoints.
// Messages is only present on the detail endpoint.
type apiSession struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	IsActive     bool         `json:"is_active"`
	MessageCount *int         `json:"message_count"`
	Messages     []apiMessage `json:"messages,omitempty"`
}

type apiMessage struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"session_id"`
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	TokenUsage *apiTokenUsage `json:"token_usage"`
	References []apiReference `json:"references"`
}

type apiCreateSession struct {
	Title string `json:"title"`
}

type apiUpdateSession struct {
	Title    *string `json:"title,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type apiIngestResponse struct {
	Message           string `json:"message"`
	DocumentsIngested int    `json:"documents_ingested"`
}

// apiErrorResponse is the JSON body returned on non-2xx responses. Detail is
// a string for most errors and a list of objects for validation failures.
type apiErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
