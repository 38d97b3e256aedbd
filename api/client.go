package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sincloak/ragchat"
)

// Interface compliance checks.
var (
	_ ragchat.Streamer       = (*Client)(nil)
	_ ragchat.SessionService = (*Client)(nil)
)

// Client talks to the RAG backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL, including the "/api" prefix. Useful for
// testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every non-streaming call. Streams are only bounded by
// the context passed to Stream. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream opens a streaming chat request and returns a [ragchat.Stream]
// yielding its events. A non-success status or a missing body fails with a
// *ragchat.TransportError before any event is produced.
func (c *Client) Stream(ctx context.Context, req ragchat.ChatRequest) (ragchat.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	body, err := json.Marshal(buildChatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("api: %w", &ragchat.TransportError{StatusCode: resp.StatusCode, Detail: "no response body"})
	}

	c.logger.Debug().Str("session_id", req.SessionID).Msg("stream opened")
	return newStream(resp.Body, c.logger), nil
}

func buildChatRequest(req ragchat.ChatRequest) apiChatRequest {
	out := apiChatRequest{
		Message:            req.Message,
		EnableWebSearch:    req.EnableWebSearch,
		EnableDeepThinking: req.EnableDeepThinking,
	}
	if req.SessionID != "" {
		out.SessionID = &req.SessionID
	}
	return out
}

// CreateSession creates a session with the given title.
func (c *Client) CreateSession(ctx context.Context, title string) (ragchat.Session, error) {
	var s apiSession
	if err := c.do(ctx, http.MethodPost, sessionsPath, apiCreateSession{Title: title}, &s); err != nil {
		return ragchat.Session{}, err
	}
	return toSession(s), nil
}

// ListSessions lists the active sessions, most recently updated first.
func (c *Client) ListSessions(ctx context.Context) ([]ragchat.Session, error) {
	var list []apiSession
	if err := c.do(ctx, http.MethodGet, sessionsPath, nil, &list); err != nil {
		return nil, err
	}
	out := make([]ragchat.Session, len(list))
	for i, s := range list {
		out[i] = toSession(s)
	}
	return out, nil
}

// GetSession returns a session with its transcript.
func (c *Client) GetSession(ctx context.Context, id string) (ragchat.Session, error) {
	var s apiSession
	if err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &s); err != nil {
		return ragchat.Session{}, err
	}
	out := toSession(s)
	out.Messages = make([]*ragchat.Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = toMessage(m)
	}
	return out, nil
}

// UpdateSession changes a session's title or active flag.
func (c *Client) UpdateSession(ctx context.Context, id string, upd ragchat.SessionUpdate) (ragchat.Session, error) {
	var s apiSession
	body := apiUpdateSession{Title: upd.Title, IsActive: upd.IsActive}
	if err := c.do(ctx, http.MethodPut, sessionPath(id), body, &s); err != nil {
		return ragchat.Session{}, err
	}
	return toSession(s), nil
}

// DeleteSession deactivates a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id), nil, nil)
}

// Ingest triggers ingestion of the backend's knowledge base and returns the
// number of documents ingested.
func (c *Client) Ingest(ctx context.Context) (int, error) {
	var resp apiIngestResponse
	if err := c.do(ctx, http.MethodPost, ingestPath, nil, &resp); err != nil {
		return 0, err
	}
	return resp.DocumentsIngested, nil
}

func sessionPath(id string) string {
	return sessionsPath + "/" + url.PathEscape(id)
}

// do performs a JSON request. in is marshalled as the body when non-nil; the
// response body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: %w", &ragchat.TransportError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("failed to read body: %v", err),
		})
	}
	detail := strings.TrimSpace(string(body))
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Detail) > 0 {
		var s string
		if err := json.Unmarshal(apiErr.Detail, &s); err == nil {
			detail = s
		} else {
			detail = string(apiErr.Detail)
		}
	}
	return fmt.Errorf("api: %w", &ragchat.TransportError{StatusCode: resp.StatusCode, Detail: detail})
}

func toSession(s apiSession) ragchat.Session {
	return ragchat.Session{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		IsActive:     s.IsActive,
		MessageCount: s.MessageCount,
	}
}

func toMessage(m apiMessage) *ragchat.Message {
	msg := &ragchat.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      ragchat.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.TokenUsage != nil {
		u := toTokenUsage(*m.TokenUsage)
		msg.TokenUsage = &u
	}
	if m.References != nil {
		// Unlike stream records, persisted references may omit content.
		msg.References = make([]ragchat.ReferenceDocument, len(m.References))
		for i, r := range m.References {
			var content string
			if r.Content != nil {
				content = *r.Content
			}
			msg.References[i] = ragchat.ReferenceDocument{
				Source:          r.Source,
				Content:         content,
				Metadata:        r.Metadata,
				SimilarityScore: r.SimilarityScore,
			}
		}
	}
	return msg
}
