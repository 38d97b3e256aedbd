package api

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sincloak/ragchat"
	"github.com/sincloak/ragchat/sse"
)

// stream implements [ragchat.Stream] over a streaming response body.
type stream struct {
	body    io.ReadCloser
	buf     *sse.Buffer
	chunk   []byte
	records []string // complete records not decoded yet
	eof     bool     // body fully read
	state   ragchat.StreamState
	err     error // terminal transport error, if any
	logger  zerolog.Logger

	releaseOnce sync.Once
	releaseErr  error
}

// Interface compliance check.
var _ ragchat.Stream = (*stream)(nil)

func newStream(body io.ReadCloser, logger zerolog.Logger) *stream {
	return &stream{
		body:   body,
		buf:    sse.NewBuffer(),
		chunk:  make([]byte, readChunkSize),
		state:  ragchat.StreamStateNew,
		logger: logger,
	}
}

// Next returns the next event. It reads from the body only when no complete
// record is pending, and one chunk at a time. Records that fail to decode are
// logged and skipped. After a done or error event the body is released and
// Next returns io.EOF.
func (s *stream) Next() (ragchat.Event, error) {
	switch s.state {
	case ragchat.StreamStateComplete:
		return nil, io.EOF
	case ragchat.StreamStateFailed:
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	case ragchat.StreamStateClosed:
		return nil, fmt.Errorf("api: %w", ragchat.ErrStreamClosed)
	}
	s.state = ragchat.StreamStateStreaming

	for {
		if evt, ok := s.nextRecord(); ok {
			return evt, nil
		}
		if s.eof {
			if tail := s.buf.Pending(); tail != "" {
				s.logger.Debug().Int("bytes", len(tail)).Msg("discarding unterminated record")
			}
			s.finish(ragchat.StreamStateComplete, nil)
			return nil, io.EOF
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.records = append(s.records, s.buf.Feed(s.chunk[:n])...)
		}
		switch {
		case errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			s.finish(ragchat.StreamStateFailed, fmt.Errorf("api: read stream: %w", err))
			return nil, s.err
		}
	}
}

// nextRecord decodes pending records until one yields an event.
func (s *stream) nextRecord() (ragchat.Event, bool) {
	for len(s.records) > 0 {
		record := s.records[0]
		s.records = s.records[1:]

		evt, err := Decode(record)
		if err != nil {
			s.logger.Warn().Err(err).Int("bytes", len(record)).Msg("skipping malformed record")
			continue
		}
		switch evt.(type) {
		case ragchat.EventDone:
			s.finish(ragchat.StreamStateComplete, nil)
		case ragchat.EventError:
			s.finish(ragchat.StreamStateFailed, nil)
		}
		return evt, true
	}
	return nil, false
}

// State returns the current stream state.
func (s *stream) State() ragchat.StreamState {
	return s.state
}

// Close releases the response body. It is idempotent; the body is closed
// exactly once whichever path gets there first.
func (s *stream) Close() error {
	if s.state != ragchat.StreamStateComplete && s.state != ragchat.StreamStateFailed {
		s.state = ragchat.StreamStateClosed
	}
	s.records = nil
	return s.release()
}

// finish records a terminal state and releases the body without reading
// anything that follows.
func (s *stream) finish(state ragchat.StreamState, err error) {
	s.state = state
	s.err = err
	s.records = nil
	if relErr := s.release(); relErr != nil {
		s.logger.Debug().Err(relErr).Msg("closing response body")
	}
	s.logger.Debug().Stringer("state", state).Msg("stream terminated")
}

func (s *stream) release() error {
	s.releaseOnce.Do(func() {
		s.releaseErr = s.body.Close()
	})
	return s.releaseErr
}
