// Package mock provides test doubles for ragchat interfaces using function
// fields.
package mock

import (
	"context"
	"io"

	"github.com/sincloak/ragchat"
)

// Interface compliance checks.
var (
	_ ragchat.Streamer = (*Streamer)(nil)
	_ ragchat.Stream   = (*Stream)(nil)
)

// Streamer is a test double for ragchat.Streamer.
// Set StreamFn before calling Stream.
type Streamer struct {
	StreamFn func(ctx context.Context, req ragchat.ChatRequest) (ragchat.Stream, error)
}

// Stream delegates to StreamFn.
func (s *Streamer) Stream(ctx context.Context, req ragchat.ChatRequest) (ragchat.Stream, error) {
	return s.StreamFn(ctx, req)
}

// Stream is a test double for ragchat.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero
// value) because test code commonly calls defer stream.Close().
type Stream struct {
	NextFn  func() (ragchat.Event, error)
	StateFn func() ragchat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (ragchat.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() ragchat.StreamState {
	if s.StateFn == nil {
		return ragchat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Script is a Stream that yields a fixed sequence of events, then io.EOF or
// Err. It records how often it was closed.
type Script struct {
	Stream
	Events []ragchat.Event
	Err    error // returned after Events instead of io.EOF when set
	Closes int
}

// NewScript returns a Script yielding events in order.
func NewScript(events ...ragchat.Event) *Script {
	s := &Script{Events: events}
	state := ragchat.StreamStateNew
	s.NextFn = func() (ragchat.Event, error) {
		if state == ragchat.StreamStateClosed {
			return nil, ragchat.ErrStreamClosed
		}
		if len(s.Events) == 0 {
			if s.Err != nil {
				state = ragchat.StreamStateFailed
				return nil, s.Err
			}
			state = ragchat.StreamStateComplete
			return nil, io.EOF
		}
		state = ragchat.StreamStateStreaming
		evt := s.Events[0]
		s.Events = s.Events[1:]
		return evt, nil
	}
	s.StateFn = func() ragchat.StreamState { return state }
	s.CloseFn = func() error {
		s.Closes++
		if state == ragchat.StreamStateNew || state == ragchat.StreamStateStreaming {
			state = ragchat.StreamStateClosed
		}
		return nil
	}
	return s
}
