package ragchat

import (
	"context"
	"errors"
	"io"
	"iter"
)

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, yielding events.
	StreamStateComplete                     // Done event seen or body ended cleanly.
	StreamStateFailed                       // Error event seen or the transport failed.
	StreamStateClosed                       // Close() called before a terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateFailed:
		return "failed"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern. Next reads from the underlying
// transport only when no complete record is already pending.
//
// Next returns io.EOF once the stream has ended. A done or error event is
// yielded first; the transport is released as soon as it is decoded and
// anything after it is never read.
//
// Close releases the transport. It is idempotent and safe to call on every
// exit path; the transport is released exactly once. Cancellation of the
// context passed to Streamer.Stream aborts an in-flight read.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Streamer opens event streams against the backend.
type Streamer interface {
	Stream(ctx context.Context, req ChatRequest) (Stream, error)
}

// Events adapts a Stream to a lazy sequence. The stream is closed when the
// sequence ends for any reason, including the consumer stopping early.
// A transport error is yielded once as the final element.
func Events(s Stream) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		defer s.Close()
		for {
			evt, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(evt, nil) {
				return
			}
		}
	}
}
