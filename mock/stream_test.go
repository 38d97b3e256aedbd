package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sincloak/ragchat"
	"github.com/sincloak/ragchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamer_Stream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		var got ragchat.ChatRequest
		st := mock.Streamer{
			StreamFn: func(ctx context.Context, req ragchat.ChatRequest) (ragchat.Stream, error) {
				got = req
				return &s, nil
			},
		}
		stream, err := st.Stream(context.Background(), ragchat.ChatRequest{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, &s, stream)
		assert.Equal(t, "hi", got.Message)
	})

	t.Run("panics when StreamFn not set", func(t *testing.T) {
		t.Parallel()
		st := mock.Streamer{}
		assert.Panics(t, func() {
			_, _ = st.Stream(context.Background(), ragchat.ChatRequest{})
		})
	})
}

func TestStream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to NextFn", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{NextFn: func() (ragchat.Event, error) {
			return ragchat.EventContent{Text: "hello"}, nil
		}}
		got, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, ragchat.EventContent{Text: "hello"}, got)
	})

	t.Run("panics when NextFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Panics(t, func() { _, _ = s.Next() })
	})

	t.Run("nil-safe State and Close", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Equal(t, ragchat.StreamStateNew, s.State())
		assert.NoError(t, s.Close())
	})
}

func TestScript(t *testing.T) {
	t.Parallel()
	t.Run("yields events then EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.NewScript(ragchat.EventContent{Text: "a"}, ragchat.EventDone{})

		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, ragchat.EventContent{Text: "a"}, evt)
		assert.Equal(t, ragchat.StreamStateStreaming, s.State())

		_, err = s.Next()
		require.NoError(t, err)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, ragchat.StreamStateComplete, s.State())
	})

	t.Run("yields Err after events", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		s := mock.NewScript()
		s.Err = boom
		_, err := s.Next()
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, ragchat.StreamStateFailed, s.State())
	})

	t.Run("counts closes", func(t *testing.T) {
		t.Parallel()
		s := mock.NewScript(ragchat.EventContent{Text: "a"})
		require.NoError(t, s.Close())
		assert.Equal(t, 1, s.Closes)
		assert.Equal(t, ragchat.StreamStateClosed, s.State())
		_, err := s.Next()
		assert.ErrorIs(t, err, ragchat.ErrStreamClosed)
	})
}

func TestSessionService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := mock.SessionService{
		CreateSessionFn: func(ctx context.Context, title string) (ragchat.Session, error) {
			return ragchat.Session{ID: "s1", Title: title}, nil
		},
		ListSessionsFn: func(ctx context.Context) ([]ragchat.Session, error) {
			return []ragchat.Session{{ID: "s1"}}, nil
		},
		GetSessionFn: func(ctx context.Context, id string) (ragchat.Session, error) {
			return ragchat.Session{ID: id}, nil
		},
		UpdateSessionFn: func(ctx context.Context, id string, upd ragchat.SessionUpdate) (ragchat.Session, error) {
			return ragchat.Session{ID: id, Title: *upd.Title}, nil
		},
		DeleteSessionFn: func(ctx context.Context, id string) error {
			return errors.New("gone")
		},
	}

	s, err := svc.CreateSession(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "t", s.Title)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	s, err = svc.GetSession(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", s.ID)

	title := "renamed"
	s, err = svc.UpdateSession(ctx, "s1", ragchat.SessionUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", s.Title)

	assert.EqualError(t, svc.DeleteSession(ctx, "s1"), "gone")

	assert.Panics(t, func() { _, _ = (&mock.SessionService{}).ListSessions(ctx) })
}
