package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sincloak/ragchat"
	bt "github.com/sincloak/ragchat/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.SendFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, send, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, send bt.SendFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(send, ragchat.Session{}, ragchat.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopSend is a SendFunc that produces no events.
func nopSend(_ context.Context, _ string, _ func(ragchat.Event)) (*ragchat.Message, error) {
	return nil, nil
}
