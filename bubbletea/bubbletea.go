// Package bubbletea provides a Bubble Tea TUI for chatting with the RAG
// backend.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sincloak/ragchat"
)

// SendFunc sends text to the current session and streams the reply. The
// onEvent callback is called for each event after it has been applied to the
// assistant message. The function blocks until the stream terminates or the
// context is cancelled.
type SendFunc func(ctx context.Context, text string, onEvent func(ragchat.Event)) (*ragchat.Message, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event ragchat.Event
}

// SendDoneMsg signals that a send has completed.
type SendDoneMsg struct {
	Message *ragchat.Message
	Err     error
}
