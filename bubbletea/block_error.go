package bubbletea

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sincloak/ragchat"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed answer inline in the transcript.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	text := fmt.Sprintf("Error: %v", b.err)
	var appErr *ragchat.ApplicationError
	if errors.As(b.err, &appErr) {
		text = "Backend error: " + appErr.Message
	}
	return lipgloss.NewStyle().Width(width).Render(b.styles.Error.Render(text))
}
