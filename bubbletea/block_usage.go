package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sincloak/ragchat"
)

var _ MessageBlock = (*UsageBlock)(nil)

// UsageBlock renders the token usage of one answer. A later snapshot
// replaces the earlier one.
type UsageBlock struct {
	usage  ragchat.TokenUsage
	styles Styles
}

// NewUsageBlock creates a UsageBlock.
func NewUsageBlock(u ragchat.TokenUsage, styles Styles) *UsageBlock {
	return &UsageBlock{usage: u, styles: styles}
}

// Set replaces the usage snapshot.
func (b *UsageBlock) Set(u ragchat.TokenUsage) {
	b.usage = u
}

func (b *UsageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *UsageBlock) View(width int) string {
	s := b.usage.String()
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(b.styles.Muted.Render("tokens: " + s))
}
