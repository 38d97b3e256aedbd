package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sincloak/ragchat"
	"github.com/sincloak/ragchat/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders a streamed answer as markdown. Paragraphs that
// can no longer change (everything before the last blank line outside a
// code fence) are rendered once per width and cached; only the tail is
// re-rendered as content fragments arrive.
type AssistantTextBlock struct {
	content strings.Builder
	theme   ragchat.Theme

	stable        string         // settled prefix, without the trailing blank line
	stableByWidth map[int]string // rendered stable prefix per width
}

// NewAssistantTextBlock creates an empty block for a streamed answer.
func NewAssistantTextBlock(theme ragchat.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:         theme,
		stableByWidth: make(map[int]string),
	}
}

// Append adds a content fragment.
func (b *AssistantTextBlock) Append(text string) {
	b.content.WriteString(text)
	b.settle()
}

// Text returns the raw markdown received so far.
func (b *AssistantTextBlock) Text() string {
	return b.content.String()
}

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	stable := b.renderStable(width)
	tail := b.tail()
	if hasUnclosedFence(tail) {
		// Close the fence for display only so a half-streamed code block
		// renders as code.
		tail += "\n```"
	}
	var rendered string
	if strings.TrimSpace(tail) != "" {
		rendered = goldmark.Render(tail, width, b.theme)
	}
	switch {
	case strings.TrimSpace(rendered) == "":
		return stable
	case stable == "":
		return rendered
	default:
		return strings.TrimRight(stable, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
	}
}

// settle moves the stable boundary to the last blank line whose prefix has
// every code fence closed.
func (b *AssistantTextBlock) settle() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		if candidate := raw[:idx]; !hasUnclosedFence(candidate) {
			if candidate != b.stable {
				b.stable = candidate
				clear(b.stableByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderStable(width int) string {
	if b.stable == "" {
		return ""
	}
	if cached, ok := b.stableByWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.stable, width, b.theme)
	b.stableByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) tail() string {
	raw := b.content.String()
	if b.stable == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.stable+"\n\n")
}

// hasUnclosedFence reports whether s has an odd number of "```" markers.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
