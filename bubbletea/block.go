package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is a renderable element in the conversation.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// ToggleMsg tells a collapsible block to toggle its collapsed state.
// Sent by the root model when the user presses the toggle key on a focused block.
type ToggleMsg struct{}

// blockSeparator returns the text placed between two adjacent blocks.
// Reference and usage blocks hang directly under the answer they belong to.
func blockSeparator(prev, curr MessageBlock) string {
	switch curr.(type) {
	case *ReferencesBlock, *UsageBlock:
		switch prev.(type) {
		case *AssistantTextBlock, *ReferencesBlock, *UsageBlock:
			return "\n"
		}
	}
	return "\n\n"
}
