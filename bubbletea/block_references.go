package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sincloak/ragchat"
)

var _ MessageBlock = (*ReferencesBlock)(nil)

// snippetRunes bounds the excerpt shown per reference.
const snippetRunes = 160

// ReferencesBlock lists the source documents of one answer. It starts
// collapsed; a later references event replaces the whole list.
type ReferencesBlock struct {
	refs      []ragchat.ReferenceDocument
	collapsed bool
	styles    Styles
}

// NewReferencesBlock creates a collapsed ReferencesBlock.
func NewReferencesBlock(refs []ragchat.ReferenceDocument, styles Styles) *ReferencesBlock {
	return &ReferencesBlock{refs: refs, collapsed: true, styles: styles}
}

// Set replaces the reference list.
func (b *ReferencesBlock) Set(refs []ragchat.ReferenceDocument) {
	b.refs = refs
}

func (b *ReferencesBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ReferencesBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	noun := "references"
	if len(b.refs) == 1 {
		noun = "reference"
	}
	header := b.styles.Reference.Render(wrap.Render(fmt.Sprintf("%s %d %s", indicator, len(b.refs), noun)))
	if b.collapsed || len(b.refs) == 0 {
		return header
	}

	lines := []string{header}
	indent := lipgloss.NewStyle().PaddingLeft(4).Width(width)
	for i, r := range b.refs {
		title := "untitled"
		if r.Source != nil && *r.Source != "" {
			title = *r.Source
		}
		if r.SimilarityScore != nil {
			title += fmt.Sprintf(" (%.2f)", *r.SimilarityScore)
		}
		lines = append(lines, wrap.Render(fmt.Sprintf("  [%d] %s", i+1, title)))
		if snippet := excerpt(r.Content); snippet != "" {
			lines = append(lines, b.styles.Muted.Render(indent.Render(snippet)))
		}
	}
	return strings.Join(lines, "\n")
}

// excerpt flattens whitespace and truncates to snippetRunes.
func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= snippetRunes {
		return s
	}
	return string(runes[:snippetRunes-1]) + "…"
}
