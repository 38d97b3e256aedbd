package bubbletea_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sincloak/ragchat"
	bt "github.com/sincloak/ragchat/bubbletea"
	"github.com/sincloak/ragchat/goldmark"
	"github.com/stretchr/testify/assert"
)

func TestAssistantTextBlock_View(t *testing.T) {
	t.Parallel()

	theme := ragchat.DefaultTheme()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello **world**")
		view := block.View(80)
		assert.Contains(t, view, "hello")
		assert.Contains(t, view, "world")
		assert.NotContains(t, view, "**")
	})

	t.Run("append accumulates fragments", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello ")
		block.Append("world")
		assert.Contains(t, block.View(80), "hello world")
		assert.Equal(t, "hello world", block.Text())
	})

	t.Run("wraps paragraphs to width", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("short words that keep going and going beyond thirty columns easily")
		view := block.View(30)
		assert.Contains(t, view, "easily")
		assert.Greater(t, strings.Count(view, "\n"), 0)
	})

	t.Run("settled paragraph stays while trailing text streams", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("first paragraph\n\n")
		block.Append("trailing")
		view := block.View(80)
		assert.Contains(t, view, "first paragraph")
		assert.Contains(t, view, "trailing")
	})

	t.Run("width change re-renders settled content", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("word1 word2 word3 word4 word5 word6\n\ntail")
		narrow := block.View(20)
		wide := block.View(80)
		assert.NotEqual(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})

	t.Run("content ending at paragraph boundary matches a full render", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("complete paragraph\n\n")
		assert.Equal(t,
			strings.TrimRight(goldmark.Render("complete paragraph", 80, theme), "\n"),
			strings.TrimRight(block.View(80), "\n"),
		)
	})

	t.Run("unclosed fenced code block renders as code", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("```go\nfmt.Println(\"x\")")
		view := block.View(80)
		assert.Contains(t, view, "fmt.Println")
		assert.NotContains(t, view, "```")
	})

	t.Run("blank line inside code fence does not settle", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("text\n\n```go\nfunc() {\n\ncode")
		view := block.View(80)
		assert.Contains(t, view, "code")
		assert.Contains(t, view, "text")
	})

	t.Run("update returns self with no command", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello")
		updated, cmd := block.Update(tea.KeyMsg{})
		assert.Equal(t, block, updated)
		assert.Nil(t, cmd)
	})

	t.Run("empty content renders empty string", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, bt.NewAssistantTextBlock(theme).View(80))
	})

	t.Run("zero width renders gracefully", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello world\n\nsecond")
		assert.NotPanics(t, func() { block.View(0) })
	})
}
