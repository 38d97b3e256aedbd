// Package goldmark renders assistant answers, which are markdown, to
// ANSI-styled terminal output using goldmark for parsing and lipgloss for
// styling.
package goldmark

import "github.com/sincloak/ragchat"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, list items and block quotes are word-wrapped to width. Code
// blocks and tables are rendered without reflow.
func Render(source string, width int, theme ragchat.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
