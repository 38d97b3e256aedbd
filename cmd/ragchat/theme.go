package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/sincloak/ragchat"
)

// theme holds the styles used for plain command output.
type theme struct {
	reference lipgloss.Style
	muted     lipgloss.Style
	header    lipgloss.Style
	success   lipgloss.Style
}

func newTheme() theme {
	t := ragchat.DefaultTheme()
	color := func(i int) lipgloss.Color { return lipgloss.Color(strconv.Itoa(i)) }
	return theme{
		reference: lipgloss.NewStyle().Foreground(color(t.Reference)),
		muted:     lipgloss.NewStyle().Foreground(color(t.Muted)),
		header:    lipgloss.NewStyle().Bold(true).Foreground(color(t.Accent)),
		success:   lipgloss.NewStyle().Foreground(color(t.Success)),
	}
}
