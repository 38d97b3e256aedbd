package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sincloak/ragchat"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "ask [flags] MESSAGE...",
		Short: "Stream one answer to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			opts := append(a.sendOptions(sessionID), ragchat.WithEventHandler(func(evt ragchat.Event) {
				if c, ok := evt.(ragchat.EventContent); ok {
					fmt.Fprint(a.out, c.Text)
				}
			}))
			msg, err := a.chat().Send(cmd.Context(), text, opts...)
			if msg != nil {
				fmt.Fprintln(a.out)
				writeFooter(a.out, msg, newTheme())
			}
			return err
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "continue an existing session")
	addStreamFlags(cmd)
	return cmd
}

// writeFooter prints the references and token usage of an answer.
func writeFooter(w io.Writer, msg *ragchat.Message, th theme) {
	var lines []string
	for i, r := range msg.References {
		title := "untitled"
		if r.Source != nil && *r.Source != "" {
			title = *r.Source
		}
		if r.SimilarityScore != nil {
			title += fmt.Sprintf(" (%.2f)", *r.SimilarityScore)
		}
		lines = append(lines, th.reference.Render(fmt.Sprintf("[%d] %s", i+1, title)))
	}
	if msg.TokenUsage != nil {
		if s := msg.TokenUsage.String(); s != "" {
			lines = append(lines, th.muted.Render("tokens: "+s))
		}
	}
	lines = append(lines, th.muted.Render("session: "+msg.SessionID))
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
