package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sincloak/ragchat"
	chatjson "github.com/sincloak/ragchat/json"
	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage conversation sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(a),
		newSessionsCreateCmd(a),
		newSessionsShowCmd(a),
		newSessionsRenameCmd(a),
		newSessionsDeleteCmd(a),
		newSessionsExportCmd(a),
	)
	return cmd
}

func newSessionsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.chat()
			if err := c.LoadSessions(cmd.Context()); err != nil {
				return err
			}
			writeSessionTable(a.out, c.Sessions())
			return nil
		},
	}
}

func writeSessionTable(w io.Writer, sessions []ragchat.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, newTheme().muted.Render("no sessions"))
		return
	}
	th := newTheme()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "MESSAGES", "UPDATED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.header
			}
			return lipgloss.NewStyle()
		})
	for _, s := range sessions {
		count := "-"
		if s.MessageCount != nil {
			count = strconv.Itoa(*s.MessageCount)
		}
		title := s.Title
		if s.IsActive {
			title += " *"
		}
		t.Row(s.ID, title, count, s.UpdatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w, t.Render())
}

func newSessionsCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [TITLE...]",
		Short: "Create a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.chat().CreateSession(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, s.ID)
			return nil
		},
	}
}

func newSessionsShowCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "show [ID]",
		Short: "Print a session transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s   ragchat.Session
				err error
			)
			switch {
			case file != "":
				s, err = chatjson.Load(file)
			case len(args) == 1:
				s, err = a.chat().LoadSession(cmd.Context(), args[0])
			default:
				return fmt.Errorf("sessions show: need a session ID or --file")
			}
			if err != nil {
				return err
			}
			writeTranscript(a.out, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read an exported transcript instead of the backend")
	return cmd
}

func writeTranscript(w io.Writer, s ragchat.Session) {
	th := newTheme()
	fmt.Fprintln(w, th.header.Render(s.Title))
	for _, m := range s.Messages {
		fmt.Fprintln(w)
		switch m.Role {
		case ragchat.RoleUser:
			fmt.Fprintln(w, "> "+m.Content)
		case ragchat.RoleAssistant:
			fmt.Fprintln(w, m.Content)
			writeFooter(w, m, th)
		}
	}
}

func newSessionsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Rename a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.chat().RenameSession(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, newTheme().success.Render("renamed "+s.ID+" to "+s.Title))
			return nil
		},
	}
}

func newSessionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.chat().DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, newTheme().success.Render("deleted "+args[0]))
			return nil
		},
	}
}

func newSessionsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export ID PATH",
		Short: "Save a session transcript as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.chat().LoadSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := chatjson.Save(args[1], s); err != nil {
				return err
			}
			fmt.Fprintln(a.out, newTheme().success.Render(fmt.Sprintf("exported %d messages to %s", len(s.Messages), args[1])))
			return nil
		},
	}
}
