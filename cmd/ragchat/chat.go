package main

import (
	"context"

	"github.com/sincloak/ragchat"
	bt "github.com/sincloak/ragchat/bubbletea"
	"github.com/sincloak/ragchat/config"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dir, err := config.DefaultDir()
			if err != nil {
				return err
			}
			closeLog, err := a.logToFile(dir)
			if err != nil {
				return err
			}
			defer closeLog()

			c := a.chat()
			if err := c.LoadSessions(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("load sessions")
			}

			var session ragchat.Session
			if sessionID != "" {
				s, err := c.LoadSession(ctx, sessionID)
				if err != nil {
					return err
				}
				session = s
			}

			send := func(ctx context.Context, text string, onEvent func(ragchat.Event)) (*ragchat.Message, error) {
				opts := append(a.sendOptions(""), ragchat.WithEventHandler(onEvent))
				return c.Send(ctx, text, opts...)
			}
			return bt.Run(ctx, bt.New(send, session, ragchat.DefaultTheme()))
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session")
	addStreamFlags(cmd)
	return cmd
}
