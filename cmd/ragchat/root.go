package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/sincloak/ragchat"
	"github.com/sincloak/ragchat/api"
	"github.com/sincloak/ragchat/config"
	"github.com/sincloak/ragchat/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const logFileName = "ragchat.log"

// app carries what every subcommand needs once the root command has
// resolved configuration.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger zerolog.Logger
	client *api.Client
	out    io.Writer
	errOut io.Writer
}

// chat returns a session state manager over the backend client.
func (a *app) chat() *ragchat.Chat {
	return ragchat.NewChat(a.client, a.client, ragchat.WithLogger(a.logger))
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, errOut: errOut}
	var configFile string

	root := &cobra.Command{
		Use:           "ragchat",
		Short:         "Chat with a retrieval-augmented backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(a.v, cmd.Flags(), map[string]string{
				config.KeyWebSearch:    "web-search",
				config.KeyDeepThinking: "deep-thinking",
			})
			return a.setup(configFile)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	fs := root.PersistentFlags()
	fs.StringVar(&configFile, "config", "", "config file (default ~/.ragchat/config.yaml)")
	fs.String("base-url", "", "backend API base URL")
	fs.Duration("timeout", 0, "timeout for non-streaming requests")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: console or json")
	bindFlags(a.v, fs, map[string]string{
		config.KeyBaseURL:   "base-url",
		config.KeyTimeout:   "timeout",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	})

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newSessionsCmd(a),
		newIngestCmd(a),
	)
	return root
}

func (a *app) setup(configFile string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(wd); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(a.errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.useLogger(logger)
	logger.Debug().Str("base_url", cfg.BaseURL).Msg("configured")
	return nil
}

// useLogger installs l and rebuilds the backend client around it.
func (a *app) useLogger(l zerolog.Logger) {
	a.logger = l
	a.client = api.New(
		api.WithBaseURL(a.cfg.BaseURL),
		api.WithTimeout(a.cfg.Timeout),
		api.WithLogger(l),
	)
}

// logToFile moves logging into dir/ragchat.log so it cannot draw over a
// full-screen UI. The returned function closes the file.
func (a *app) logToFile(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	logger, err := logging.New(f, a.cfg.LogLevel, a.cfg.LogFormat)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.useLogger(logger)
	return f.Close, nil
}

// bindFlags binds viper keys to flags. Only flags the user actually set
// override lower-precedence sources. Flags missing from fs are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// addStreamFlags registers the per-request retrieval toggles. They are
// bound to config when the command runs.
func addStreamFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Bool("web-search", false, "let the backend search the web")
	fs.Bool("deep-thinking", false, "ask the backend for extended reasoning")
}

// sendOptions turns resolved config into per-send options.
func (a *app) sendOptions(sessionID string) []ragchat.SendOption {
	opts := []ragchat.SendOption{
		ragchat.WithWebSearch(a.cfg.WebSearch),
		ragchat.WithDeepThinking(a.cfg.DeepThinking),
	}
	if sessionID != "" {
		opts = append(opts, ragchat.WithSession(sessionID))
	}
	return opts
}
