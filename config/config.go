// Package config loads client settings from flags, environment, an optional
// YAML file and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RAGCHAT_BASE_URL.
const EnvPrefix = "RAGCHAT"

// Keys.
const (
	KeyBaseURL      = "base_url"
	KeyTimeout      = "timeout"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyWebSearch    = "web_search"
	KeyDeepThinking = "deep_thinking"
)

// Config holds the resolved client settings.
type Config struct {
	BaseURL      string
	Timeout      time.Duration // bound for non-streaming calls; 0 disables
	LogLevel     string
	LogFormat    string // "console" or "json"
	WebSearch    bool
	DeepThinking bool
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBaseURL, "http://localhost:8000/api")
	v.SetDefault(KeyTimeout, "60s")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyWebSearch, false)
	v.SetDefault(KeyDeepThinking, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultDir returns the directory searched for config.yaml when no file is
// given explicitly.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ragchat"), nil
}

// Load reads the config file into v and returns the validated settings. An
// explicit file must exist; the default file is optional.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := Config{
		BaseURL:      strings.TrimSpace(v.GetString(KeyBaseURL)),
		Timeout:      v.GetDuration(KeyTimeout),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		WebSearch:    v.GetBool(KeyWebSearch),
		DeepThinking: v.GetBool(KeyDeepThinking),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

// LoadDotEnv loads dir/.env into the process environment when it exists.
// Variables already set take precedence.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
