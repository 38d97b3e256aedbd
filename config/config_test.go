package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sincloak/ragchat/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		BaseURL:   "http://localhost:8000/api",
		Timeout:   60 * time.Second,
		LogLevel:  "warn",
		LogFormat: "console",
	}, cfg)
}

func TestLoad_DefaultFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, ".ragchat/config.yaml", "base_url: http://rag.internal/api\nweb_search: true\n")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://rag.internal/api", cfg.BaseURL)
	assert.True(t, cfg.WebSearch)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "custom.yaml", "timeout: 5s\nlog_format: json\ndeep_thinking: true\n")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.DeepThinking)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "base_url: http://file/api\n")
	t.Setenv("RAGCHAT_BASE_URL", "http://env/api")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty base url":   "base_url: \"  \"\n",
		"negative timeout": "timeout: -1s\n",
		"bad log format":   "log_format: xml\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), "config.yaml", content)
			_, err := config.Load(config.New(), path)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "RAGCHAT_DOTENV_TEST_LEVEL"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, config.LoadDotEnv(dir), "missing .env is not an error")

	writeFile(t, dir, ".env", key+"=debug\n")
	require.NoError(t, config.LoadDotEnv(dir))
	assert.Equal(t, "debug", os.Getenv(key))
}
