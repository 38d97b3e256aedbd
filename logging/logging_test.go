package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sincloak/ragchat/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "json")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger.Debug().Str("session_id", "s1").Msg("stream opened")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "s1", line["session_id"])
	assert.Equal(t, "stream opened", line["message"])
}

func TestNew_ConsoleFiltersByLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "console")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("skipping malformed record")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "skipping malformed record")
}

func TestNew_DefaultLevel(t *testing.T) {
	t.Parallel()
	logger, err := logging.New(&bytes.Buffer{}, "", "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	_, err := logging.New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
	_, err = logging.New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
