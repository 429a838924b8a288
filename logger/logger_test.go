package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	log := New("api", Options{Level: "info", Format: "json", Out: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("session", "ab12").Msg("command executed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "api", line["component"])
	assert.Equal(t, "ab12", line["session"])
	assert.Equal(t, "command executed", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_Console(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	log := New("repl", Options{Format: "console", Out: &buf})

	log.Info().Msg("ready")
	assert.Contains(t, buf.String(), "ready")
	assert.Contains(t, buf.String(), "component=repl")
}

func TestNew_DevEnvironmentUsesConsole(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	log := New("mcp", Options{Out: &buf})

	log.Info().Msg("started")
	assert.NotContains(t, buf.String(), `"message"`)
	assert.Contains(t, buf.String(), "started")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New("api", Options{Level: "warn", Format: "json", Out: &buf})

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())
	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")

	buf.Reset()
	log = New("api", Options{Level: "nonsense", Format: "json", Out: &buf})
	log.Info().Msg("info is the fallback")
	assert.NotEmpty(t, buf.String())
}
