package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = format
	cfg.Level = level
	cfg.EnableColors = false
	cfg.EnableTimestamp = false
	cfg.Output = &buf
	return NewLogger(cfg), &buf
}

func TestConsoleFormatter_FieldsSortedAndErrorLine(t *testing.T) {
	l, buf := newBufferLogger(FormatConsole, LevelDebug)

	l.WithFields(Fields{"public_id": "jamalpur-chamber/x", "attempt": 1}).
		WithError(errors.New("provider said no")).
		Error("mediax: delete failed")

	out := buf.String()
	assert.Contains(t, out, "[ERROR] mediax: delete failed attempt=1 public_id=jamalpur-chamber/x")
	assert.Contains(t, out, "  error: provider said no")
}

func TestJSONFormatter_EmitsFields(t *testing.T) {
	l, buf := newBufferLogger(FormatJSON, LevelInfo)

	l.WithField("path", "/tmp/a.pdf").WithError(errors.New("busy")).Warn("cleanup failed")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "WARN", got["level"])
	assert.Equal(t, "cleanup failed", got["message"])
	assert.Equal(t, "/tmp/a.pdf", got["path"])
	assert.Equal(t, "busy", got["error"])
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(FormatConsole, LevelWarn)

	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
}

func TestNewDiscard_WritesNothing(t *testing.T) {
	l := NewDiscard()
	l.Error("nothing")
	assert.Equal(t, LevelOff, l.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLoadFromLookup(t *testing.T) {
	env := map[string]string{
		"LOG_LEVEL":       "debug",
		"LOG_FORMAT":      "JSON",
		"LOG_COLOR":       "off",
		"LOG_CALLER":      "yes",
		"LOG_TIME_FORMAT": "unixmilli",
	}
	cfg := LoadFromLookup(func(k string) string { return env[k] })

	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.False(t, cfg.EnableColors)
	assert.True(t, cfg.EnableCaller)
	assert.Equal(t, "unixmilli", cfg.TimeFormat)

	def := LoadFromLookup(func(string) string { return "" })
	assert.Equal(t, LevelInfo, def.Level)
	assert.Equal(t, FormatConsole, def.Format)
	assert.True(t, def.EnableColors)
}
