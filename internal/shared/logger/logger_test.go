package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(buf *bytes.Buffer, sourceFrom slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceAttr,
	})
	return slog.New(NewSourceHandler(h, sourceFrom))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestSourceHandler_AddsSourceFromLevel(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		wantSource bool
	}{
		{name: "info below threshold", level: slog.LevelInfo, wantSource: false},
		{name: "warn at threshold", level: slog.LevelWarn, wantSource: true},
		{name: "error above threshold", level: slog.LevelError, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newJSONLogger(&buf, slog.LevelWarn)

			l.Log(context.Background(), tt.level, "hello")

			out := decode(t, &buf)
			_, ok := out[slog.SourceKey]
			assert.Equal(t, tt.wantSource, ok)
		})
	}
}

func TestSourceHandler_KeepsSourceThroughWith(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, slog.LevelDebug).With("component", "ledger")

	l.Debug("rotated")

	out := decode(t, &buf)
	assert.Equal(t, "ledger", out["component"])
	assert.Contains(t, out, slog.SourceKey)
}

func TestReplaceAttr_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, slog.LevelError)

	l.Info("login", "phone", "998900000001", "password", "hunter2", "refresh_token", "abc.def")

	out := decode(t, &buf)
	assert.Equal(t, "998900000001", out["phone"])
	assert.Equal(t, redacted, out["password"])
	assert.Equal(t, redacted, out["refresh_token"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
