package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prerelease/internal/errors"
)

func plain(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(buf, &slog.HandlerOptions{Level: level}, ColorNever))
}

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil, ColorNever)

	ts := time.Date(2026, 10, 19, 14, 3, 9, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "validator finished", 0)
	r.AddAttrs(
		slog.String("validator", "security"),
		slog.Int("messages", 2),
		slog.Duration("duration", 1500*time.Microsecond),
		slog.String("target", "/srv/my repo"),
	)
	require.NoError(t, h.Handle(t.Context(), r))

	assert.Equal(t,
		"14:03:09 INFO  validator finished validator=security messages=2 duration=1.5ms target=\"/srv/my repo\"\n",
		buf.String())
}

func TestHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO "},
		{slog.LevelWarn, "WARN "},
		{slog.LevelError, "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		h := NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}, ColorNever)
		require.NoError(t, h.Handle(t.Context(), slog.NewRecord(time.Time{}, tt.level, "m", 0)))
		assert.Equal(t, tt.want+" m\n", buf.String())
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, ColorNever)

	ctx := t.Context()
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))

	assert.True(t, NewHandler(&bytes.Buffer{}, nil, ColorNever).Enabled(ctx, slog.LevelInfo))
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := plain(&buf, slog.LevelInfo).With("run_id", "r1")
	grouped := base.WithGroup("validator")

	grouped.Info("finished", "name", "security", slog.Group("fix", "files", 2))
	base.Info("other")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "finished run_id=r1 validator.name=security validator.fix.files=2")
	assert.True(t, strings.HasSuffix(lines[1], "other run_id=r1"), lines[1])
}

func TestHandler_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := plain(&buf, slog.LevelInfo)

	logger.Info("sensitive data", "api_key", "secret12345", "Token", "ghp_abcdef", "note", "ghp_secrettoken")

	out := buf.String()
	for _, secret := range []string{"secret12345", "ghp_abcdef", "ghp_secrettoken"} {
		assert.NotContains(t, out, secret)
	}
	assert.Contains(t, out, "api_key=****2345")
	assert.Contains(t, out, "Token=****cdef")
	assert.Contains(t, out, "note=****oken")
}

func TestHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil, ColorAlways))

	logger.Warn("careful", "path", "a.sh")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "careful")
}

type logValuer struct{}

func (logValuer) LogValue() slog.Value { return slog.StringValue("resolved") }

func TestHandler_ResolvesLogValuer(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf, slog.LevelInfo).Info("m", "v", logValuer{})
	assert.Contains(t, buf.String(), "v=resolved")
}

func TestContext_RoundTrip(t *testing.T) {
	logger := plain(&bytes.Buffer{}, slog.LevelInfo)

	ctx := NewContext(t.Context(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(t.Context()))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestMultiHandler(t *testing.T) {
	var text, json bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}, ColorNever),
		nil,
		slog.NewJSONHandler(&json, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("run_id", "r1")

	assert.True(t, h.Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, h.Enabled(t.Context(), LevelTrace))

	logger.Debug("debug only")
	logger.Warn("both")

	assert.NotContains(t, text.String(), "debug only")
	assert.Contains(t, text.String(), "both run_id=r1")
	assert.Contains(t, json.String(), `"msg":"debug only"`)
	assert.Contains(t, json.String(), `"run_id":"r1"`)
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		NewHandler(&buf, nil, ColorNever),
	)

	err := h.Handle(t.Context(), slog.NewRecord(time.Time{}, slog.LevelInfo, "m", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "INFO  m\n", buf.String(), "later handlers still run")
}
