package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLogger_ContextValuesBecomeAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&LogConfig{Level: "debug", Format: "json", ServiceName: "storefront-customer"}, &buf, nil)

	runID := uuid.New()
	ctx := WithItemID(WithRunID(context.Background(), runID), 42)

	l.InfoContext(ctx, "order completed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "order completed", entry["msg"])
	assert.Equal(t, "INFO", entry["severity"])
	assert.Equal(t, runID.String(), entry["run_id"])
	assert.Equal(t, float64(42), entry["item_id"])
	assert.Equal(t, "storefront-customer", entry["service"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logged   func(*slog.Logger)
		expected bool
	}{
		{name: "warn_drops_info", level: "warn", logged: func(l *slog.Logger) { l.Info("x") }, expected: false},
		{name: "warn_keeps_error", level: "warn", logged: func(l *slog.Logger) { l.Error("x") }, expected: true},
		{name: "unknown_level_defaults_to_info", level: "loud", logged: func(l *slog.Logger) { l.Info("x") }, expected: true},
		{name: "debug_keeps_debug", level: "debug", logged: func(l *slog.Logger) { l.Debug("x") }, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&LogConfig{Level: tt.level, Format: "json"}, &buf, nil)
			tt.logged(l.Logger)
			assert.Equal(t, tt.expected, buf.Len() > 0)
		})
	}
}

func TestSanitizationHandler_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&LogConfig{Level: "info", Format: "json"}, &buf, nil)

	l.With(slog.String("db_password", "hunter2")).Info("connecting",
		slog.String("url", "postgres://storefront:hunter2@db:5432/storefront"),
		slog.String("recipient", "ops@example.com"),
		slog.String("detail", "password=hunter2"),
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "ops@example.com")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "***REDACTED***", entry["db_password"])
	assert.Equal(t, "postgres://storefront:***REDACTED***@db:5432/storefront", entry["url"])
}

func TestPrettyTextHandler(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	l := newLogger(&LogConfig{Level: "info", Format: "pretty"}, &buf, nil)

	l.With(slog.String("component", "cli")).Warn("low stock", slog.Int("stock_quantity", 2))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "low stock")
	assert.Contains(t, out, "component=cli")
	assert.Contains(t, out, "stock_quantity=2")
}

func TestGetWriter_FileOutput(t *testing.T) {
	path := t.TempDir() + "/storefront.log"

	l := NewLogger(&LogConfig{Level: "info", Format: "text", Output: "file:" + path})
	l.Info("written to file")
	require.NoError(t, l.Close())

	w, closer := getWriter("stderr")
	assert.NotNil(t, w)
	assert.Nil(t, closer)
}
