package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestLogger_JSONOutput(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")

	l.Debug("debug msg", "n", 1)
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "debug msg", lines[0]["msg"])
	assert.EqualValues(t, 1, lines[0]["n"])
	assert.Equal(t, "ERROR", lines[3]["level"])
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")

	l.Info("hello", "component", "reaper")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "component=reaper")
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("component", "store").Info("ready")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "store", lines[0]["component"])
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")
	t.Cleanup(func() { _ = SetLevel("info") })

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, "debug", GetLevel())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, SetLevel("error"))
	buf.Reset()
	l.Warn("hidden again")
	assert.Empty(t, buf.String())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, "error", GetLevel())
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	assert.NotNil(t, Default())

	l, buf := newBufferLogger(t, "info", "json")
	prev := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })

	Info("via package")
	assert.Contains(t, buf.String(), "via package")
}

func TestContext_RequestID(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "01HZX")

	assert.Equal(t, "01HZX", RequestIDFromContext(ctx))
	L(ctx).Info("handled")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "01HZX", lines[0]["request_id"])
}

func TestContext_Request(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequest(ctx, RequestInfo{ID: "01HZY", ClientIP: "192.0.2.7"})
	ctx = WithRequestID(ctx, "01HZZ")

	assert.Equal(t, RequestInfo{ID: "01HZZ", ClientIP: "192.0.2.7"}, RequestFromContext(ctx))
	L(ctx).Info("handled")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "01HZZ", lines[0]["request_id"])
	assert.Equal(t, "192.0.2.7", lines[0]["client_ip"])
}

func TestContext_Defaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))
	assert.Equal(t, RequestInfo{}, RequestFromContext(ctx))
	assert.Equal(t, Default(), FromContext(ctx))
}
