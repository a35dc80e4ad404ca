package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_TokenValueIsMasked(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Info("file uploaded", "token", "fdtk_AbCdEfGhIjKlMnOpQrStUv")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "fdtk_AbC...tUv", lines[0]["token"])
	assert.NotContains(t, buf.String(), "AbCdEfGhIjKlMnOpQrStUv")
}

func TestRedact_PasswordKeysAreRedacted(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Info("x",
		"password", "s3cr3t",
		"file_password", "hunter2",
		"has_password", true,
		"empty_secret", "",
	)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, redactedValue, lines[0]["password"])
	assert.Equal(t, redactedValue, lines[0]["file_password"])
	assert.Equal(t, true, lines[0]["has_password"])
	assert.Equal(t, "", lines[0]["empty_secret"])
}

func TestRedact_Groups(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Info("x", "req", map[string]any{"ignored": 1})
	l.With("component", "http").Info("y")
	assert.NotContains(t, buf.String(), redactedValue)
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fdtk_AbCdEfGhIjKlMnOpQrStUv", "fdtk_AbC...tUv"},
		{"fdtk_abc", "fdtk_***"},
		{"fdtk_", "fdtk_***"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskToken(tt.in), tt.in)
	}
}

func TestMaskTokens_InPath(t *testing.T) {
	in := "/download/fdtk_AbCdEfGhIjKlMnOpQrStUv?password=x"
	assert.Equal(t, "/download/fdtk_AbC...tUv?password=x", MaskTokens(in))

	assert.Equal(t, "/files/fdtk_AbC...tUv/qr", MaskTokens("/files/fdtk_AbCdEfGhIjKlMnOpQrStUv/qr"))
	assert.Equal(t, "/status", MaskTokens("/status"))
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("Password"))
	assert.True(t, IsSensitiveKey("authorization"))
	assert.False(t, IsSensitiveKey("filename"))
	assert.False(t, IsSensitiveKey("token"))
}
