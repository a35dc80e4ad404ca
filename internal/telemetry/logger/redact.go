package logger

import (
	"log/slog"
	"strings"

	"github.com/yndnr/filedrop/pkg/token"
)

// Keys whose string values are replaced entirely.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"auth",
	"cookie",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s == "" {
			return a
		}
		if strings.Contains(s, token.Prefix) {
			return slog.String(a.Key, MaskTokens(s))
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// MaskToken shortens a download token to its prefix plus the first and
// last three body characters. Values without the token prefix are returned
// unchanged.
func MaskToken(s string) string {
	if !strings.HasPrefix(s, token.Prefix) {
		return s
	}
	body := s[len(token.Prefix):]
	if len(body) <= 6 {
		return token.Prefix + "***"
	}
	return token.Prefix + body[:3] + "..." + body[len(body)-3:]
}

// MaskTokens masks every token embedded in s, such as one inside a URL path.
func MaskTokens(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, token.Prefix)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]

		end := len(token.Prefix)
		for end < len(s) && isTokenChar(s[end]) {
			end++
		}
		b.WriteString(MaskToken(s[:end]))
		s = s[end:]
	}
}

func isTokenChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// IsSensitiveKey reports whether an attribute key names secret material.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}
