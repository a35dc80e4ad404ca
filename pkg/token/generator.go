// Package token provides download token generation and payload digests.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const (
	// Prefix marks a string as a FileDrop download token.
	Prefix = "fdtk_"

	// DefaultLength is the number of random bytes in a token body.
	DefaultLength = 16

	// encodedLength is the Base64 RawURL length of DefaultLength bytes.
	encodedLength = 22
)

// Generator produces a new token. The store accepts one so tests can force
// collisions.
type Generator func() (string, error)

// Generate generates a cryptographically secure download token.
func Generate() (string, error) {
	body, err := GenerateWithLength(DefaultLength)
	if err != nil {
		return "", err
	}
	return Prefix + body, nil
}

// GenerateWithLength generates a Base64 RawURL string from length random bytes.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// ValidFormat reports whether s looks like a token produced by Generate.
// It is a cheap pre-check; only the store decides whether a token is live.
func ValidFormat(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	body := s[len(Prefix):]
	if len(body) != encodedLength {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(body)
	return err == nil
}
