// Package token provides download token generation and payload digests.
package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest computes the hex encoded SHA-256 of a payload.
//
// It is returned to uploaders and sent with downloads so clients can verify
// what they received.
func Digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
