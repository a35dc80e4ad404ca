// Package token provides download token generation and payload digests.
//
// Token Format:
//
//   - Prefix: fdtk_ (5 characters)
//   - Body: 22 characters of Base64 RawURL encoded random bytes (128 bits)
//   - Total: 27 characters
//
// Tokens are bearer capabilities: whoever holds one can fetch the object
// unless it is additionally guarded by an access secret.
//
// Digest Format:
//
//   - 64 characters of lowercase hex-encoded SHA-256
package token
