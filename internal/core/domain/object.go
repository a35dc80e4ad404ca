// Package domain defines the core domain models for FileDrop.
package domain

import (
	"net/netip"
	"strings"
	"time"
	"unicode/utf8"
)

// Object constraints.
const (
	// RetentionWindow is how long an object stays downloadable after upload.
	RetentionWindow = time.Hour

	// DefaultMediaType is used when the uploader supplies no content type.
	DefaultMediaType = "application/octet-stream"

	MaxDisplayNameLength = 255
	MaxMediaTypeLength   = 255
	MaxSecretLength      = 256
	MaxOwnerAddrLength   = 45 // longest textual IPv6 address
)

// StoredObject is an uploaded file together with its metadata.
//
// Objects are immutable once inserted. Payload is owned by the store entry;
// callers must not modify a slice after passing it to the store or after
// receiving it from a fetch.
type StoredObject struct {
	// Token is the sole lookup key, assigned by the store at insert time.
	Token string `json:"token"`

	// Payload is the raw file content.
	Payload []byte `json:"-"`

	// DisplayName is the original filename, used for response metadata only.
	DisplayName string `json:"display_name"`

	// MediaType is the content type sent back on download.
	MediaType string `json:"media_type"`

	// SizeBytes is len(Payload), fixed at insert time.
	SizeBytes int64 `json:"size_bytes"`

	// Digest is the hex SHA-256 of Payload.
	Digest string `json:"digest,omitempty"`

	// CreatedAt is the insert time.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt + RetentionWindow.
	ExpiresAt time.Time `json:"expires_at"`

	// AccessSecret is the optional download password. Empty means none.
	AccessSecret string `json:"-"`

	// OwnerAddress is the uploader's network address. Informational only.
	OwnerAddress string `json:"owner_address,omitempty"`
}

// NewStoredObject builds an object ready for insertion. Token and
// timestamps are left for the store to assign.
func NewStoredObject(name, mediaType string, payload []byte) *StoredObject {
	if mediaType == "" {
		mediaType = DefaultMediaType
	}
	return &StoredObject{
		Payload:     payload,
		DisplayName: name,
		MediaType:   mediaType,
		SizeBytes:   int64(len(payload)),
	}
}

// HasSecret reports whether downloads require a password.
func (o *StoredObject) HasSecret() bool {
	return o.AccessSecret != ""
}

// Stamp sets CreatedAt to now and ExpiresAt to now + RetentionWindow.
func (o *StoredObject) Stamp(now time.Time) {
	o.CreatedAt = now
	o.ExpiresAt = now.Add(RetentionWindow)
}

// IsExpiredAt reports whether the object is past its expiry at now.
func (o *StoredObject) IsExpiredAt(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}

// TTL returns the remaining lifetime at now, or 0 once expired.
func (o *StoredObject) TTL(now time.Time) time.Duration {
	remaining := o.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NormalizeOwnerAddress turns a client address into the informational
// OwnerAddress value. IP addresses lose any zone and are printed in
// canonical form; anything else is clipped to MaxOwnerAddrLength.
func NormalizeOwnerAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if ip, err := netip.ParseAddr(addr); err == nil {
		return ip.WithZone("").String()
	}
	if len(addr) > MaxOwnerAddrLength {
		return addr[:MaxOwnerAddrLength]
	}
	return addr
}

// Validate checks metadata constraints. It does not look at capacity
// limits; those belong to admission.
func (o *StoredObject) Validate() error {
	var violations []string

	if strings.TrimSpace(o.DisplayName) == "" {
		violations = append(violations, "display_name is required")
	}
	if utf8.RuneCountInString(o.DisplayName) > MaxDisplayNameLength {
		violations = append(violations, "display_name exceeds 255 characters")
	}
	if len(o.MediaType) > MaxMediaTypeLength {
		violations = append(violations, "media_type exceeds 255 characters")
	}
	if len(o.AccessSecret) > MaxSecretLength {
		violations = append(violations, "password exceeds 256 characters")
	}
	if o.SizeBytes != int64(len(o.Payload)) {
		violations = append(violations, "size_bytes does not match payload length")
	}

	if len(violations) > 0 {
		return ErrFileValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone returns a copy of the metadata. The payload slice is shared, which
// is safe because payloads are never mutated after insert.
func (o *StoredObject) Clone() *StoredObject {
	clone := *o
	return &clone
}
