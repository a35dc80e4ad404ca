// Package domain defines the core domain models for FileDrop.
package domain

// AccessDecision is the outcome of a download password check.
type AccessDecision int

const (
	// AccessGranted allows the download.
	AccessGranted AccessDecision = iota
	// AccessPasswordRequired means the object has a password and none was given.
	AccessPasswordRequired
	// AccessPasswordMismatch means the given password does not match.
	AccessPasswordMismatch
)

// String returns the decision name.
func (d AccessDecision) String() string {
	switch d {
	case AccessGranted:
		return "granted"
	case AccessPasswordRequired:
		return "password_required"
	case AccessPasswordMismatch:
		return "password_mismatch"
	default:
		return "unknown"
	}
}

// Err returns the domain error for a denied decision, or nil if granted.
func (d AccessDecision) Err() error {
	switch d {
	case AccessPasswordRequired:
		return ErrPasswordRequired
	case AccessPasswordMismatch:
		return ErrPasswordMismatch
	default:
		return nil
	}
}

// Authorize checks a supplied password against the object's access secret.
//
// Known limitation: the comparison is plain string equality and there is
// no per-object attempt limiting. The password is a convenience gate on top
// of an unguessable token, not a cryptographic control.
func Authorize(obj *StoredObject, supplied string) AccessDecision {
	if !obj.HasSecret() {
		return AccessGranted
	}
	if supplied == "" {
		return AccessPasswordRequired
	}
	if supplied != obj.AccessSecret {
		return AccessPasswordMismatch
	}
	return AccessGranted
}
