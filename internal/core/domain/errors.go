// Package domain defines the core domain models for FileDrop.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form FD-<AREA>-<NNNN>; the first three digits of the
// numeric part are the HTTP status the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "FD-FILE-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// HTTPStatus returns the HTTP status encoded in a DomainError code, or 500
// for any other error.
func HTTPStatus(err error) int {
	code := GetErrorCode(err)
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i-1 < 3 {
		return 500
	}
	status, convErr := strconv.Atoi(code[i+1 : i+4])
	if convErr != nil || status < 400 || status > 599 {
		return 500
	}
	return status
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// File errors (FILE)
var (
	// ErrFileNotFound covers tokens that were never issued, were removed,
	// or have expired. Callers cannot tell these apart.
	ErrFileNotFound = NewDomainError("FD-FILE-4040", "file not found or expired")

	// ErrFileTooLarge indicates a single upload exceeds the per-file limit.
	ErrFileTooLarge = NewDomainError("FD-FILE-4130", "file too large")

	// ErrTokenConflict indicates the store could not find a free token.
	ErrTokenConflict = NewDomainError("FD-FILE-5001", "token conflict")

	// ErrFileValidation indicates the object metadata is invalid.
	ErrFileValidation = NewDomainError("FD-FILE-4001", "file validation failed")
)

// Storage errors (STOR)
var (
	// ErrCapacityExceeded indicates admitting the upload would push the
	// aggregate stored size past the memory limit.
	ErrCapacityExceeded = NewDomainError("FD-STOR-5070", "server memory full")
)

// Access errors (AUTH)
var (
	// ErrPasswordRequired indicates the object is password protected and no
	// password was supplied.
	ErrPasswordRequired = NewDomainError("FD-AUTH-4010", "file password required")

	// ErrPasswordMismatch indicates the supplied password is wrong.
	ErrPasswordMismatch = NewDomainError("FD-AUTH-4011", "file password incorrect")
)

// System errors (SYS)
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("FD-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("FD-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("FD-SYS-4290", "too many requests")

	// ErrNotReady indicates the server is starting or shutting down.
	ErrNotReady = NewDomainError("FD-SYS-5030", "service not ready")

	// ErrRouteNotFound indicates no endpoint matches the request.
	ErrRouteNotFound = NewDomainError("FD-SYS-4040", "not found")
)

// Argument errors (ARG)
var (
	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("FD-ARG-4002", "missing required argument")
)
