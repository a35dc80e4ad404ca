// Package logger provides structured logging for FileDrop.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler construction, runtime level changes, default logger
//   - context.go: request-scoped loggers and request ID propagation
//   - redact.go: masking of download tokens and password-like attributes
//
// Download tokens (fdtk_ prefix) are partially masked wherever they appear
// as attribute values, so access logs never contain a usable link.
package logger
