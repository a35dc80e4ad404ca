// Package handler implements the FileDrop HTTP endpoints.
//
// JSON responses use a common envelope (see Response). Errors carry their
// domain code in both the body and the X-Error-Code header, and the HTTP
// status is derived from that code. Downloads and QR images are written
// raw.
package handler
