// Package service orchestrates the object store for the transport layer.
//
// This package contains:
//
//   - FileService: upload admission, password-gated download and status
//   - Reaper: the background task that purges expired objects
//
// Services depend on the ObjectStore interface rather than a concrete
// store so they can be tested against fakes.
package service
