// Package domain defines the core domain models for FileDrop.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - StoredObject: an uploaded file held in memory until it expires
//   - Authorize: the per-object password gate
//   - Errors: domain error codes shared by the store, services and HTTP layer
package domain
