// Package memory provides the in-memory object store for FileDrop.
//
// Features:
//
//   - Admission control: per-file and aggregate byte limits, decided under
//     the same lock that commits the insert
//   - Time-based expiry: expired objects are invisible to Fetch and are
//     removed lazily on read or by a periodic sweep
//   - Idempotent removal: a second Remove of the same token reports
//     ErrFileNotFound instead of failing
//
// Thread Safety:
//
// A single RWMutex guards the whole store. Insert and Remove take the write
// lock; Fetch, ListExpired, AggregateSize and Count take the read lock.
// Nothing performs IO while holding it.
package memory
