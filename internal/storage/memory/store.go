// Package memory provides the in-memory object store for FileDrop.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/pkg/token"
)

// maxTokenAttempts bounds retries when a generated token is already live.
const maxTokenAttempts = 5

// Store holds uploaded objects keyed by download token.
type Store struct {
	// Primary index: Token -> StoredObject
	objects map[string]*domain.StoredObject

	// Sum of SizeBytes over objects. Only changed under mu.
	used int64

	admission Admission
	now       func() time.Time
	newToken  token.Generator

	mu sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithLimits sets the per-file and aggregate byte limits.
func WithLimits(maxFileSize, maxTotalMemory int64) Option {
	return func(s *Store) {
		s.admission = Admission{
			MaxFileSize:    maxFileSize,
			MaxTotalMemory: maxTotalMemory,
		}
	}
}

// WithClock replaces time.Now. Tests use it to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTokenGenerator replaces token.Generate.
func WithTokenGenerator(gen token.Generator) Option {
	return func(s *Store) {
		s.newToken = gen
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		objects: make(map[string]*domain.StoredObject),
		admission: Admission{
			MaxFileSize:    DefaultMaxFileSize,
			MaxTotalMemory: DefaultMaxTotalMemory,
		},
		now:      time.Now,
		newToken: token.Generate,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Insert admits obj, assigns it a fresh token and stamps its lifetime.
//
// Admission and the insert happen under one write lock, so two concurrent
// uploads can never both be admitted against the same aggregate. On success
// obj.Token, obj.CreatedAt and obj.ExpiresAt are filled in and the store
// takes ownership of obj.Payload.
func (s *Store) Insert(_ context.Context, obj *domain.StoredObject) (string, error) {
	if err := obj.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admission.Admit(s.used, obj.SizeBytes); err != nil {
		return "", err
	}

	tok, err := s.freshTokenLocked()
	if err != nil {
		return "", err
	}

	obj.Token = tok
	obj.Stamp(s.now())

	s.objects[tok] = obj.Clone()
	s.used += obj.SizeBytes

	return tok, nil
}

// freshTokenLocked generates a token not held by any live object.
// A collision is retried with a new token, never overwritten.
func (s *Store) freshTokenLocked() (string, error) {
	for i := 0; i < maxTokenAttempts; i++ {
		tok, err := s.newToken()
		if err != nil {
			return "", domain.ErrInternalServer.WithCause(fmt.Errorf("generate token: %w", err))
		}
		if _, exists := s.objects[tok]; !exists {
			return tok, nil
		}
	}
	return "", domain.ErrTokenConflict.WithDetails(
		fmt.Sprintf("no free token after %d attempts", maxTokenAttempts))
}

// Fetch returns the object stored under tok.
//
// Expired objects are reported as ErrFileNotFound, exactly like unknown
// tokens, and are removed on the way out.
func (s *Store) Fetch(_ context.Context, tok string) (*domain.StoredObject, error) {
	s.mu.RLock()
	obj, ok := s.objects[tok]
	now := s.now()
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrFileNotFound
	}

	if obj.IsExpiredAt(now) {
		s.removeIfExpired(tok, now)
		return nil, domain.ErrFileNotFound
	}

	return obj.Clone(), nil
}

// removeIfExpired deletes tok only if it is still present and still
// expired at now. Losing the race to the reaper is fine.
func (s *Store) removeIfExpired(tok string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[tok]
	if !ok || !obj.IsExpiredAt(now) {
		return false
	}

	s.deleteLocked(tok, obj)
	return true
}

// Remove deletes the object stored under tok.
// Removing a token that is already gone returns ErrFileNotFound.
func (s *Store) Remove(_ context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[tok]
	if !ok {
		return domain.ErrFileNotFound
	}

	s.deleteLocked(tok, obj)
	return nil
}

func (s *Store) deleteLocked(tok string, obj *domain.StoredObject) {
	delete(s.objects, tok)
	s.used -= obj.SizeBytes
}

// ListExpired returns the tokens of objects whose ExpiresAt is before now,
// oldest first. Each call returns a new snapshot.
func (s *Store) ListExpired(now time.Time) []string {
	s.mu.RLock()
	expired := make([]*domain.StoredObject, 0)
	for _, obj := range s.objects {
		if obj.IsExpiredAt(now) {
			expired = append(expired, obj)
		}
	}
	s.mu.RUnlock()

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})

	tokens := make([]string, len(expired))
	for i, obj := range expired {
		tokens[i] = obj.Token
	}
	return tokens
}

// AggregateSize returns the total payload bytes of live objects.
func (s *Store) AggregateSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// Count returns the number of live objects.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Stats returns count, usage and limits from a single consistent read.
func (s *Store) Stats() domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{
		Objects:        len(s.objects),
		UsedBytes:      s.used,
		MaxFileSize:    s.admission.MaxFileSize,
		MaxTotalMemory: s.admission.MaxTotalMemory,
	}
}

// Limits returns the admission limits the store enforces.
func (s *Store) Limits() Admission {
	return s.admission
}
