package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/storage/memory"
)

type scriptedStore struct {
	mu      sync.Mutex
	expired []string
	results map[string]error
	calls   []string
}

func (s *scriptedStore) ListExpired(time.Time) []string {
	return append([]string(nil), s.expired...)
}

func (s *scriptedStore) Remove(_ context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, tok)
	return s.results[tok]
}

func TestReaper_SweepToleratesFailures(t *testing.T) {
	store := &scriptedStore{
		expired: []string{"a", "b", "c", "d"},
		results: map[string]error{
			"b": domain.ErrFileNotFound,
			"c": errors.New("disk on fire"),
		},
	}
	r := NewReaper(store, WithReaperLogger(discardLogger(t)))

	removed := r.Sweep(context.Background())

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"a", "b", "c", "d"}, store.calls)
}

func TestReaper_SweepStopsAfterCancel(t *testing.T) {
	store := &scriptedStore{expired: []string{"a", "b"}}
	r := NewReaper(store, WithReaperLogger(discardLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Zero(t, r.Sweep(ctx))
	assert.Empty(t, store.calls)
}

func TestReaper_SweepRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	store := memory.New(memory.WithClock(clock.Now))
	ctx := context.Background()

	old, err := store.Insert(ctx, domain.NewStoredObject("old", "", make([]byte, 10)))
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	fresh, err := store.Insert(ctx, domain.NewStoredObject("fresh", "", make([]byte, 5)))
	require.NoError(t, err)
	clock.Advance(31 * time.Minute)

	r := NewReaper(store, WithReaperClock(clock.Now), WithReaperLogger(discardLogger(t)))
	assert.Equal(t, 1, r.Sweep(ctx))

	_, err = store.Fetch(ctx, old)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	_, err = store.Fetch(ctx, fresh)
	assert.NoError(t, err)
	assert.EqualValues(t, 5, store.AggregateSize())

	// A second sweep at the same instant finds nothing.
	assert.Zero(t, r.Sweep(ctx))
}

func TestReaper_ConvergesWithinInterval(t *testing.T) {
	clock := newFakeClock()
	store := memory.New(memory.WithLimits(100, 100), memory.WithClock(clock.Now))
	ctx := context.Background()

	_, err := store.Insert(ctx, domain.NewStoredObject("ten", "", []byte("0123456789")))
	require.NoError(t, err)
	require.EqualValues(t, 10, store.AggregateSize())

	r := NewReaper(store,
		WithInterval(10*time.Millisecond),
		WithReaperClock(clock.Now),
		WithReaperLogger(discardLogger(t)),
	)
	r.Start(ctx)
	defer r.Stop()

	clock.Advance(domain.RetentionWindow + time.Second)

	assert.Eventually(t, func() bool {
		return store.AggregateSize() == 0 && store.Count() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestReaper_NoRemovalsAfterStop(t *testing.T) {
	clock := newFakeClock()
	store := memory.New(memory.WithClock(clock.Now))
	ctx := context.Background()

	r := NewReaper(store,
		WithInterval(5*time.Millisecond),
		WithReaperClock(clock.Now),
		WithReaperLogger(discardLogger(t)),
	)
	r.Start(ctx)
	r.Stop()

	_, err := store.Insert(ctx, domain.NewStoredObject("f", "", []byte("x")))
	require.NoError(t, err)
	clock.Advance(2 * domain.RetentionWindow)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.Count())
}

func TestReaper_RunExitsOnCancel(t *testing.T) {
	r := NewReaper(&scriptedStore{}, WithInterval(time.Hour), WithReaperLogger(discardLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not exit after cancel")
	}
}

func TestReaper_StartStopIdempotent(t *testing.T) {
	r := NewReaper(&scriptedStore{}, WithInterval(time.Millisecond), WithReaperLogger(discardLogger(t)))

	r.Start(context.Background())
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}

func TestReaper_Defaults(t *testing.T) {
	r := NewReaper(&scriptedStore{}, WithInterval(-time.Second))
	assert.Equal(t, DefaultReapInterval, r.Interval())
	assert.Equal(t, 60*time.Second, DefaultReapInterval)
}
