package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
	"github.com/yndnr/filedrop/internal/telemetry/metric"
)

// DefaultReapInterval is how often the reaper sweeps for expired objects.
const DefaultReapInterval = 60 * time.Second

// ExpirySource is the subset of ObjectStore the reaper uses.
type ExpirySource interface {
	ListExpired(now time.Time) []string
	Remove(ctx context.Context, tok string) error
}

// Reaper periodically removes expired objects from the store.
type Reaper struct {
	store    ExpirySource
	interval time.Duration
	now      func() time.Time
	logger   logger.Logger
	metrics  *metric.Registry

	mu     sync.Mutex
	cancel context.CancelFunc
	doneCh chan struct{}
}

// ReaperOption configures a Reaper.
type ReaperOption func(*Reaper)

// WithInterval overrides DefaultReapInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithReaperClock sets the time source used to decide expiry.
func WithReaperClock(now func() time.Time) ReaperOption {
	return func(r *Reaper) {
		r.now = now
	}
}

// WithReaperLogger sets the logger.
func WithReaperLogger(l logger.Logger) ReaperOption {
	return func(r *Reaper) {
		r.logger = l
	}
}

// WithReaperMetrics sets the metrics registry.
func WithReaperMetrics(m *metric.Registry) ReaperOption {
	return func(r *Reaper) {
		r.metrics = m
	}
}

// NewReaper creates a reaper over store.
func NewReaper(store ExpirySource, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		store:    store,
		interval: DefaultReapInterval,
		now:      time.Now,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the sweep interval.
func (r *Reaper) Interval() time.Duration {
	return r.interval
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reaper started", "interval", r.interval.String())

	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		}
	}
}

// Sweep removes every object expired at the current time and returns how
// many it removed. Objects already gone are skipped. It stops early once
// ctx is cancelled.
func (r *Reaper) Sweep(ctx context.Context) int {
	start := time.Now()
	expired := r.store.ListExpired(r.now())

	removed := 0
	for _, tok := range expired {
		if ctx.Err() != nil {
			break
		}

		err := r.store.Remove(ctx, tok)
		switch {
		case err == nil:
			removed++
			r.logger.Info("expired file removed", "token", tok)
		case errors.Is(err, domain.ErrFileNotFound):
			// Fetched and lazily deleted since the listing.
		default:
			r.logger.Error("remove expired file failed", "token", tok, "error", err)
		}
	}

	r.metrics.RecordSweep(removed, time.Since(start))
	if removed > 0 {
		r.logger.Debug("sweep finished", "listed", len(expired), "removed", removed)
	}
	return removed
}

// Start runs the reaper in a background goroutine. It is a no-op if the
// reaper is already running.
func (r *Reaper) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.doneCh != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.doneCh = done

	go func() {
		defer close(done)
		r.Run(ctx)
	}()
}

// Stop cancels the background goroutine and waits for it to exit.
func (r *Reaper) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.doneCh
	r.cancel, r.doneCh = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
