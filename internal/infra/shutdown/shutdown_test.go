package shutdown

import (
	"context"
	"errors"
	"io"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Output: io.Discard})
	require.NoError(t, err)
	return l
}

func TestHandler_RunsHooksInReverse(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Hook {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	h.OnShutdown("watcher", record("watcher"))
	h.OnShutdown("reaper", record("reaper"))
	h.OnShutdown("http", record("http"))

	require.NoError(t, h.Run("test"))
	assert.Equal(t, []string{"http", "reaper", "watcher"}, order)

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestHandler_RunOnce(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))
	var calls int
	h.OnShutdown("count", func(context.Context) error { calls++; return nil })

	require.NoError(t, h.Run("first"))
	require.NoError(t, h.Run("second"))
	assert.Equal(t, 1, calls)
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var ranOK bool

	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("ok", func(context.Context) error { ranOK = true; return nil })
	h.OnShutdown("b", func(context.Context) error { return errB })

	err := h.Run("test")
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, ranOK)
}

func TestHandler_HooksShareDeadline(t *testing.T) {
	h := NewHandler(50*time.Millisecond, quietLogger(t))

	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := h.Run("test")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHandler_WaitTrigger(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))
	ran := make(chan struct{})
	h.OnShutdown("hook", func(context.Context) error { close(ran); return nil })

	go h.Trigger("listener failed")
	h.Trigger("ignored second reason")

	require.NoError(t, h.Wait(context.Background()))
	<-ran
}

func TestHandler_WaitContext(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, h.Wait(ctx))
}

func TestHandler_WaitSignal(t *testing.T) {
	h := NewHandler(time.Second, quietLogger(t))
	ran := make(chan struct{})
	h.OnShutdown("hook", func(context.Context) error { close(ran); return nil })

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	// Give Wait time to install the handler.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after SIGTERM")
	}
	<-ran
}
