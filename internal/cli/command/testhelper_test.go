package command

import (
	"bytes"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/filedrop/internal/core/service"
	"github.com/yndnr/filedrop/internal/server/httpserver"
	"github.com/yndnr/filedrop/internal/storage/memory"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// newTestServer starts a real FileDrop router backed by a small store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Output: io.Discard})
	require.NoError(t, err)

	store := memory.New(memory.WithLimits(1<<20, 4<<20))
	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Files:       service.NewFileService(store, log, nil),
		Logger:      log,
		MaxFileSize: 1 << 20,
	}))
	t.Cleanup(srv.Close)
	return srv
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI against server with args, feeding stdin.
func run(t *testing.T, server string, stdin string, args ...string) runResult {
	t.Helper()

	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)

	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")
	argv := append([]string{"filedrop-cli", "--config", cfgPath, "--server", server}, args...)
	err := app.Run(argv)
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}
