package confloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		HTTP struct {
			Addr        string        `koanf:"addr"`
			ReadTimeout time.Duration `koanf:"read_timeout"`
		} `koanf:"http"`
		Origins []string `koanf:"origins"`
	} `koanf:"server"`
	Store struct {
		MaxFileSize int64 `koanf:"max_file_size"`
	} `koanf:"store"`
}

func defaults() *testConfig {
	cfg := &testConfig{}
	cfg.Server.HTTP.Addr = "0.0.0.0:8000"
	cfg.Server.HTTP.ReadTimeout = time.Minute
	cfg.Store.MaxFileSize = 100
	return cfg
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filedrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_DefaultsSurvive(t *testing.T) {
	cfg := defaults()

	require.NoError(t, NewLoader(WithEnvPrefix("FDTEST_NONE_")).Load(cfg))

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Server.HTTP.ReadTimeout)
	assert.EqualValues(t, 100, cfg.Store.MaxFileSize)
}

func TestLoader_File(t *testing.T) {
	path := writeFile(t, `
server:
  http:
    addr: "127.0.0.1:9000"
    read_timeout: 5s
store:
  max_file_size: 2048
`)
	cfg := defaults()
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("FDTEST_NONE_"))

	require.NoError(t, l.Load(cfg))
	assert.True(t, l.IsLoaded())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.EqualValues(t, 2048, cfg.Store.MaxFileSize)
}

func TestLoader_FileNotFound(t *testing.T) {
	err := NewLoader(WithConfigFile("/nonexistent/filedrop.yaml")).Load(defaults())
	assert.Error(t, err)
}

func TestLoader_EnvDeclaredKeys(t *testing.T) {
	t.Setenv("FDTEST_SERVER_HTTP_READ_TIMEOUT", "90s")
	t.Setenv("FDTEST_STORE_MAX_FILE_SIZE", "4096")
	t.Setenv("FDTEST_SERVER_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FDTEST_UNKNOWN_THING", "ignored")

	cfg := defaults()
	l := NewLoader(
		WithEnvPrefix("FDTEST_"),
		WithEnvKeys("server.http.read_timeout", "store.max_file_size"),
		WithEnvListKeys("server.origins"),
	)

	require.NoError(t, l.Load(cfg))
	assert.Equal(t, 90*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.EqualValues(t, 4096, cfg.Store.MaxFileSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.Origins)
	assert.False(t, l.Exists("unknown.thing"))
}

func TestLoader_EnvFallbackMapping(t *testing.T) {
	t.Setenv("FDFALL_SERVER_HTTP_ADDR", "10.0.0.1:1")

	cfg := defaults()
	require.NoError(t, NewLoader(WithEnvPrefix("FDFALL_")).Load(cfg))
	assert.Equal(t, "10.0.0.1:1", cfg.Server.HTTP.Addr)
}

func TestLoader_AliasesOverridePrefixed(t *testing.T) {
	t.Setenv("FDTEST_STORE_MAX_FILE_SIZE", "1")
	t.Setenv("LEGACY_MAX", "777")
	t.Setenv("LEGACY_PORT", "9090")

	cfg := defaults()
	l := NewLoader(
		WithEnvPrefix("FDTEST_"),
		WithEnvKeys("store.max_file_size"),
		WithAliases(map[string]Alias{
			"LEGACY_MAX":  {Key: "store.max_file_size"},
			"LEGACY_PORT": {Key: "server.http.addr", Convert: func(v string) any { return "0.0.0.0:" + v }},
			"LEGACY_NONE": {Key: "server.http.read_timeout"},
		}),
	)

	require.NoError(t, l.Load(cfg))
	assert.EqualValues(t, 777, cfg.Store.MaxFileSize)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Server.HTTP.ReadTimeout)
}

func TestLoader_Priority(t *testing.T) {
	path := writeFile(t, "store:\n  max_file_size: 10\nserver:\n  http:\n    addr: file:1\n")
	t.Setenv("FDPRIO_STORE_MAX_FILE_SIZE", "20")

	cfg := defaults()
	l := NewLoader(
		WithConfigFile(path),
		WithEnvPrefix("FDPRIO_"),
		WithEnvKeys("store.max_file_size"),
		WithOverrides(map[string]any{"store.max_file_size": int64(30)}),
	)

	require.NoError(t, l.Load(cfg))
	assert.EqualValues(t, 30, cfg.Store.MaxFileSize)
	assert.Equal(t, "file:1", cfg.Server.HTTP.Addr)
	assert.EqualValues(t, 30, l.GetInt64("store.max_file_size"))
	assert.Equal(t, "file:1", l.GetString("server.http.addr"))
}

func TestLoader_EnvName(t *testing.T) {
	l := NewLoader()
	assert.Equal(t, "FILEDROP_STORE_MAX_TOTAL_MEMORY", l.EnvName("store.max_total_memory"))
}

func TestLoader_Keys(t *testing.T) {
	l := NewLoader(WithEnvPrefix("FDTEST_NONE_"))
	require.NoError(t, l.LoadMap(map[string]any{"a.b": 1, "a.c": "x"}))

	keys := strings.Join(l.Keys(), ",")
	assert.Contains(t, keys, "a.b")
	assert.Contains(t, keys, "a.c")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
	assert.Empty(t, splitList(""))
}
