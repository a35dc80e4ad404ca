package config

import (
	"time"

	"github.com/yndnr/filedrop/internal/infra/confloader"
	"github.com/yndnr/filedrop/internal/storage/memory"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "0.0.0.0:8000"
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultRateLimit = 20
	DefaultRateBurst = 40

	DefaultMaxFileSize    = memory.DefaultMaxFileSize
	DefaultMaxTotalMemory = memory.DefaultMaxTotalMemory

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			CORSAllowedOrigins: []string{},
			RateLimit:          DefaultRateLimit,
			RateBurst:          DefaultRateBurst,
			ShutdownTimeout:    DefaultShutdownTimeout,
		},
		Store: StoreSection{
			MaxFileSize:    DefaultMaxFileSize,
			MaxTotalMemory: DefaultMaxTotalMemory,
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// envKeys lists every key settable as FILEDROP_<KEY>.
var envKeys = []string{
	"server.http.addr",
	"server.http.tls_cert_file",
	"server.http.tls_key_file",
	"server.http.read_timeout",
	"server.http.write_timeout",
	"server.http.idle_timeout",
	"server.public_url",
	"server.rate_limit",
	"server.rate_burst",
	"server.shutdown_timeout",
	"server.trust_proxy_headers",
	"store.max_file_size",
	"store.max_total_memory",
	"metrics.enabled",
	"log.level",
	"log.format",
}

var envListKeys = []string{
	"server.cors_allowed_origins",
}

// legacyAliases keeps the plain variable names older deployments use.
var legacyAliases = map[string]confloader.Alias{
	"MAX_FILE_SIZE":    {Key: "store.max_file_size"},
	"MAX_TOTAL_MEMORY": {Key: "store.max_total_memory"},
	"PORT": {Key: "server.http.addr", Convert: func(port string) any {
		return "0.0.0.0:" + port
	}},
}

// LoaderOptions returns the confloader options that bind this
// configuration to environment variables.
func LoaderOptions() []confloader.Option {
	return []confloader.Option{
		confloader.WithEnvKeys(envKeys...),
		confloader.WithEnvListKeys(envListKeys...),
		confloader.WithAliases(legacyAliases),
	}
}

// Load builds the configuration from defaults, the optional file, the
// environment and overrides, then verifies it.
func Load(path string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	opts := append(LoaderOptions(),
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
