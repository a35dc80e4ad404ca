package config

import "time"

// ServerConfig is the root configuration for filedrop-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Store   StoreSection   `koanf:"store"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP boundary.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// PublicURL is the base for download links, e.g. https://drop.example.com.
	// When empty the URL is derived from each request.
	PublicURL string `koanf:"public_url"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is requests per second per client IP. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// TrustProxyHeaders honours X-Forwarded-For, X-Real-IP,
	// X-Forwarded-Proto and X-Forwarded-Host. Enable only behind a proxy
	// that overwrites them.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// TLSEnabled reports whether both certificate and key are configured.
func (h HTTPConfig) TLSEnabled() bool {
	return h.TLSCertFile != "" && h.TLSKeyFile != ""
}

// StoreSection bounds the in-memory object store.
type StoreSection struct {
	MaxFileSize    int64 `koanf:"max_file_size"`
	MaxTotalMemory int64 `koanf:"max_total_memory"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
