package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// Verify validates the configuration and reports every problem at once.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifyStore(&cfg.Store)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyServer(s *ServerSection) []error {
	var errs []error

	if _, _, err := net.SplitHostPort(s.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", s.HTTP.Addr, err))
	}
	if (s.HTTP.TLSCertFile == "") != (s.HTTP.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
	}
	if s.HTTP.ReadTimeout < 0 || s.HTTP.WriteTimeout < 0 || s.HTTP.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.http timeouts must not be negative"))
	}
	if s.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	if s.RateLimit > 0 && s.RateBurst < 1 {
		errs = append(errs, errors.New("server.rate_burst must be at least 1 when rate limiting is on"))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if s.PublicURL != "" {
		u, err := url.Parse(s.PublicURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("server.public_url %q must be an absolute http(s) URL", s.PublicURL))
		}
	}

	return errs
}

func verifyStore(s *StoreSection) []error {
	var errs []error

	if s.MaxFileSize <= 0 {
		errs = append(errs, errors.New("store.max_file_size must be positive"))
	}
	if s.MaxTotalMemory <= 0 {
		errs = append(errs, errors.New("store.max_total_memory must be positive"))
	}

	return errs
}

func verifyLog(l *LogSection) []error {
	var errs []error

	if _, err := logger.ParseLevel(l.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(l.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", l.Format))
	}

	return errs
}
