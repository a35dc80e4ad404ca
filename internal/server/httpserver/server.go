package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/filedrop/internal/infra/tlsroots"
	"github.com/yndnr/filedrop/internal/server/config"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// Server represents the HTTP(S) server.
type Server struct {
	httpServer *http.Server
	keyPair    *tlsroots.KeyPair
	logger     logger.Logger
}

// New creates a server for cfg. When TLS is configured the certificate
// is loaded now and reloaded whenever its files change.
func New(cfg config.HTTPConfig, handler http.Handler, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout(cfg),
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger: log,
	}

	if cfg.TLSEnabled() {
		kp, err := tlsroots.LoadKeyPair(cfg.TLSCertFile, cfg.TLSKeyFile, tlsroots.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("httpserver: %w", err)
		}
		if err := kp.Watch(); err != nil {
			log.Warn("certificate hot reload disabled", "error", err)
		}
		s.keyPair = kp
		s.httpServer.TLSConfig = kp.ServerConfig()
	}

	return s, nil
}

func readHeaderTimeout(cfg config.HTTPConfig) time.Duration {
	const ceiling = 10 * time.Second
	if cfg.ReadTimeout > 0 && cfg.ReadTimeout < ceiling {
		return cfg.ReadTimeout
	}
	return ceiling
}

// TLSEnabled reports whether the server speaks HTTPS.
func (s *Server) TLSEnabled() bool {
	return s.keyPair != nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe listens on the configured address and serves until
// Shutdown. It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("httpserver: listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening",
		"addr", ln.Addr().String(),
		"tls", s.TLSEnabled(),
	)
	if s.keyPair != nil {
		return s.httpServer.ServeTLS(ln, "", "")
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and stops certificate
// watching.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.keyPair != nil {
		err = errors.Join(err, s.keyPair.Stop())
	}
	return err
}
