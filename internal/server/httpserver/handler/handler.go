package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/core/service"
	"github.com/yndnr/filedrop/internal/infra/buildinfo"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// Config holds handler dependencies.
type Config struct {
	Files  *service.FileService
	Logger logger.Logger

	// PublicURL overrides the request-derived base for download links.
	PublicURL string

	// MaxFileSize caps how much of an upload part is buffered.
	MaxFileSize int64

	// TrustProxyHeaders lets forwarding headers set the client IP and the
	// base URL of download links.
	TrustProxyHeaders bool

	// Ready reports readiness for GET /ready. Nil means always ready.
	Ready func() bool
}

// Handler serves all FileDrop endpoints.
type Handler struct {
	files       *service.FileService
	logger      logger.Logger
	publicURL   string
	maxFileSize int64
	trustProxy  bool
	ready       func() bool
	version     string
	mux         *http.ServeMux
}

// New creates a Handler.
func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	ready := cfg.Ready
	if ready == nil {
		ready = func() bool { return true }
	}

	h := &Handler{
		files:       cfg.Files,
		logger:      log,
		publicURL:   strings.TrimRight(cfg.PublicURL, "/"),
		maxFileSize: cfg.MaxFileSize,
		trustProxy:  cfg.TrustProxyHeaders,
		ready:       ready,
		version:     buildinfo.Get().Version,
		mux:         http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /upload", h.handleUpload)
	h.mux.HandleFunc("GET /download/{token}", h.handleDownload)
	h.mux.HandleFunc("GET /files/{token}/qr", h.handleQRCode)
	h.mux.HandleFunc("GET /status", h.handleStatus)
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// WriteError writes an error envelope. Domain errors keep their code and
// message; anything else is reported as an internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.RequestIDFromContext(r.Context())

	var de *domain.DomainError
	if !errors.As(err, &de) {
		logger.L(r.Context()).Error("internal error", "error", err)
		de = domain.ErrInternalServer
	}

	status := domain.HTTPStatus(de)
	if status >= 500 && de.Code != domain.ErrCapacityExceeded.Code {
		logger.L(r.Context()).Error("request failed", "code", de.Code, "error", err)
	}

	var details any
	if de.Details != "" {
		details = de.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", de.Code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, de.Code, de.Message, details))
}

// ClientIP returns the originating client address. Forwarding headers are
// only consulted when trustProxy is set; otherwise any client could pick
// its own address.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// baseURL is the scheme and host download links are built on.
func (h *Handler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if h.trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			first, _, _ := strings.Cut(proto, ",")
			scheme = strings.ToLower(strings.TrimSpace(first))
		}
		if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			host = strings.TrimSpace(first)
		}
	}
	return scheme + "://" + host
}

func (h *Handler) downloadURL(r *http.Request, tok string) string {
	return h.baseURL(r) + "/download/" + tok
}
