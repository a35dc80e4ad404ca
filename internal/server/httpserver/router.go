package httpserver

import (
	"net/http"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/core/service"
	"github.com/yndnr/filedrop/internal/server/httpserver/handler"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
	"github.com/yndnr/filedrop/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Files serves uploads, downloads and status.
	Files *service.FileService

	// Metrics records request metrics and backs /metrics. Nil disables both.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger

	// PublicURL overrides the request-derived base for download links.
	PublicURL string

	// CORSAllowedOrigins lists allowed origins. Empty sends no CORS headers.
	CORSAllowedOrigins []string

	// RateLimit is the per-IP request rate (requests/second). 0 disables.
	RateLimit float64

	// RateBurst is the per-IP burst size.
	RateBurst int

	// MaxFileSize caps buffered upload parts.
	MaxFileSize int64

	// Ready reports readiness for GET /ready.
	Ready func() bool

	// TrustProxyHeaders lets forwarding headers set the client IP used for
	// rate limiting and logs, and the base URL of download links.
	TrustProxyHeaders bool
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> AccessLog -> mux -> [RateLimit -> CORS] -> handler.
// Health, readiness and metrics skip rate limiting and CORS.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(handler.Config{
		Files:             cfg.Files,
		Logger:            log,
		PublicURL:         cfg.PublicURL,
		MaxFileSize:       cfg.MaxFileSize,
		Ready:             cfg.Ready,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	var businessMiddlewares []Middleware
	if cfg.RateLimit > 0 {
		businessMiddlewares = append(businessMiddlewares, RateLimit(NewLimiterRegistry(cfg.RateLimit, cfg.RateBurst), cfg.TrustProxyHeaders))
	}
	businessMiddlewares = append(businessMiddlewares, CORS(cfg.CORSAllowedOrigins))
	businessHandler := Chain(h, businessMiddlewares...)

	mux := http.NewServeMux()

	// Probes
	mux.Handle("GET /health", h)
	mux.Handle("GET /ready", h)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// File endpoints
	mux.Handle("POST /upload", businessHandler)
	mux.Handle("OPTIONS /upload", businessHandler)
	mux.Handle("GET /download/{token}", businessHandler)
	mux.Handle("OPTIONS /download/{token}", businessHandler)
	mux.Handle("GET /files/{token}/qr", businessHandler)
	mux.Handle("GET /status", businessHandler)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, r, domain.ErrRouteNotFound)
	})

	return Chain(mux,
		Recover(),
		RequestID(log, cfg.TrustProxyHeaders),
		AccessLog(cfg.Metrics),
	)
}
