// Package httpserver provides the HTTP/HTTPS server for FileDrop.
//
// Routes:
//
//   - POST /upload, GET /download/{token}, GET /files/{token}/qr
//   - GET /status
//   - GET /health, GET /ready, GET /metrics
//
// Features:
//
//   - TLS with automatic certificate reload
//   - Middleware chain: Recover, RequestID, AccessLog, RateLimit, CORS
//   - Prometheus request metrics labelled by route pattern
package httpserver
