package logger

import "context"

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestKey
)

// RequestInfo identifies the HTTP request a log line belongs to.
type RequestInfo struct {
	ID       string
	ClientIP string
}

// attrs returns the non-empty fields as slog key/value pairs.
func (ri RequestInfo) attrs() []any {
	var out []any
	if ri.ID != "" {
		out = append(out, "request_id", ri.ID)
	}
	if ri.ClientIP != "" {
		out = append(out, "client_ip", ri.ClientIP)
	}
	return out
}

// WithLogger attaches a logger to ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequest attaches request identity to ctx.
func WithRequest(ctx context.Context, ri RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey, ri)
}

// WithRequestID sets only the request ID, keeping any client IP already set.
func WithRequestID(ctx context.Context, id string) context.Context {
	ri := RequestFromContext(ctx)
	ri.ID = id
	return WithRequest(ctx, ri)
}

// RequestFromContext returns the request identity on ctx, zero if none.
func RequestFromContext(ctx context.Context) RequestInfo {
	ri, _ := ctx.Value(requestKey).(RequestInfo)
	return ri
}

// RequestIDFromContext returns the request ID on ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return RequestFromContext(ctx).ID
}

// L returns the logger for ctx with request_id and client_ip attached.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if attrs := RequestFromContext(ctx).attrs(); len(attrs) > 0 {
		l = l.With(attrs...)
	}
	return l
}
