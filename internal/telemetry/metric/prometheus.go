package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "filedrop"

// Result labels for upload and download counters.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultDenied   = "denied"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Transfer metrics
	UploadsTotal    *prometheus.CounterVec // filedrop_uploads_total{result}
	DownloadsTotal  *prometheus.CounterVec // filedrop_downloads_total{result}
	BytesUploaded   prometheus.Counter     // filedrop_bytes_uploaded_total
	BytesDownloaded prometheus.Counter     // filedrop_bytes_downloaded_total

	// Reaper metrics
	ReapedTotal   prometheus.Counter   // filedrop_reaped_objects_total
	SweepDuration prometheus.Histogram // filedrop_reaper_sweep_duration_seconds

	// Request metrics
	RequestsTotal   *prometheus.CounterVec   // filedrop_http_requests_total{method,route,status}
	RequestDuration *prometheus.HistogramVec // filedrop_http_request_duration_seconds{method,route}
}

// NewRegistry creates a registry with process and Go runtime collectors
// already registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload attempts by result.",
		}, []string{"result"}),

		DownloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Download attempts by result.",
		}, []string{"result"}),

		BytesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_uploaded_total",
			Help:      "Payload bytes accepted by the store.",
		}),

		BytesDownloaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_downloaded_total",
			Help:      "Payload bytes served to clients.",
		}),

		ReapedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaped_objects_total",
			Help:      "Expired objects removed by the reaper.",
		}),

		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reaper_sweep_duration_seconds",
			Help:      "Time spent in one reaper sweep.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (m *Registry) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.reg
}

// Register adds an extra collector to the registry.
func (m *Registry) Register(c prometheus.Collector) error {
	if m == nil {
		return nil
	}
	return m.reg.Register(c)
}

// RecordUpload counts an upload attempt. Bytes are only added for
// successful uploads.
func (m *Registry) RecordUpload(result string, bytes int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.BytesUploaded.Add(float64(bytes))
	}
}

// RecordDownload counts a download attempt.
func (m *Registry) RecordDownload(result string, bytes int64) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.BytesDownloaded.Add(float64(bytes))
	}
}

// RecordSweep records one reaper pass.
func (m *Registry) RecordSweep(removed int, d time.Duration) {
	if m == nil {
		return
	}
	m.ReapedTotal.Add(float64(removed))
	m.SweepDuration.Observe(d.Seconds())
}

// RecordRequest records a finished HTTP request.
func (m *Registry) RecordRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
