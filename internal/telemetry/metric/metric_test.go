package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/filedrop/internal/core/domain"
)

func TestRegistry_RecordUpload(t *testing.T) {
	m := NewRegistry()

	m.RecordUpload(ResultOK, 100)
	m.RecordUpload(ResultOK, 50)
	m.RecordUpload(ResultRejected, 999)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues(ResultRejected)))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.BytesUploaded))
}

func TestRegistry_RecordDownload(t *testing.T) {
	m := NewRegistry()

	m.RecordDownload(ResultOK, 10)
	m.RecordDownload(ResultDenied, 0)
	m.RecordDownload(ResultNotFound, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DownloadsTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DownloadsTotal.WithLabelValues(ResultDenied)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.BytesDownloaded))
}

func TestRegistry_RecordSweepAndRequest(t *testing.T) {
	m := NewRegistry()

	m.RecordSweep(3, time.Millisecond)
	m.RecordSweep(0, time.Millisecond)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReapedTotal))

	m.RecordRequest("GET", "/status", 200, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/status", "200")))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var m *Registry

	assert.NotPanics(t, func() {
		m.RecordUpload(ResultOK, 1)
		m.RecordDownload(ResultOK, 1)
		m.RecordSweep(1, time.Second)
		m.RecordRequest("GET", "/", 200, time.Second)
		_ = m.Register(nil)
	})
}

type staticStats domain.StoreStats

func (s staticStats) Stats() domain.StoreStats { return domain.StoreStats(s) }

func TestStoreCollector(t *testing.T) {
	src := staticStats{Objects: 2, UsedBytes: 25, MaxFileSize: 50, MaxTotalMemory: 100}
	c := NewStoreCollector(src)

	assert.Equal(t, 5, testutil.CollectAndCount(c))

	expected := `
# HELP filedrop_store_used_bytes Sum of live payload sizes.
# TYPE filedrop_store_used_bytes gauge
filedrop_store_used_bytes 25
# HELP filedrop_store_used_ratio Fraction of capacity in use.
# TYPE filedrop_store_used_ratio gauge
filedrop_store_used_ratio 0.25
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"filedrop_store_used_bytes", "filedrop_store_used_ratio"))
}

func TestRegistry_Handler(t *testing.T) {
	m := NewRegistry()
	require.NoError(t, m.Register(NewStoreCollector(staticStats{Objects: 1})))
	m.RecordUpload(ResultOK, 7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `filedrop_uploads_total{result="ok"} 1`)
	assert.Contains(t, string(body), "filedrop_store_objects 1")
	assert.Contains(t, string(body), "go_goroutines")
}
