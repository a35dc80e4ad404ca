package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/filedrop/internal/core/domain"
)

// StatsSource reports current store occupancy.
type StatsSource interface {
	Stats() domain.StoreStats
}

// StoreCollector reads store gauges at scrape time so the values are
// never stale and nothing has to push updates on every insert.
type StoreCollector struct {
	src StatsSource

	objects   *prometheus.Desc
	used      *prometheus.Desc
	capacity  *prometheus.Desc
	maxFile   *prometheus.Desc
	usedRatio *prometheus.Desc
}

// NewStoreCollector creates a collector over src.
func NewStoreCollector(src StatsSource) *StoreCollector {
	return &StoreCollector{
		src: src,
		objects: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "objects"),
			"Live objects held in memory.", nil, nil),
		used: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "used_bytes"),
			"Sum of live payload sizes.", nil, nil),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "capacity_bytes"),
			"Configured total memory limit.", nil, nil),
		maxFile: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "max_file_bytes"),
			"Configured per-file size limit.", nil, nil),
		usedRatio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "used_ratio"),
			"Fraction of capacity in use.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.objects
	ch <- c.used
	ch <- c.capacity
	ch <- c.maxFile
	ch <- c.usedRatio
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ratio := 0.0
	if s.MaxTotalMemory > 0 {
		ratio = float64(s.UsedBytes) / float64(s.MaxTotalMemory)
	}

	ch <- prometheus.MustNewConstMetric(c.objects, prometheus.GaugeValue, float64(s.Objects))
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(s.UsedBytes))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.MaxTotalMemory))
	ch <- prometheus.MustNewConstMetric(c.maxFile, prometheus.GaugeValue, float64(s.MaxFileSize))
	ch <- prometheus.MustNewConstMetric(c.usedRatio, prometheus.GaugeValue, ratio)
}
