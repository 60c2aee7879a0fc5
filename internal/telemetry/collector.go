// Package telemetry exposes cache counters to Prometheus. The service keeps
// its own counters, so the collector reads them at scrape time instead of
// double-counting through live instruments.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tiercache/internal/cache"
)

// scrapeTimeout bounds the remote tier calls made during one scrape
const scrapeTimeout = 5 * time.Second

// Collector implements prometheus.Collector over a cache service
type Collector struct {
	service *cache.Service

	requests    *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	hitRatio    *prometheus.Desc
	responseEMA *prometheus.Desc
	l1Entries   *prometheus.Desc
	l1Capacity  *prometheus.Desc
	l2Connected *prometheus.Desc
	l2Keys      *prometheus.Desc
}

// NewCollector creates a Prometheus collector backed by the given service
func NewCollector(service *cache.Service) *Collector {
	return &Collector{
		service: service,
		requests: prometheus.NewDesc(
			"tiercache_requests_total",
			"Total number of cache read requests",
			nil, nil,
		),
		hits: prometheus.NewDesc(
			"tiercache_hits_total",
			"Total number of cache hits across tiers",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"tiercache_misses_total",
			"Total number of cache misses",
			nil, nil,
		),
		evictions: prometheus.NewDesc(
			"tiercache_evictions_total",
			"Total number of capacity evictions from the in-process tier",
			nil, nil,
		),
		hitRatio: prometheus.NewDesc(
			"tiercache_hit_ratio",
			"Smoothed hit ratio between 0 and 1",
			nil, nil,
		),
		responseEMA: prometheus.NewDesc(
			"tiercache_response_time_seconds",
			"Exponential moving average of read latency in seconds",
			nil, nil,
		),
		l1Entries: prometheus.NewDesc(
			"tiercache_l1_entries",
			"Entries currently held in the in-process tier",
			nil, nil,
		),
		l1Capacity: prometheus.NewDesc(
			"tiercache_l1_capacity",
			"Maximum entries the in-process tier can hold",
			nil, nil,
		),
		l2Connected: prometheus.NewDesc(
			"tiercache_l2_connected",
			"Whether the remote tier answered a ping (1) or not (0)",
			nil, nil,
		),
		l2Keys: prometheus.NewDesc(
			"tiercache_l2_keys",
			"Keys reported by the remote tier database",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.hitRatio
	ch <- c.responseEMA
	ch <- c.l1Entries
	ch <- c.l1Capacity
	ch <- c.l2Connected
	ch <- c.l2Keys
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	metrics := c.service.Metrics()
	stats := c.service.Stats(ctx)

	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(metrics.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(metrics.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(metrics.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(metrics.Evictions))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, metrics.HitRate)
	ch <- prometheus.MustNewConstMetric(c.responseEMA, prometheus.GaugeValue, metrics.AvgResponseTime)

	ch <- prometheus.MustNewConstMetric(c.l1Entries, prometheus.GaugeValue, float64(stats.L1.Size))
	ch <- prometheus.MustNewConstMetric(c.l1Capacity, prometheus.GaugeValue, float64(stats.L1.MaxSize))

	connected := 0.0
	if stats.L2.Connected {
		connected = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.l2Connected, prometheus.GaugeValue, connected)
	ch <- prometheus.MustNewConstMetric(c.l2Keys, prometheus.GaugeValue, float64(stats.L2.DBSize))
}

var _ prometheus.Collector = (*Collector)(nil)
