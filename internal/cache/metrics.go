package cache

import (
	"sync"
	"time"
)

// responseTimeAlpha weights the newest observation in the running average
const responseTimeAlpha = 0.1

// MetricsSnapshot is a point-in-time view of the request-path counters.
// HitRate is a 0..1 ratio and AvgResponseTime is in seconds; the stats
// endpoint converts both for display.
type MetricsSnapshot struct {
	Hits            int64
	Misses          int64
	TotalRequests   int64
	Evictions       int64
	HitRate         float64
	AvgResponseTime float64
}

// MetricsRecorder tracks read-path outcomes. Only Get and GetOrSet feed it;
// writes, deletes and invalidations do not count as requests.
type MetricsRecorder struct {
	mu              sync.Mutex
	hits            int64
	misses          int64
	totalRequests   int64
	avgResponseTime float64
	seeded          bool
}

// NewMetricsRecorder creates an empty recorder
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordHit counts a served request and folds its duration into the average
func (m *MetricsRecorder) RecordHit(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
	m.totalRequests++
	m.observe(elapsed)
}

// RecordMiss counts an unserved request and folds its duration into the
// average
func (m *MetricsRecorder) RecordMiss(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
	m.totalRequests++
	m.observe(elapsed)
}

// Snapshot returns the current counters. Evictions is left zero; the caller
// owns that counter and fills it in.
func (m *MetricsRecorder) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		Hits:            m.hits,
		Misses:          m.misses,
		TotalRequests:   m.totalRequests,
		AvgResponseTime: m.avgResponseTime,
	}
	if m.totalRequests > 0 {
		snap.HitRate = float64(m.hits) / float64(m.totalRequests)
	}
	return snap
}

// Reset zeroes all counters and the running average
func (m *MetricsRecorder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits = 0
	m.misses = 0
	m.totalRequests = 0
	m.avgResponseTime = 0
	m.seeded = false
}

// observe updates the exponential moving average. The first observation
// seeds the average directly instead of decaying from zero.
func (m *MetricsRecorder) observe(elapsed time.Duration) {
	seconds := elapsed.Seconds()
	if !m.seeded {
		m.avgResponseTime = seconds
		m.seeded = true
		return
	}
	m.avgResponseTime = responseTimeAlpha*seconds + (1-responseTimeAlpha)*m.avgResponseTime
}
