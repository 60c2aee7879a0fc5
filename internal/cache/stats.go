package cache

// L1Stats describes the in-process tier
type L1Stats struct {
	Size               int     `json:"size"`
	MaxSize            int     `json:"max_size"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// L2Stats describes the remote tier. Best-effort: when the backend is
// unreachable Connected is false and the rest is zero.
type L2Stats struct {
	Connected bool              `json:"connected"`
	DBSize    int64             `json:"db_size"`
	Memory    map[string]string `json:"memory,omitempty"`
}

// MetricsView presents the request counters in display units
type MetricsView struct {
	Hits              int64   `json:"hits"`
	Misses            int64   `json:"misses"`
	HitRatePercent    float64 `json:"hit_rate_percent"`
	TotalRequests     int64   `json:"total_requests"`
	Evictions         int64   `json:"evictions"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// ConfigSummary echoes the static cache configuration. The compression and
// encryption flags are informational only; no transform is applied to
// values.
type ConfigSummary struct {
	DefaultTTLSeconds  int                      `json:"default_ttl_seconds"`
	TTLSeconds         map[string]int           `json:"ttl_seconds"`
	Strategies         map[string]WriteStrategy `json:"strategies"`
	CompressionEnabled bool                     `json:"compression_enabled"`
	EncryptionEnabled  bool                     `json:"encryption_enabled"`
}

// Stats is the full snapshot returned by Service.Stats
type Stats struct {
	L1            L1Stats       `json:"l1"`
	L2            L2Stats       `json:"l2"`
	Metrics       MetricsView   `json:"metrics"`
	Configuration ConfigSummary `json:"configuration"`
}
