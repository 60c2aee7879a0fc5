package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"tiercache/internal/cache"
	"tiercache/internal/redis"
)

type Handlers struct {
	service *cache.Service
	redis   *redis.Client
}

// New creates the handler set. redisClient may be nil when the node runs
// without its remote tier.
func New(service *cache.Service, redisClient *redis.Client) *Handlers {
	return &Handlers{
		service: service,
		redis:   redisClient,
	}
}

// HealthCheck reports node health. A node without a reachable remote tier
// still serves from memory, so it reports degraded instead of failing.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.redis == nil {
		status = "degraded"
	} else if err := h.redis.Health(r.Context()); err != nil {
		status = "degraded"
	}

	health := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now(),
		"version":   "1.0.0",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
