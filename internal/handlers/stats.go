package handlers

import (
	"encoding/json"
	"net/http"
)

// Statistics and maintenance handlers

// GetStats returns tier usage, hit counters, and the active configuration
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Stats(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

type invalidateRequest struct {
	Pattern string `json:"pattern"`
}

// InvalidatePattern removes every entry whose key contains the given
// substring from both tiers
func (h *Handlers) InvalidatePattern(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Pattern == "" {
		http.Error(w, "Pattern is required", http.StatusBadRequest)
		return
	}

	invalidated := h.service.InvalidatePattern(r.Context(), req.Pattern)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"invalidated": invalidated,
	})
}

// ClearCache empties both tiers and resets the hit counters. The local tier
// is always cleared; a remote flush failure surfaces as an error.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAll(r.Context()); err != nil {
		http.Error(w, "Failed to clear remote tier", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Cache cleared",
	})
}
