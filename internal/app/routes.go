package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"tiercache/internal/handlers"
	"tiercache/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the admin server
func SetupRoutes(router *mux.Router, h *handlers.Handlers, metrics http.Handler) {
	// Add logging middleware to all routes
	router.Use(middleware.LoggingMiddleware)

	// Health check and telemetry
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	// Statistics and maintenance
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/invalidate", h.InvalidatePattern).Methods("POST")
	api.HandleFunc("/clear", h.ClearCache).Methods("POST")

	// Entry passthrough. Both forms route to the same handlers so keys with
	// no positional arguments work too.
	api.HandleFunc("/entries/{namespace}", h.GetEntry).Methods("GET")
	api.HandleFunc("/entries/{namespace}", h.PutEntry).Methods("PUT")
	api.HandleFunc("/entries/{namespace}", h.DeleteEntry).Methods("DELETE")
	api.HandleFunc("/entries/{namespace}/{args:.*}", h.GetEntry).Methods("GET")
	api.HandleFunc("/entries/{namespace}/{args:.*}", h.PutEntry).Methods("PUT")
	api.HandleFunc("/entries/{namespace}/{args:.*}", h.DeleteEntry).Methods("DELETE")
}
