package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tiercache/internal/handlers"
	"tiercache/internal/server"
	"tiercache/internal/telemetry"
)

// RunServer starts the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	// Initialize handlers
	h := handlers.New(app.Cache, app.Redis)

	// Expose cache counters on a dedicated registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(telemetry.NewCollector(app.Cache))

	// Set up routes
	router := mux.NewRouter()
	SetupRoutes(router, h, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Create server
	srv := server.New(router, app.Config.Port)

	return srv, router
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown(ctx context.Context) error {
	// Stop sweeping before the tiers go away
	if app.Sweeper != nil {
		app.Sweeper.Stop()
	}

	// Lease manager and Redis client are closed in Cleanup()
	return nil
}
