package app

import (
	"github.com/google/uuid"

	"tiercache/internal/cache"
	"tiercache/internal/circuitbreaker"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
	"tiercache/internal/locks"
	"tiercache/internal/redis"
)

// App holds all the application dependencies
type App struct {
	Config     *config.Config
	Redis      *redis.Client
	Breaker    *circuitbreaker.Breaker
	Leases     *locks.Manager
	Cache      *cache.Service
	Sweeper    *cache.Sweeper
	InstanceID string
	Logger     logging.Logger
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config:     cfg,
		InstanceID: uuid.NewString(),
	}
	app.Logger = logging.GetGlobalLogger().WithFields(
		logging.Field{Key: "component", Value: "app"},
		logging.Field{Key: "instance", Value: app.InstanceID},
	)

	// Initialize components in order of dependency
	if err := app.initializeRedis(); err != nil {
		// The remote tier is optional, continue serving from L1 alone
		app.Logger.Warn("Redis initialization failed, continuing in L1-only mode",
			logging.Field{Key: "error", Value: err.Error()})
	}

	if err := app.initializeCache(); err != nil {
		return nil, err
	}

	if err := app.initializeSweeper(); err != nil {
		return nil, err
	}

	return app, nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Leases != nil {
		app.Leases.Close()
	}
	if app.Redis != nil {
		app.Redis.Close()
	}
}
