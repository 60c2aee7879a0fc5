package app

import (
	"strconv"
	"time"

	"tiercache/internal/cache"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
)

func (app *App) initializeCache() error {
	// Convert config values
	maxL1Size, _ := strconv.Atoi(app.Config.MaxL1Size)
	defaultTTL, _ := strconv.Atoi(app.Config.DefaultTTL)
	opTimeout, _ := time.ParseDuration(app.Config.OpTimeout)
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}

	ttls, err := config.ParseIntPairs(app.Config.NamespaceTTLs)
	if err != nil {
		return err
	}

	pairs, err := config.ParseStringPairs(app.Config.NamespaceStrategies)
	if err != nil {
		return err
	}
	strategies := make(map[string]cache.WriteStrategy, len(pairs))
	for namespace, token := range pairs {
		strategy, err := cache.ParseWriteStrategy(token)
		if err != nil {
			return err
		}
		strategies[namespace] = strategy
	}

	opts := cache.Options{
		Logger:        logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "cache"}),
		MaxL1Size:     maxL1Size,
		DefaultTTL:    defaultTTL,
		NamespaceTTLs: ttls,
		Strategies:    strategies,
		Compression:   app.Config.Compression,
		Encryption:    app.Config.Encryption,
	}
	if app.Redis != nil {
		opts.Remote = cache.NewRedisRemote(app.Redis, app.Breaker, opTimeout)
	}
	if app.Leases != nil {
		opts.Leases = app.Leases
	}

	app.Cache = cache.NewService(opts)
	app.Logger.Info("Cache Service: Started",
		logging.Field{Key: "max_l1_size", Value: maxL1Size},
		logging.Field{Key: "default_ttl_seconds", Value: defaultTTL},
		logging.Field{Key: "namespaces", Value: len(ttls)},
		logging.Field{Key: "remote_tier", Value: app.Redis != nil},
	)

	return nil
}

func (app *App) initializeSweeper() error {
	interval, _ := time.ParseDuration(app.Config.SweepInterval)
	if interval <= 0 {
		app.Logger.Info("Sweeper: Disabled")
		return nil
	}

	sweeper, err := cache.NewSweeper(app.Cache, interval, app.Logger)
	if err != nil {
		return err
	}

	sweeper.Start()
	app.Sweeper = sweeper
	return nil
}
