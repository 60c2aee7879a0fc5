package app

import (
	"strconv"
	"time"

	"tiercache/internal/circuitbreaker"
	"tiercache/internal/common/logging"
	"tiercache/internal/locks"
	"tiercache/internal/redis"
)

func (app *App) initializeRedis() error {
	if !app.Config.RedisEnabled {
		app.Logger.Info("Redis: Disabled (L1-only mode, fill leases off)")
		return nil
	}

	// Convert config values
	redisDB, _ := strconv.Atoi(app.Config.RedisDB)
	redisPoolSize, _ := strconv.Atoi(app.Config.RedisPoolSize)

	redisConfig := &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       redisDB,
		PoolSize: redisPoolSize,
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		return err
	}

	app.Redis = redisClient
	app.Logger.Info("Redis: Connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})

	// Arm the breaker that guards remote tier calls
	maxFailures, _ := strconv.Atoi(app.Config.BreakerMaxFailures)
	breakerTimeout, _ := time.ParseDuration(app.Config.BreakerTimeout)

	breakerConfig := circuitbreaker.DefaultConfig()
	if maxFailures > 0 {
		breakerConfig.MaxFailures = maxFailures
	}
	if breakerTimeout > 0 {
		breakerConfig.Timeout = breakerTimeout
	}

	app.Breaker = circuitbreaker.New("redis", breakerConfig, app.Logger)
	app.Logger.Info("Circuit Breaker: Armed",
		logging.Field{Key: "max_failures", Value: breakerConfig.MaxFailures},
		logging.Field{Key: "timeout", Value: breakerConfig.Timeout.String()},
	)

	if app.Config.FillLock {
		leases, err := locks.NewManager(redisClient)
		if err != nil {
			return err
		}
		app.Leases = leases
		app.Logger.Info("Fill Leases: Enabled")
	}

	return nil
}
