// Package cache implements the multi-tier caching engine.
//
// Two tiers are active:
//   - L1: bounded in-process store with LRU eviction and lazy TTL expiry
//   - L2: Redis with JSON-serialized values, per-operation timeouts and a
//     circuit breaker
//
// L3 and L4 are declared levels with no active backend. Every L2 failure
// fails open: reads degrade to misses, writes are logged and skipped.
//
// The Service facade is the single entry point:
//
// 1. Reads - Get and GetOrSet
//   - L1 hit refreshes access metadata and recency
//   - L2 hit promotes the value into L1 with the namespace TTL
//   - GetOrSet runs the factory once per key under concurrency
//     (singleflight), and once per cluster when a lease manager is wired
//
// 2. Writes - Set routed by the namespace write strategy
//   - write_through: L1 then L2, synchronously
//   - write_around: L2 only
//   - write_back, cache_aside: L1 only, never flushed to L2
//
// 3. Maintenance - Delete, InvalidatePattern, ClearAll, Stats, plus an
// optional cron Sweeper reclaiming expired L1 entries early
//
// Usage:
//
//	service := cache.NewService(cache.Options{
//		Logger: logger,
//		Remote: cache.NewRedisRemote(redisClient, breaker, 5*time.Second),
//		NamespaceTTLs: map[string]int{
//			"ai_responses": 3600,
//		},
//	})
//
//	key, _ := service.Set(ctx, "ai_responses", payload, 0, []string{"gpt", "42"}, nil)
//	value, found := service.Get(ctx, "ai_responses", []string{"gpt", "42"}, nil)
package cache
