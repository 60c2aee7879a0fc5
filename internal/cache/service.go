package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tiercache/internal/common/logging"
	"tiercache/internal/locks"
)

// Factory computes a value for GetOrSet when both tiers miss
type Factory func(ctx context.Context) (interface{}, error)

// Options configures a Service. Zero values fall back to the defaults
// documented on each field.
type Options struct {
	// Logger receives warn-level fail-open notices; nil uses the global logger
	Logger logging.Logger
	// Remote is the second tier; nil runs the cache in L1-only mode
	Remote RemoteStore
	// Leases coordinates cross-process fills in GetOrSet; nil disables that
	Leases locks.LeaseManager
	// MaxL1Size bounds the in-process tier (default 10000)
	MaxL1Size int
	// DefaultTTL applies to namespaces without a configured TTL (default 3600)
	DefaultTTL int
	// NamespaceTTLs maps namespace to TTL seconds
	NamespaceTTLs map[string]int
	// Strategies maps namespace to write strategy (default write_through)
	Strategies map[string]WriteStrategy
	// FillLeaseTTL is the fill lease expiry (default 30s)
	FillLeaseTTL time.Duration
	// FillWaitTimeout bounds how long a fill follower waits for the leader
	// before computing locally (default 10s)
	FillWaitTimeout time.Duration
	// Compression and Encryption are informational flags surfaced in stats
	Compression bool
	Encryption  bool
}

// Service is the public cache facade. All methods are safe for concurrent
// use. Read operations never return backend errors; a broken remote tier
// degrades to misses (fail-open).
type Service struct {
	store   *MemoryStore
	remote  RemoteStore
	leases  locks.LeaseManager
	metrics *MetricsRecorder
	logger  logging.Logger
	flight  singleflight.Group

	defaultTTL  int
	ttls        map[string]int
	strategies  map[string]WriteStrategy
	fillLease   time.Duration
	fillWait    time.Duration
	compression bool
	encryption  bool
}

// NewService builds a Service from options, applying defaults for anything
// unset
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}
	if opts.MaxL1Size <= 0 {
		opts.MaxL1Size = 10000
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 3600
	}
	if opts.FillLeaseTTL <= 0 {
		opts.FillLeaseTTL = 30 * time.Second
	}
	if opts.FillWaitTimeout <= 0 {
		opts.FillWaitTimeout = 10 * time.Second
	}

	ttls := make(map[string]int, len(opts.NamespaceTTLs))
	for ns, ttl := range opts.NamespaceTTLs {
		ttls[ns] = ttl
	}
	strategies := make(map[string]WriteStrategy, len(opts.Strategies))
	for ns, strategy := range opts.Strategies {
		strategies[ns] = strategy
	}

	return &Service{
		store:       NewMemoryStore(opts.MaxL1Size),
		remote:      opts.Remote,
		leases:      opts.Leases,
		metrics:     NewMetricsRecorder(),
		logger:      opts.Logger,
		defaultTTL:  opts.DefaultTTL,
		ttls:        ttls,
		strategies:  strategies,
		fillLease:   opts.FillLeaseTTL,
		fillWait:    opts.FillWaitTimeout,
		compression: opts.Compression,
		encryption:  opts.Encryption,
	}
}

// Get looks a value up through the tiers. An L2 hit is promoted into L1
// with the namespace TTL. Remote failures and context cancellation read as
// misses.
func (s *Service) Get(ctx context.Context, namespace string, args []string, kwargs map[string]string) (interface{}, bool) {
	start := time.Now()
	key := BuildKey(namespace, args, kwargs)

	value, found := s.lookup(ctx, key, namespace)
	if found {
		s.metrics.RecordHit(time.Since(start))
	} else {
		s.metrics.RecordMiss(time.Since(start))
	}
	return value, found
}

// Set stores a value according to the namespace's write strategy and
// returns the generated key. ttlSeconds <= 0 resolves to the namespace TTL.
// A failed remote write is logged and the call still succeeds.
func (s *Service) Set(ctx context.Context, namespace string, value interface{}, ttlSeconds int, args []string, kwargs map[string]string) (string, error) {
	key := BuildKey(namespace, args, kwargs)
	ttl := ttlSeconds
	if ttl <= 0 {
		ttl = s.ttlFor(namespace)
	}
	strategy := s.strategyFor(namespace)

	if strategy.WritesL1() {
		meta := Metadata{Namespace: namespace, Strategy: strategy}
		s.store.Put(NewEntry(key, value, ttl, LevelL1Memory, meta))
	}

	if strategy.WritesL2() && s.remote != nil {
		payload, err := json.Marshal(value)
		if err != nil {
			s.logger.Warn("Value not serializable, skipping remote write",
				logging.Field{Key: "key", Value: key},
				logging.Field{Key: "error", Value: err.Error()},
			)
			return key, nil
		}
		if err := s.remote.SetEx(ctx, key, time.Duration(ttl)*time.Second, payload); err != nil {
			s.logger.Warn("Remote write failed",
				logging.Field{Key: "key", Value: key},
				logging.Field{Key: "strategy", Value: string(strategy)},
				logging.Field{Key: "error", Value: err.Error()},
			)
		}
	}

	return key, nil
}

// Delete removes a key from both tiers, reporting true when at least one
// tier held it
func (s *Service) Delete(ctx context.Context, namespace string, args []string, kwargs map[string]string) bool {
	key := BuildKey(namespace, args, kwargs)

	removed := s.store.Remove(key)
	if s.remote != nil {
		n, err := s.remote.Delete(ctx, key)
		if err != nil {
			s.logger.Warn("Remote delete failed",
				logging.Field{Key: "key", Value: key},
				logging.Field{Key: "error", Value: err.Error()},
			)
		} else if n > 0 {
			removed = true
		}
	}
	return removed
}

// InvalidatePattern removes every key containing pattern as a literal
// substring from both tiers and returns the combined count. The tiers are
// cleaned concurrently; a remote failure contributes zero.
func (s *Service) InvalidatePattern(ctx context.Context, pattern string) int {
	var l1Removed, l2Removed int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l1Removed = s.store.RemoveIf(func(key string) bool {
			return strings.Contains(key, pattern)
		})
		return nil
	})
	g.Go(func() error {
		if s.remote == nil {
			return nil
		}
		keys, err := s.remote.Keys(gctx, "*"+pattern+"*")
		if err != nil {
			s.logger.Warn("Remote key scan failed during invalidation",
				logging.Field{Key: "pattern", Value: pattern},
				logging.Field{Key: "error", Value: err.Error()},
			)
			return nil
		}
		if len(keys) == 0 {
			return nil
		}
		n, err := s.remote.Delete(gctx, keys...)
		if err != nil {
			s.logger.Warn("Remote invalidation failed",
				logging.Field{Key: "pattern", Value: pattern},
				logging.Field{Key: "error", Value: err.Error()},
			)
			return nil
		}
		l2Removed = int(n)
		return nil
	})
	g.Wait()

	return l1Removed + l2Removed
}

// GetOrSet returns the cached value for the key, computing and storing it
// via factory on a miss. Concurrent local callers for the same key share a
// single factory run; with a lease manager configured, concurrent processes
// do too. A factory error is returned as-is and nothing is cached.
func (s *Service) GetOrSet(ctx context.Context, namespace string, args []string, kwargs map[string]string, factory Factory, ttlSeconds int) (interface{}, error) {
	start := time.Now()
	key := BuildKey(namespace, args, kwargs)

	if value, found := s.lookup(ctx, key, namespace); found {
		s.metrics.RecordHit(time.Since(start))
		return value, nil
	}
	s.metrics.RecordMiss(time.Since(start))

	value, err, _ := s.flight.Do(key, func() (interface{}, error) {
		// A concurrent caller may have filled the key while this one
		// queued for the flight
		if value, found := s.lookup(ctx, key, namespace); found {
			return value, nil
		}

		if s.leases != nil {
			lease, acquired, err := s.leases.TryAcquire(ctx, key, s.fillLease)
			switch {
			case err != nil:
				s.logger.Warn("Fill lease unavailable, computing locally",
					logging.Field{Key: "key", Value: key},
					logging.Field{Key: "error", Value: err.Error()},
				)
			case !acquired:
				if value, found := s.awaitFill(ctx, key, namespace); found {
					return value, nil
				}
				s.logger.Debug("Fill wait timed out, computing locally",
					logging.Field{Key: "key", Value: key},
				)
			default:
				defer lease.Release(ctx)
			}
		}

		value, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := s.Set(ctx, namespace, value, ttlSeconds, args, kwargs); err != nil {
			s.logger.Warn("Failed to store computed value",
				logging.Field{Key: "key", Value: key},
				logging.Field{Key: "error", Value: err.Error()},
			)
		}
		return value, nil
	})
	return value, err
}

// Stats returns a point-in-time snapshot of both tiers, the request
// counters and the static configuration. Remote fields are best-effort.
func (s *Service) Stats(ctx context.Context) Stats {
	l1Size := s.store.Len()
	l1 := L1Stats{
		Size:    l1Size,
		MaxSize: s.store.Cap(),
	}
	if l1.MaxSize > 0 {
		l1.UtilizationPercent = float64(l1Size) / float64(l1.MaxSize) * 100
	}

	var l2 L2Stats
	if s.remote != nil {
		if err := s.remote.Ping(ctx); err == nil {
			l2.Connected = true
			if size, err := s.remote.DBSize(ctx); err == nil {
				l2.DBSize = size
			}
			if memory, err := s.remote.Info(ctx, "memory"); err == nil {
				l2.Memory = memory
			}
		}
	}

	snap := s.metrics.Snapshot()
	snap.Evictions = s.store.Evictions()

	ttls := make(map[string]int, len(s.ttls))
	for ns, ttl := range s.ttls {
		ttls[ns] = ttl
	}
	strategies := make(map[string]WriteStrategy, len(s.strategies))
	for ns, strategy := range s.strategies {
		strategies[ns] = strategy
	}

	return Stats{
		L1: l1,
		L2: l2,
		Metrics: MetricsView{
			Hits:              snap.Hits,
			Misses:            snap.Misses,
			HitRatePercent:    snap.HitRate * 100,
			TotalRequests:     snap.TotalRequests,
			Evictions:         snap.Evictions,
			AvgResponseTimeMs: snap.AvgResponseTime * 1000,
		},
		Configuration: ConfigSummary{
			DefaultTTLSeconds:  s.defaultTTL,
			TTLSeconds:         ttls,
			Strategies:         strategies,
			CompressionEnabled: s.compression,
			EncryptionEnabled:  s.encryption,
		},
	}
}

// Metrics returns the raw request counters, with evictions folded in
func (s *Service) Metrics() MetricsSnapshot {
	snap := s.metrics.Snapshot()
	snap.Evictions = s.store.Evictions()
	return snap
}

// ClearAll empties both tiers and resets the counters. A remote flush
// failure is returned after the local state is already cleared.
func (s *Service) ClearAll(ctx context.Context) error {
	s.store.Clear()
	s.metrics.Reset()

	if s.remote != nil {
		if err := s.remote.FlushDB(ctx); err != nil {
			s.logger.Warn("Remote flush failed",
				logging.Field{Key: "error", Value: err.Error()},
			)
			return err
		}
	}
	return nil
}

// SweepExpired drops expired entries from the in-process tier and returns
// the number removed. Lazy expiry on reads stays authoritative; sweeping
// only reclaims memory earlier.
func (s *Service) SweepExpired() int {
	removed := s.store.RemoveExpired()
	if removed > 0 {
		s.logger.Debug("Swept expired entries",
			logging.Field{Key: "removed", Value: removed},
		)
	}
	return removed
}

// lookup reads through the tiers without touching the request counters.
// Remote hits are promoted into L1 with the namespace TTL and marked
// Promoted.
func (s *Service) lookup(ctx context.Context, key, namespace string) (interface{}, bool) {
	if entry, found := s.store.Get(key); found {
		return entry.Value, true
	}

	if s.remote == nil || ctx.Err() != nil {
		return nil, false
	}

	payload, found, err := s.remote.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Remote read failed, treating as miss",
			logging.Field{Key: "key", Value: key},
			logging.Field{Key: "error", Value: err.Error()},
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal(payload, &value); err != nil {
		s.logger.Warn("Undecodable remote payload, treating as miss",
			logging.Field{Key: "key", Value: key},
			logging.Field{Key: "error", Value: err.Error()},
		)
		return nil, false
	}

	meta := Metadata{Namespace: namespace, Strategy: s.strategyFor(namespace), Promoted: true}
	s.store.Put(NewEntry(key, value, s.ttlFor(namespace), LevelL1Memory, meta))
	return value, true
}

// awaitFill polls the cache until the fill leader publishes the value, the
// wait budget runs out, or the context ends
func (s *Service) awaitFill(ctx context.Context, key, namespace string) (interface{}, bool) {
	deadline := time.NewTimer(s.fillWait)
	defer deadline.Stop()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-deadline.C:
			return nil, false
		case <-ticker.C:
			if value, found := s.lookup(ctx, key, namespace); found {
				return value, true
			}
		}
	}
}

func (s *Service) ttlFor(namespace string) int {
	if ttl, ok := s.ttls[namespace]; ok {
		return ttl
	}
	return s.defaultTTL
}

func (s *Service) strategyFor(namespace string) WriteStrategy {
	if strategy, ok := s.strategies[namespace]; ok {
		return strategy
	}
	return DefaultWriteStrategy
}
