// Package locks provides distributed fill leases using the Redlock algorithm
// implementation from go-redsync/redsync/v4.
//
// A fill lease grants exactly one process the right to recompute a cache
// value while everyone else waits for the filled entry to appear. Leases
// renew themselves at 1/3 of their expiration interval so a slow factory
// does not lose the lease mid-fill, and releasing a lease unlocks it in
// Redis immediately instead of waiting for expiry.
package locks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	apperrors "tiercache/internal/common/errors"
	"tiercache/internal/redis"
)

// Lease is a held fill lease
type Lease interface {
	// Key returns the resource the lease was acquired for
	Key() string
	// Release unlocks the lease and stops automatic renewal
	Release(ctx context.Context) error
	// Held reports whether this process still holds the lease
	Held() bool
}

// LeaseManager hands out fill leases
type LeaseManager interface {
	TryAcquire(ctx context.Context, key string, expiration time.Duration) (Lease, bool, error)
	Close() error
}

// Manager implements LeaseManager on top of redsync
type Manager struct {
	redsync *redsync.Redsync
	held    map[string]*redsyncLease
	mutex   sync.RWMutex
}

// redsyncLease wraps a redsync.Mutex and its renewal goroutine
type redsyncLease struct {
	mutex      *redsync.Mutex
	key        string
	expiration time.Duration
	acquired   time.Time
	ctx        context.Context
	cancel     context.CancelFunc
	manager    *Manager
}

// NewManager creates a lease manager backed by the given Redis client.
//
// Example:
//
//	redisClient, err := redis.NewClient(&redis.Config{
//		Address: "localhost:6379",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := locks.NewManager(redisClient)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
func NewManager(redisClient *redis.Client) (*Manager, error) {
	if redisClient == nil {
		return nil, apperrors.ConfigError("redis client is required")
	}

	pool := goredis.NewPool(redisClient.GetGoRedisClient())

	return &Manager{
		redsync: redsync.New(pool),
		held:    make(map[string]*redsyncLease),
	}, nil
}

// TryAcquire makes a single attempt to take the lease for key.
//
// Parameters:
//   - ctx: Context for the acquisition attempt
//   - key: Resource identifier; the Redis key becomes "lease:<key>"
//   - expiration: How long the lease lives without renewal
//
// Returns:
//   - Lease: The acquired lease, or nil when not acquired
//   - bool: true when this caller now holds the lease, false when another
//     process does
//   - error: Non-nil only for backend failures; contention is not an error
func (m *Manager) TryAcquire(ctx context.Context, key string, expiration time.Duration) (Lease, bool, error) {
	mutex := m.redsync.NewMutex(fmt.Sprintf("lease:%s", key), redsync.WithExpiry(expiration))

	if err := mutex.TryLockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, false, nil
		}
		return nil, false, apperrors.ConnectionError("failed to acquire fill lease", err)
	}

	leaseCtx, cancel := context.WithCancel(context.Background())
	lease := &redsyncLease{
		mutex:      mutex,
		key:        key,
		expiration: expiration,
		acquired:   time.Now(),
		ctx:        leaseCtx,
		cancel:     cancel,
		manager:    m,
	}

	m.mutex.Lock()
	m.held[key] = lease
	m.mutex.Unlock()

	go m.renew(lease)

	return lease, true, nil
}

// renew extends the lease at 1/3 of its expiration interval until the lease
// is released or extension fails
func (m *Manager) renew(lease *redsyncLease) {
	renewInterval := lease.expiration / 3
	if renewInterval < time.Second {
		renewInterval = time.Second
	}

	ticker := time.NewTicker(renewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-lease.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			ok, err := lease.mutex.ExtendContext(ctx)
			cancel()

			if err != nil || !ok {
				// Lease lost, stop renewing
				m.release(lease)
				return
			}
		}
	}
}

// release cleans up a lease locally and unlocks it in Redis
func (m *Manager) release(lease *redsyncLease) {
	m.mutex.Lock()
	if current, ok := m.held[lease.key]; ok && current == lease {
		delete(m.held, lease.key)
	}
	m.mutex.Unlock()

	lease.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lease.mutex.UnlockContext(ctx)
}

// Close releases every lease still held by this manager
func (m *Manager) Close() error {
	m.mutex.Lock()
	leases := make([]*redsyncLease, 0, len(m.held))
	for _, lease := range m.held {
		leases = append(leases, lease)
	}
	m.held = make(map[string]*redsyncLease)
	m.mutex.Unlock()

	for _, lease := range leases {
		lease.cancel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lease.mutex.UnlockContext(ctx)
		cancel()
	}
	return nil
}

// Key returns the resource identifier for this lease
func (l *redsyncLease) Key() string {
	return l.key
}

// Release explicitly releases the lease and stops automatic renewal
func (l *redsyncLease) Release(ctx context.Context) error {
	l.manager.release(l)
	return nil
}

// Held returns true if the lease is still held by this process
func (l *redsyncLease) Held() bool {
	select {
	case <-l.ctx.Done():
		return false
	default:
		return true
	}
}

var _ LeaseManager = (*Manager)(nil)
var _ Lease = (*redsyncLease)(nil)
