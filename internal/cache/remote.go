package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"tiercache/internal/circuitbreaker"
	apperrors "tiercache/internal/common/errors"
	"tiercache/internal/redis"
)

// RemoteStore is the shared second tier. Values cross this boundary as raw
// bytes; serialization stays with the caller.
type RemoteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetEx(ctx context.Context, key string, ttl time.Duration, payload []byte) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	FlushDB(ctx context.Context) error
	Info(ctx context.Context, section string) (map[string]string, error)
	DBSize(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// redisRemote backs RemoteStore with Redis. Every call gets its own timeout
// and runs through the circuit breaker so a struggling backend cannot stall
// the read path.
type redisRemote struct {
	client  *redis.Client
	breaker *circuitbreaker.Breaker
	timeout time.Duration
}

// NewRedisRemote wraps a Redis client as a RemoteStore. A nil breaker
// disables circuit breaking; opTimeout bounds each individual call.
func NewRedisRemote(client *redis.Client, breaker *circuitbreaker.Breaker, opTimeout time.Duration) RemoteStore {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &redisRemote{
		client:  client,
		breaker: breaker,
		timeout: opTimeout,
	}
}

var _ RemoteStore = (*redisRemote)(nil)

func (r *redisRemote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		payload []byte
		found   bool
	)
	_, err := r.do(func() (interface{}, error) {
		value, ok, err := r.client.Get(opCtx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			payload = []byte(value)
			found = true
		}
		return nil, nil
	})
	if err != nil {
		return nil, false, r.wrap("remote.get", err)
	}
	return payload, found, nil
}

func (r *redisRemote) SetEx(ctx context.Context, key string, ttl time.Duration, payload []byte) error {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.do(func() (interface{}, error) {
		return nil, r.client.SetEx(opCtx, key, payload, ttl)
	})
	return r.wrap("remote.setex", err)
}

func (r *redisRemote) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var removed int64
	_, err := r.do(func() (interface{}, error) {
		n, err := r.client.Del(opCtx, keys...)
		if err != nil {
			return nil, err
		}
		removed = n
		return nil, nil
	})
	if err != nil {
		return 0, r.wrap("remote.delete", err)
	}
	return removed, nil
}

func (r *redisRemote) Keys(ctx context.Context, pattern string) ([]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var keys []string
	_, err := r.do(func() (interface{}, error) {
		found, err := r.client.ScanKeys(opCtx, pattern)
		if err != nil {
			return nil, err
		}
		keys = found
		return nil, nil
	})
	if err != nil {
		return nil, r.wrap("remote.keys", err)
	}
	return keys, nil
}

func (r *redisRemote) FlushDB(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.do(func() (interface{}, error) {
		return nil, r.client.FlushDB(opCtx)
	})
	return r.wrap("remote.flushdb", err)
}

func (r *redisRemote) Info(ctx context.Context, section string) (map[string]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var raw string
	_, err := r.do(func() (interface{}, error) {
		s, err := r.client.Info(opCtx, section)
		if err != nil {
			return nil, err
		}
		raw = s
		return nil, nil
	})
	if err != nil {
		return nil, r.wrap("remote.info", err)
	}
	return parseInfo(raw), nil
}

// parseInfo converts raw INFO output into key/value pairs, skipping section
// headers and blank lines
func parseInfo(raw string) map[string]string {
	parsed := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			parsed[line[:idx]] = line[idx+1:]
		}
	}
	return parsed
}

func (r *redisRemote) DBSize(ctx context.Context) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var size int64
	_, err := r.do(func() (interface{}, error) {
		n, err := r.client.DBSize(opCtx)
		if err != nil {
			return nil, err
		}
		size = n
		return nil, nil
	})
	if err != nil {
		return 0, r.wrap("remote.dbsize", err)
	}
	return size, nil
}

func (r *redisRemote) Ping(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.do(func() (interface{}, error) {
		return nil, r.client.Health(opCtx)
	})
	return r.wrap("remote.ping", err)
}

// do routes fn through the breaker when one is configured
func (r *redisRemote) do(fn func() (interface{}, error)) (interface{}, error) {
	if r.breaker == nil {
		return fn()
	}
	return r.breaker.Execute(fn)
}

// wrap classifies a backend failure into the shared error types. Errors
// that are already typed, such as breaker rejections, pass through as is.
func (r *redisRemote) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.TimeoutError(op, err)
	}
	return apperrors.ConnectionError("redis operation failed", err).WithOp(op)
}
