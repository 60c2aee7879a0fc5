package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb    *redis.Client
	config *Config
}

type Config struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		rdb:    rdb,
		config: config,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key-value operations

// Get returns the value for key, reporting a miss instead of an error when
// the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key: %w", err)
	}
	return value, true, nil
}

// SetEx stores value under key with a TTL. Strings and byte slices are
// stored as-is; anything else is JSON encoded first.
func (c *Client) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var data []byte
	var err error

	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
	}

	return c.rdb.SetEX(ctx, key, data, ttl).Err()
}

// Del removes the given keys and returns how many existed
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	removed, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return removed, nil
}

// ScanKeys returns all keys matching the glob pattern. SCAN is used instead
// of KEYS so a large keyspace does not block the server.
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	return keys, nil
}

// FlushDB removes every key in the configured database
func (c *Client) FlushDB(ctx context.Context) error {
	if err := c.rdb.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush database: %w", err)
	}
	return nil
}

// DBSize returns the number of keys in the configured database
func (c *Client) DBSize(ctx context.Context) (int64, error) {
	size, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read database size: %w", err)
	}
	return size, nil
}

// Info returns the raw INFO output, optionally limited to one section
func (c *Client) Info(ctx context.Context, section string) (string, error) {
	var cmd *redis.StringCmd
	if section == "" {
		cmd = c.rdb.Info(ctx)
	} else {
		cmd = c.rdb.Info(ctx, section)
	}
	info, err := cmd.Result()
	if err != nil {
		return "", fmt.Errorf("failed to read server info: %w", err)
	}
	return info, nil
}

// PoolStats exposes connection pool counters
func (c *Client) PoolStats() *redis.PoolStats {
	return c.rdb.PoolStats()
}

// GetGoRedisClient exposes the underlying client for libraries that need it
func (c *Client) GetGoRedisClient() *redis.Client {
	return c.rdb
}
