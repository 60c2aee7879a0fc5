package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	// Start miniredis server for testing
	mr, err := miniredis.Run()
	require.NoError(t, err)

	config := &Config{
		Address:  mr.Addr(),
		Password: "",
		DB:       0,
		PoolSize: 10,
	}

	client, err := NewClient(config)
	require.NoError(t, err)

	return client, mr
}

func TestConfig_Defaults(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	t.Run("sets default pool size", func(t *testing.T) {
		config := &Config{
			Address:  mr.Addr(),
			PoolSize: 0,
		}

		client, err := NewClient(config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, 10, config.PoolSize)
	})
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	t.Run("successful connection", func(t *testing.T) {
		config := &Config{
			Address:  mr.Addr(),
			Password: "",
			DB:       0,
			PoolSize: 5,
		}

		client, err := NewClient(config)
		assert.NoError(t, err)
		assert.NotNil(t, client)

		err = client.Close()
		assert.NoError(t, err)
	})

	t.Run("nil config", func(t *testing.T) {
		client, err := NewClient(nil)
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "redis config is required")
	})

	t.Run("connection failure", func(t *testing.T) {
		config := &Config{
			Address:  "invalid:99999",
			Password: "",
			DB:       0,
			PoolSize: 5,
		}

		client, err := NewClient(config)
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	t.Run("healthy connection", func(t *testing.T) {
		err := client.Health(ctx)
		assert.NoError(t, err)
	})

	t.Run("unhealthy connection", func(t *testing.T) {
		// Close the miniredis server to simulate connection failure
		mr.Close()

		err := client.Health(ctx)
		assert.Error(t, err)
	})
}

func TestClient_KeyValue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	t.Run("set and get string", func(t *testing.T) {
		key := "test:string"
		value := "hello world"

		err := client.SetEx(ctx, key, value, time.Hour)
		assert.NoError(t, err)

		result, found, err := client.Get(ctx, key)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, result)
	})

	t.Run("set and get bytes", func(t *testing.T) {
		key := "test:bytes"
		value := []byte("hello bytes")

		err := client.SetEx(ctx, key, value, time.Hour)
		assert.NoError(t, err)

		result, found, err := client.Get(ctx, key)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, string(value), result)
	})

	t.Run("set and get JSON", func(t *testing.T) {
		key := "test:json"
		value := map[string]interface{}{
			"name":   "test",
			"count":  42,
			"active": true,
		}

		err := client.SetEx(ctx, key, value, time.Hour)
		assert.NoError(t, err)

		raw, found, err := client.Get(ctx, key)
		assert.NoError(t, err)
		assert.True(t, found)

		var result map[string]interface{}
		err = json.Unmarshal([]byte(raw), &result)
		assert.NoError(t, err)
		assert.Equal(t, "test", result["name"])
		assert.Equal(t, float64(42), result["count"]) // JSON numbers are float64
		assert.Equal(t, true, result["active"])
	})

	t.Run("missing key is a miss, not an error", func(t *testing.T) {
		result, found, err := client.Get(ctx, "non:existent")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, result)
	})

	t.Run("set with expiration", func(t *testing.T) {
		key := "test:expiry"
		value := "expires soon"

		err := client.SetEx(ctx, key, value, 1*time.Second)
		assert.NoError(t, err)

		// Key should exist immediately
		result, found, err := client.Get(ctx, key)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, result)

		// Fast forward time
		mr.FastForward(2 * time.Second)

		// Key should be expired
		_, found, err = client.Get(ctx, key)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_Del(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	t.Run("deletes existing keys", func(t *testing.T) {
		require.NoError(t, client.SetEx(ctx, "del:a", "1", time.Hour))
		require.NoError(t, client.SetEx(ctx, "del:b", "2", time.Hour))

		removed, err := client.Del(ctx, "del:a", "del:b", "del:ghost")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		_, found, err := client.Get(ctx, "del:a")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("no keys is a no-op", func(t *testing.T) {
		removed, err := client.Del(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})

	t.Run("missing keys count zero", func(t *testing.T) {
		removed, err := client.Del(ctx, "del:never-set")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})
}

func TestClient_ScanKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.SetEx(ctx, "sessions:user:1", "a", time.Hour))
	require.NoError(t, client.SetEx(ctx, "sessions:user:2", "b", time.Hour))
	require.NoError(t, client.SetEx(ctx, "reports:daily", "c", time.Hour))

	t.Run("matches glob pattern", func(t *testing.T) {
		keys, err := client.ScanKeys(ctx, "sessions:*")
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"sessions:user:1", "sessions:user:2"}, keys)
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		keys, err := client.ScanKeys(ctx, "invoices:*")
		assert.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestClient_FlushDBAndDBSize(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, client.SetEx(ctx, fmt.Sprintf("flush:%d", i), "v", time.Hour))
	}

	size, err := client.DBSize(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), size)

	err = client.FlushDB(ctx)
	assert.NoError(t, err)

	size, err = client.DBSize(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), size)
}

func TestClient_ErrorHandling(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	t.Run("invalid JSON marshaling", func(t *testing.T) {
		// Create a value that can't be marshaled to JSON
		invalidValue := make(chan int)

		err := client.SetEx(ctx, "test:invalid", invalidValue, time.Hour)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal value")
	})

	t.Run("operations on closed connection", func(t *testing.T) {
		// Close the Redis server
		mr.Close()

		// Operations should fail
		err := client.SetEx(ctx, "test:key", "value", time.Hour)
		assert.Error(t, err)

		_, _, err = client.Get(ctx, "test:key")
		assert.Error(t, err)

		_, err = client.Del(ctx, "test:key")
		assert.Error(t, err)

		_, err = client.ScanKeys(ctx, "*")
		assert.Error(t, err)

		_, err = client.DBSize(ctx)
		assert.Error(t, err)

		err = client.FlushDB(ctx)
		assert.Error(t, err)

		_, err = client.Info(ctx, "memory")
		assert.Error(t, err)
	})
}

func TestClient_Concurrency(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	t.Run("concurrent key-value operations", func(t *testing.T) {
		done := make(chan bool, 10)

		// Run concurrent set/get operations
		for i := 0; i < 10; i++ {
			go func(id int) {
				key := fmt.Sprintf("test:concurrent:kv:%d", id)
				value := fmt.Sprintf("value-%d", id)

				err := client.SetEx(ctx, key, value, time.Hour)
				assert.NoError(t, err)

				result, found, err := client.Get(ctx, key)
				assert.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, value, result)

				done <- true
			}(i)
		}

		// Wait for all goroutines to complete
		for i := 0; i < 10; i++ {
			<-done
		}
	})
}

func TestClient_PoolStats(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	stats := client.PoolStats()
	assert.NotNil(t, stats)
}

func TestClient_GetGoRedisClient(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	rdb := client.GetGoRedisClient()
	require.NotNil(t, rdb)

	err := rdb.Ping(context.Background()).Err()
	assert.NoError(t, err)
}
