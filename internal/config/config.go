// Package config provides configuration management for the cache engine.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration to ensure the node starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Admin server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_JSON: Emit JSON logs instead of console output (default: true)
//
// Redis Configuration (the L2 tier):
//   - REDIS_ENABLED: Enable the remote tier; "false" runs L1-only (default: true)
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Cache Behavior:
//   - CACHE_MAX_L1_SIZE: Max entries held in-process (default: 10000)
//   - CACHE_DEFAULT_TTL: TTL seconds for unconfigured namespaces (default: 3600)
//   - CACHE_NAMESPACE_TTLS: "ns=seconds,..." per-namespace TTL overrides
//   - CACHE_NAMESPACE_STRATEGIES: "ns=strategy,..." per-namespace write
//     strategies (write_through, write_back, write_around, cache_aside)
//   - CACHE_OP_TIMEOUT: Per-operation budget for remote tier calls (default: 5s)
//   - CACHE_SWEEP_INTERVAL: Expired-entry sweep cadence, "0" disables (default: 60s)
//   - CACHE_FILL_LOCK: Cross-instance fill leases for GetOrSet (default: true)
//   - CACHE_COMPRESSION: Informational flag surfaced in stats (default: false)
//   - CACHE_ENCRYPTION: Informational flag surfaced in stats (default: false)
//
// Circuit Breaker:
//   - BREAKER_MAX_FAILURES: Consecutive failures that open the circuit (default: 5)
//   - BREAKER_TIMEOUT: How long the circuit stays open (default: 30s)
//
// Example usage:
//
//	// Load configuration from environment
//	config := config.Load()
//
//	// Validate configuration
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
//
//	// Use configuration
//	server := &http.Server{
//		Addr: ":" + config.Port,
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the cache engine. All string
// fields correspond to environment variables that can be set to override the
// default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Admin server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogJSON  bool   // JSON log encoding

	// Redis configuration for the remote tier
	RedisEnabled  bool   // Whether the L2 tier is active
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Cache behavior
	MaxL1Size           string // Max in-process entries
	DefaultTTL          string // Fallback TTL seconds
	NamespaceTTLs       string // "ns=seconds,..." pairs
	NamespaceStrategies string // "ns=strategy,..." pairs
	OpTimeout           string // Remote tier per-operation budget (e.g. "5s")
	SweepInterval       string // Sweep cadence, "0" disables
	FillLock            bool   // Cross-instance fill leases in GetOrSet
	Compression         bool   // Informational flag only
	Encryption          bool   // Informational flag only

	// Circuit breaker configuration
	BreakerMaxFailures string // Consecutive failures before opening
	BreakerTimeout     string // Open-state duration (e.g. "30s")
}

// DefaultNamespaceTTLs is the built-in per-namespace TTL table
const DefaultNamespaceTTLs = "ai_responses=3600,user_sessions=86400,code_completions=7200,architecture_diagrams=43200,performance_metrics=300"

// DefaultNamespaceStrategies is the built-in per-namespace strategy table
const DefaultNamespaceStrategies = "ai_responses=write_through,user_sessions=write_back,code_completions=cache_aside,architecture_diagrams=write_around,performance_metrics=write_through"

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding
// default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getBoolEnv("LOG_JSON", true),

		// Redis configuration
		RedisEnabled:  getBoolEnv("REDIS_ENABLED", true),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		// Cache behavior
		MaxL1Size:           getEnv("CACHE_MAX_L1_SIZE", "10000"),
		DefaultTTL:          getEnv("CACHE_DEFAULT_TTL", "3600"),
		NamespaceTTLs:       getEnv("CACHE_NAMESPACE_TTLS", DefaultNamespaceTTLs),
		NamespaceStrategies: getEnv("CACHE_NAMESPACE_STRATEGIES", DefaultNamespaceStrategies),
		OpTimeout:           getEnv("CACHE_OP_TIMEOUT", "5s"),
		SweepInterval:       getEnv("CACHE_SWEEP_INTERVAL", "60s"),
		FillLock:            getBoolEnv("CACHE_FILL_LOCK", true),
		Compression:         getBoolEnv("CACHE_COMPRESSION", false),
		Encryption:          getBoolEnv("CACHE_ENCRYPTION", false),

		// Circuit breaker configuration
		BreakerMaxFailures: getEnv("BREAKER_MAX_FAILURES", "5"),
		BreakerTimeout:     getEnv("BREAKER_TIMEOUT", "30s"),
	}
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a
// default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// validStrategies enumerates the write-strategy tokens accepted in
// CACHE_NAMESPACE_STRATEGIES
var validStrategies = map[string]bool{
	"write_through": true,
	"write_back":    true,
	"write_around":  true,
	"cache_aside":   true,
}

// Validate performs comprehensive validation on the configuration to ensure
// all values are present and valid.
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
//
// Returns:
//   - error: A descriptive error if validation fails, nil if configuration is valid
func (c *Config) Validate() error {
	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// Validate Redis config if the remote tier is enabled
	if c.RedisEnabled {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when REDIS_ENABLED is true")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	// Validate cache sizing
	if size, err := strconv.Atoi(c.MaxL1Size); err != nil || size < 1 {
		return fmt.Errorf("CACHE_MAX_L1_SIZE must be a positive number")
	}
	if ttl, err := strconv.Atoi(c.DefaultTTL); err != nil || ttl < 1 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be a positive number of seconds")
	}

	// Validate the namespace TTL table
	ttls, err := ParseIntPairs(c.NamespaceTTLs)
	if err != nil {
		return fmt.Errorf("CACHE_NAMESPACE_TTLS is malformed: %v", err)
	}
	for ns, ttl := range ttls {
		if ttl < 1 {
			return fmt.Errorf("CACHE_NAMESPACE_TTLS: namespace %q must have a positive TTL", ns)
		}
	}

	// Validate the namespace strategy table
	strategies, err := ParseStringPairs(c.NamespaceStrategies)
	if err != nil {
		return fmt.Errorf("CACHE_NAMESPACE_STRATEGIES is malformed: %v", err)
	}
	for ns, strategy := range strategies {
		if !validStrategies[strings.ToLower(strategy)] {
			return fmt.Errorf("CACHE_NAMESPACE_STRATEGIES: namespace %q has unknown strategy %q", ns, strategy)
		}
	}

	// Validate durations
	if timeout, err := time.ParseDuration(c.OpTimeout); err != nil || timeout <= 0 {
		return fmt.Errorf("CACHE_OP_TIMEOUT must be a positive duration (e.g., '5s')")
	}
	if interval, err := time.ParseDuration(c.SweepInterval); err != nil || interval < 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be a non-negative duration ('0' disables)")
	}

	// Validate circuit breaker config
	if failures, err := strconv.Atoi(c.BreakerMaxFailures); err != nil || failures < 1 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be a positive number")
	}
	if timeout, err := time.ParseDuration(c.BreakerTimeout); err != nil || timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be a positive duration (e.g., '30s')")
	}

	return nil
}

// ParseIntPairs parses a "key=int,key=int" list into a map. Empty input
// yields an empty map; blank items are skipped.
func ParseIntPairs(s string) (map[string]int, error) {
	pairs := make(map[string]int)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := splitPair(item)
		if !ok {
			return nil, fmt.Errorf("item %q is not in key=value form", item)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("item %q has a non-numeric value", item)
		}
		pairs[key] = n
	}
	return pairs, nil
}

// ParseStringPairs parses a "key=value,key=value" list into a map. Empty
// input yields an empty map; blank items are skipped.
func ParseStringPairs(s string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := splitPair(item)
		if !ok {
			return nil, fmt.Errorf("item %q is not in key=value form", item)
		}
		pairs[key] = value
	}
	return pairs, nil
}

func splitPair(item string) (string, string, bool) {
	idx := strings.Index(item, "=")
	if idx <= 0 || idx == len(item)-1 {
		return "", "", false
	}
	return strings.TrimSpace(item[:idx]), strings.TrimSpace(item[idx+1:]), true
}
