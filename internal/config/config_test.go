package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clear environment variables to test defaults
	clearTestEnvVars()

	config := Load()

	// Test default values
	if config.Port != "8080" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "8080")
	}

	if config.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", config.LogLevel, "info")
	}

	if !config.LogJSON {
		t.Errorf("Load() LogJSON = %v, want %v", config.LogJSON, true)
	}

	// Test Redis defaults
	if !config.RedisEnabled {
		t.Errorf("Load() RedisEnabled = %v, want %v", config.RedisEnabled, true)
	}

	if config.RedisAddress != "localhost:6379" {
		t.Errorf("Load() RedisAddress = %v, want %v", config.RedisAddress, "localhost:6379")
	}

	if config.RedisPassword != "" {
		t.Errorf("Load() RedisPassword = %v, want empty", config.RedisPassword)
	}

	if config.RedisDB != "0" {
		t.Errorf("Load() RedisDB = %v, want %v", config.RedisDB, "0")
	}

	if config.RedisPoolSize != "10" {
		t.Errorf("Load() RedisPoolSize = %v, want %v", config.RedisPoolSize, "10")
	}

	// Test cache behavior defaults
	if config.MaxL1Size != "10000" {
		t.Errorf("Load() MaxL1Size = %v, want %v", config.MaxL1Size, "10000")
	}

	if config.DefaultTTL != "3600" {
		t.Errorf("Load() DefaultTTL = %v, want %v", config.DefaultTTL, "3600")
	}

	if config.NamespaceTTLs != DefaultNamespaceTTLs {
		t.Errorf("Load() NamespaceTTLs = %v, want %v", config.NamespaceTTLs, DefaultNamespaceTTLs)
	}

	if config.NamespaceStrategies != DefaultNamespaceStrategies {
		t.Errorf("Load() NamespaceStrategies = %v, want %v", config.NamespaceStrategies, DefaultNamespaceStrategies)
	}

	if config.OpTimeout != "5s" {
		t.Errorf("Load() OpTimeout = %v, want %v", config.OpTimeout, "5s")
	}

	if config.SweepInterval != "60s" {
		t.Errorf("Load() SweepInterval = %v, want %v", config.SweepInterval, "60s")
	}

	if !config.FillLock {
		t.Errorf("Load() FillLock = %v, want %v", config.FillLock, true)
	}

	if config.Compression {
		t.Errorf("Load() Compression = %v, want %v", config.Compression, false)
	}

	if config.Encryption {
		t.Errorf("Load() Encryption = %v, want %v", config.Encryption, false)
	}

	// Test circuit breaker defaults
	if config.BreakerMaxFailures != "5" {
		t.Errorf("Load() BreakerMaxFailures = %v, want %v", config.BreakerMaxFailures, "5")
	}

	if config.BreakerTimeout != "30s" {
		t.Errorf("Load() BreakerTimeout = %v, want %v", config.BreakerTimeout, "30s")
	}
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	// Set environment variables
	envVars := map[string]string{
		"PORT":                       "9090",
		"LOG_LEVEL":                  "debug",
		"LOG_JSON":                   "false",
		"REDIS_ENABLED":              "false",
		"REDIS_ADDRESS":              "redis:6379",
		"REDIS_PASSWORD":             "redis-secret",
		"REDIS_DB":                   "2",
		"REDIS_POOL_SIZE":            "20",
		"CACHE_MAX_L1_SIZE":          "500",
		"CACHE_DEFAULT_TTL":          "120",
		"CACHE_NAMESPACE_TTLS":       "reports=60",
		"CACHE_NAMESPACE_STRATEGIES": "reports=write_around",
		"CACHE_OP_TIMEOUT":           "2s",
		"CACHE_SWEEP_INTERVAL":       "0",
		"CACHE_FILL_LOCK":            "false",
		"CACHE_COMPRESSION":          "true",
		"CACHE_ENCRYPTION":           "true",
		"BREAKER_MAX_FAILURES":       "3",
		"BREAKER_TIMEOUT":            "10s",
	}

	setTestEnvVars(envVars)
	defer clearTestEnvVars()

	config := Load()

	// Verify all environment variables were loaded correctly
	if config.Port != "9090" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "9090")
	}

	if config.LogLevel != "debug" {
		t.Errorf("Load() LogLevel = %v, want %v", config.LogLevel, "debug")
	}

	if config.LogJSON {
		t.Errorf("Load() LogJSON = %v, want %v", config.LogJSON, false)
	}

	if config.RedisEnabled {
		t.Errorf("Load() RedisEnabled = %v, want %v", config.RedisEnabled, false)
	}

	if config.RedisAddress != "redis:6379" {
		t.Errorf("Load() RedisAddress = %v, want %v", config.RedisAddress, "redis:6379")
	}

	if config.RedisPassword != "redis-secret" {
		t.Errorf("Load() RedisPassword = %v, want %v", config.RedisPassword, "redis-secret")
	}

	if config.RedisDB != "2" {
		t.Errorf("Load() RedisDB = %v, want %v", config.RedisDB, "2")
	}

	if config.RedisPoolSize != "20" {
		t.Errorf("Load() RedisPoolSize = %v, want %v", config.RedisPoolSize, "20")
	}

	if config.MaxL1Size != "500" {
		t.Errorf("Load() MaxL1Size = %v, want %v", config.MaxL1Size, "500")
	}

	if config.DefaultTTL != "120" {
		t.Errorf("Load() DefaultTTL = %v, want %v", config.DefaultTTL, "120")
	}

	if config.NamespaceTTLs != "reports=60" {
		t.Errorf("Load() NamespaceTTLs = %v, want %v", config.NamespaceTTLs, "reports=60")
	}

	if config.NamespaceStrategies != "reports=write_around" {
		t.Errorf("Load() NamespaceStrategies = %v, want %v", config.NamespaceStrategies, "reports=write_around")
	}

	if config.OpTimeout != "2s" {
		t.Errorf("Load() OpTimeout = %v, want %v", config.OpTimeout, "2s")
	}

	if config.SweepInterval != "0" {
		t.Errorf("Load() SweepInterval = %v, want %v", config.SweepInterval, "0")
	}

	if config.FillLock {
		t.Errorf("Load() FillLock = %v, want %v", config.FillLock, false)
	}

	if !config.Compression {
		t.Errorf("Load() Compression = %v, want %v", config.Compression, true)
	}

	if !config.Encryption {
		t.Errorf("Load() Encryption = %v, want %v", config.Encryption, true)
	}

	if config.BreakerMaxFailures != "3" {
		t.Errorf("Load() BreakerMaxFailures = %v, want %v", config.BreakerMaxFailures, "3")
	}

	if config.BreakerTimeout != "10s" {
		t.Errorf("Load() BreakerTimeout = %v, want %v", config.BreakerTimeout, "10s")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "environment variable exists",
			key:          "TEST_KEY_EXISTS",
			envValue:     "test-value",
			defaultValue: "default-value",
			expected:     "test-value",
		},
		{
			name:         "environment variable empty",
			key:          "TEST_KEY_EMPTY",
			envValue:     "",
			defaultValue: "default-value",
			expected:     "default-value",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_KEY_NOT_SET",
			envValue:     "",
			defaultValue: "default-value",
			expected:     "default-value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{
			name:         "true value",
			key:          "TEST_BOOL_TRUE",
			envValue:     "true",
			defaultValue: false,
			expected:     true,
		},
		{
			name:         "false value",
			key:          "TEST_BOOL_FALSE",
			envValue:     "false",
			defaultValue: true,
			expected:     false,
		},
		{
			name:         "1 value",
			key:          "TEST_BOOL_ONE",
			envValue:     "1",
			defaultValue: false,
			expected:     true,
		},
		{
			name:         "0 value",
			key:          "TEST_BOOL_ZERO",
			envValue:     "0",
			defaultValue: true,
			expected:     false,
		},
		{
			name:         "invalid value uses default",
			key:          "TEST_BOOL_INVALID",
			envValue:     "invalid",
			defaultValue: true,
			expected:     true,
		},
		{
			name:         "not set uses default",
			key:          "TEST_BOOL_NOT_SET",
			envValue:     "",
			defaultValue: true,
			expected:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getBoolEnv(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.key, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

// validTestConfig returns a configuration that passes Validate. Cases mutate
// a copy to isolate the field under test.
func validTestConfig() *Config {
	return &Config{
		Port:                "8080",
		LogLevel:            "info",
		LogJSON:             true,
		RedisEnabled:        true,
		RedisAddress:        "localhost:6379",
		RedisDB:             "0",
		RedisPoolSize:       "10",
		MaxL1Size:           "10000",
		DefaultTTL:          "3600",
		NamespaceTTLs:       DefaultNamespaceTTLs,
		NamespaceStrategies: DefaultNamespaceStrategies,
		OpTimeout:           "5s",
		SweepInterval:       "60s",
		FillLock:            true,
		BreakerMaxFailures:  "5",
		BreakerTimeout:      "30s",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		wantError     bool
		errorContains string
	}{
		{
			name:      "valid default config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name: "invalid port",
			mutate: func(c *Config) {
				c.Port = "invalid"
			},
			wantError:     true,
			errorContains: "PORT must be a valid port number",
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.Port = "70000"
			},
			wantError:     true,
			errorContains: "PORT must be a valid port number",
		},
		{
			name: "missing redis address",
			mutate: func(c *Config) {
				c.RedisAddress = ""
			},
			wantError:     true,
			errorContains: "REDIS_ADDRESS is required",
		},
		{
			name: "redis disabled skips redis checks",
			mutate: func(c *Config) {
				c.RedisEnabled = false
				c.RedisAddress = ""
				c.RedisDB = "not-a-number"
			},
			wantError: false,
		},
		{
			name: "invalid redis db",
			mutate: func(c *Config) {
				c.RedisDB = "16"
			},
			wantError:     true,
			errorContains: "REDIS_DB must be a number between 0 and 15",
		},
		{
			name: "invalid redis pool size",
			mutate: func(c *Config) {
				c.RedisPoolSize = "0"
			},
			wantError:     true,
			errorContains: "REDIS_POOL_SIZE must be a positive number",
		},
		{
			name: "invalid max L1 size",
			mutate: func(c *Config) {
				c.MaxL1Size = "0"
			},
			wantError:     true,
			errorContains: "CACHE_MAX_L1_SIZE must be a positive number",
		},
		{
			name: "invalid default TTL",
			mutate: func(c *Config) {
				c.DefaultTTL = "-5"
			},
			wantError:     true,
			errorContains: "CACHE_DEFAULT_TTL must be a positive number",
		},
		{
			name: "malformed namespace TTLs",
			mutate: func(c *Config) {
				c.NamespaceTTLs = "sessions"
			},
			wantError:     true,
			errorContains: "CACHE_NAMESPACE_TTLS is malformed",
		},
		{
			name: "non-numeric namespace TTL",
			mutate: func(c *Config) {
				c.NamespaceTTLs = "sessions=soon"
			},
			wantError:     true,
			errorContains: "CACHE_NAMESPACE_TTLS is malformed",
		},
		{
			name: "non-positive namespace TTL",
			mutate: func(c *Config) {
				c.NamespaceTTLs = "sessions=0"
			},
			wantError:     true,
			errorContains: "must have a positive TTL",
		},
		{
			name: "malformed namespace strategies",
			mutate: func(c *Config) {
				c.NamespaceStrategies = "=write_through"
			},
			wantError:     true,
			errorContains: "CACHE_NAMESPACE_STRATEGIES is malformed",
		},
		{
			name: "unknown strategy",
			mutate: func(c *Config) {
				c.NamespaceStrategies = "sessions=write_sideways"
			},
			wantError:     true,
			errorContains: "unknown strategy",
		},
		{
			name: "invalid op timeout",
			mutate: func(c *Config) {
				c.OpTimeout = "fast"
			},
			wantError:     true,
			errorContains: "CACHE_OP_TIMEOUT must be a positive duration",
		},
		{
			name: "zero op timeout",
			mutate: func(c *Config) {
				c.OpTimeout = "0"
			},
			wantError:     true,
			errorContains: "CACHE_OP_TIMEOUT must be a positive duration",
		},
		{
			name: "zero sweep interval disables sweeping",
			mutate: func(c *Config) {
				c.SweepInterval = "0"
			},
			wantError: false,
		},
		{
			name: "negative sweep interval",
			mutate: func(c *Config) {
				c.SweepInterval = "-1m"
			},
			wantError:     true,
			errorContains: "CACHE_SWEEP_INTERVAL must be a non-negative duration",
		},
		{
			name: "invalid breaker failures",
			mutate: func(c *Config) {
				c.BreakerMaxFailures = "0"
			},
			wantError:     true,
			errorContains: "BREAKER_MAX_FAILURES must be a positive number",
		},
		{
			name: "invalid breaker timeout",
			mutate: func(c *Config) {
				c.BreakerTimeout = "soon"
			},
			wantError:     true,
			errorContains: "BREAKER_TIMEOUT must be a positive duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)

			err := config.Validate()

			if tt.wantError {
				if err == nil {
					t.Errorf("Config.Validate() expected error but got none")
				} else if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Config.Validate() error = %v, should contain %q", err, tt.errorContains)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestParseIntPairs(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  map[string]int
		wantError bool
	}{
		{
			name:     "single pair",
			input:    "sessions=300",
			expected: map[string]int{"sessions": 300},
		},
		{
			name:     "multiple pairs with spaces",
			input:    "sessions=300, reports=60",
			expected: map[string]int{"sessions": 300, "reports": 60},
		},
		{
			name:     "empty input",
			input:    "",
			expected: map[string]int{},
		},
		{
			name:     "trailing comma",
			input:    "sessions=300,",
			expected: map[string]int{"sessions": 300},
		},
		{
			name:      "missing separator",
			input:     "sessions",
			wantError: true,
		},
		{
			name:      "missing value",
			input:     "sessions=",
			wantError: true,
		},
		{
			name:      "missing key",
			input:     "=300",
			wantError: true,
		},
		{
			name:      "non-numeric value",
			input:     "sessions=soon",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseIntPairs(tt.input)

			if tt.wantError {
				if err == nil {
					t.Errorf("ParseIntPairs(%q) expected error but got none", tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseIntPairs(%q) unexpected error = %v", tt.input, err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseIntPairs(%q) = %v, want %v", tt.input, result, tt.expected)
			}
			for key, want := range tt.expected {
				if result[key] != want {
					t.Errorf("ParseIntPairs(%q)[%q] = %v, want %v", tt.input, key, result[key], want)
				}
			}
		})
	}
}

func TestParseStringPairs(t *testing.T) {
	result, err := ParseStringPairs("sessions=write_back, reports = write_around")
	if err != nil {
		t.Fatalf("ParseStringPairs() unexpected error = %v", err)
	}

	if result["sessions"] != "write_back" {
		t.Errorf("ParseStringPairs() sessions = %v, want write_back", result["sessions"])
	}
	if result["reports"] != "write_around" {
		t.Errorf("ParseStringPairs() reports = %v, want write_around", result["reports"])
	}

	if _, err := ParseStringPairs("sessions"); err == nil {
		t.Errorf("ParseStringPairs() expected error for input without separator")
	}
}

// Helper functions for environment variable management
func setTestEnvVars(vars map[string]string) {
	for key, value := range vars {
		os.Setenv(key, value)
	}
}

func clearTestEnvVars() {
	testKeys := []string{
		"PORT", "LOG_LEVEL", "LOG_JSON",
		"REDIS_ENABLED", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
		"CACHE_MAX_L1_SIZE", "CACHE_DEFAULT_TTL", "CACHE_NAMESPACE_TTLS",
		"CACHE_NAMESPACE_STRATEGIES", "CACHE_OP_TIMEOUT", "CACHE_SWEEP_INTERVAL",
		"CACHE_FILL_LOCK", "CACHE_COMPRESSION", "CACHE_ENCRYPTION",
		"BREAKER_MAX_FAILURES", "BREAKER_TIMEOUT",
		// Test environment variables
		"TEST_KEY_EXISTS", "TEST_KEY_EMPTY", "TEST_BOOL_TRUE", "TEST_BOOL_FALSE",
		"TEST_BOOL_ONE", "TEST_BOOL_ZERO", "TEST_BOOL_INVALID",
	}

	for _, key := range testKeys {
		os.Unsetenv(key)
	}
}

// Benchmark tests
func BenchmarkLoad(b *testing.B) {
	clearTestEnvVars()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Load()
	}
}

func BenchmarkConfig_Validate(b *testing.B) {
	config := validTestConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = config.Validate()
	}
}

func BenchmarkGetEnv(b *testing.B) {
	os.Setenv("BENCH_TEST_KEY", "test-value")
	defer os.Unsetenv("BENCH_TEST_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnv("BENCH_TEST_KEY", "default")
	}
}

func BenchmarkGetBoolEnv(b *testing.B) {
	os.Setenv("BENCH_TEST_BOOL", "true")
	defer os.Unsetenv("BENCH_TEST_BOOL")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getBoolEnv("BENCH_TEST_BOOL", false)
	}
}
