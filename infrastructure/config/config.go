package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration
type Config struct {
	// Remote store
	SupabaseURL     string
	SupabaseAnonKey string

	// Realtime feed
	RealtimeEnabled   bool
	HeartbeatInterval time.Duration

	// Circuit breaker around the remote gateway
	BreakerMaxFailures  int
	BreakerOpenDuration time.Duration

	// Environment
	Environment string
	LogLevel    string

	// Optional dynamic-config file watched for changes
	DynamicConfigPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),

		RealtimeEnabled:   getEnvBool("REALTIME_ENABLED", true),
		HeartbeatInterval: getEnvDuration("REALTIME_HEARTBEAT_INTERVAL", 25*time.Second),

		BreakerMaxFailures:  getEnvInt("BREAKER_MAX_FAILURES", 5),
		BreakerOpenDuration: getEnvDuration("BREAKER_OPEN_DURATION", 30*time.Second),

		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DynamicConfigPath: getEnv("DYNAMIC_CONFIG_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.BreakerMaxFailures < 1 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
