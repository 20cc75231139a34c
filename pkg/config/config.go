package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/curateproject/siteward/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (optional settings backend)
	Redis RedisConfig

	// Scoping configuration
	Scoping ScopingConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite3"
	Driver string
	URL    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// RunMigrations applies the schema migrations on startup
	RunMigrations bool
}

// RedisConfig holds the optional Redis settings backend
type RedisConfig struct {
	// Enabled switches the settings store from SQL to Redis
	Enabled  bool
	URL      string
	Password string
	DB       int
}

// ScopingConfig holds the behavior knobs of the scoping layer
type ScopingConfig struct {
	// AdminPrefix is the route-name prefix identifying admin routes
	AdminPrefix string

	// AssertionDefaultLimit is assumed for limit_to_granted_sites in
	// single-resource assertions when the user has no stored value
	AssertionDefaultLimit bool

	// FilterDefaultLimit is assumed for the same setting in query filters
	FilterDefaultLimit bool

	// SettingsCacheSize caps the in-process settings LRU; 0 disables it
	SettingsCacheSize int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		Scoping:       loadScopingConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SITEWARD_HOST", "0.0.0.0"),
		Port:            getEnv("SITEWARD_PORT", "8080"),
		ReadTimeout:     getEnvDuration("SITEWARD_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SITEWARD_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("SITEWARD_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SITEWARD_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("SITEWARD_HEALTH_PORT", "9090"),
	}
}

// loadDatabaseConfig loads relational store configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          getEnv("SITEWARD_DB_DRIVER", "postgres"),
		URL:             getEnv("SITEWARD_DB_URL", ""),
		MaxOpenConns:    getEnvInt("SITEWARD_DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("SITEWARD_DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("SITEWARD_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		RunMigrations:   getEnvBool("SITEWARD_DB_RUN_MIGRATIONS", true),
	}
}

// loadRedisConfig loads the Redis settings backend from environment
func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  getEnvBool("SITEWARD_REDIS_ENABLED", false),
		URL:      getEnv("SITEWARD_REDIS_URL", "localhost:6379"),
		Password: getEnv("SITEWARD_REDIS_PASSWORD", ""),
		DB:       getEnvInt("SITEWARD_REDIS_DB", 0),
	}
}

// loadScopingConfig loads scoping behavior from environment
func loadScopingConfig() ScopingConfig {
	return ScopingConfig{
		AdminPrefix:           getEnv("SITEWARD_ADMIN_PREFIX", "admin"),
		AssertionDefaultLimit: getEnvBool("SITEWARD_ASSERTION_DEFAULT_LIMIT", false),
		FilterDefaultLimit:    getEnvBool("SITEWARD_FILTER_DEFAULT_LIMIT", true),
		SettingsCacheSize:     getEnvInt("SITEWARD_SETTINGS_CACHE_SIZE", 1024),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("SITEWARD_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("SITEWARD_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
	case "sqlite3":
		if c.Database.URL == "" {
			return fmt.Errorf("database path is required for sqlite3")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres or sqlite3)", c.Database.Driver)
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when redis is enabled")
	}

	if c.Scoping.AdminPrefix == "" {
		return fmt.Errorf("admin route prefix is required")
	}
	if c.Scoping.SettingsCacheSize < 0 {
		return fmt.Errorf("settings cache size must not be negative")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
