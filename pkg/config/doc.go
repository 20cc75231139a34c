// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	SITEWARD_HOST="0.0.0.0"
//	SITEWARD_PORT="8080"
//	SITEWARD_HEALTH_PORT="9090"
//	SITEWARD_READ_TIMEOUT="15s"
//	SITEWARD_WRITE_TIMEOUT="15s"
//
// Database settings:
//
//	SITEWARD_DB_DRIVER="postgres"  # postgres, sqlite3
//	SITEWARD_DB_URL="postgres://localhost/siteward"
//	SITEWARD_DB_MAX_OPEN_CONNS="25"
//	SITEWARD_DB_RUN_MIGRATIONS="true"
//
// Settings backend:
//
//	SITEWARD_REDIS_ENABLED="false"
//	SITEWARD_REDIS_URL="localhost:6379"
//	SITEWARD_SETTINGS_CACHE_SIZE="1024"
//
// Scoping settings:
//
//	SITEWARD_ADMIN_PREFIX="admin"
//	SITEWARD_ASSERTION_DEFAULT_LIMIT="false"
//	SITEWARD_FILTER_DEFAULT_LIMIT="true"
//
// Observability settings:
//
//	SITEWARD_LOG_LEVEL="info"  # debug, info, warn, error
//	SITEWARD_METRICS_ENABLED="true"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
package config
