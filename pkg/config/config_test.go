package config

import (
	"os"
	"testing"
	"time"

	"github.com/curateproject/siteward/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests boolean environment parsing
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "true string", envValue: "true", defaultValue: false, want: true},
		{name: "one", envValue: "1", defaultValue: false, want: true},
		{name: "mixed case", envValue: "TRUE", defaultValue: false, want: true},
		{name: "false string", envValue: "false", defaultValue: true, want: false},
		{name: "unset uses default", envValue: "", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv("TEST_BOOL", tt.envValue)
				defer os.Unsetenv("TEST_BOOL")
			}

			got := getEnvBool("TEST_BOOL", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests duration environment parsing
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "45s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Second); got != 45*time.Second {
		t.Errorf("getEnvDuration() = %v, want 45s", got)
	}
	if got := getEnvDuration("TEST_DURATION_UNSET", time.Second); got != time.Second {
		t.Errorf("getEnvDuration() unset = %v, want 1s", got)
	}
}

// TestLoadConfigDefaults tests loading with a minimal environment
func TestLoadConfigDefaults(t *testing.T) {
	os.Setenv("SITEWARD_DB_URL", "postgres://localhost/siteward_test")
	defer os.Unsetenv("SITEWARD_DB_URL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("default driver = %v, want postgres", cfg.Database.Driver)
	}
	if cfg.Scoping.AdminPrefix != "admin" {
		t.Errorf("default admin prefix = %v, want admin", cfg.Scoping.AdminPrefix)
	}
	if cfg.Scoping.AssertionDefaultLimit {
		t.Error("assertion default limit should be false")
	}
	if !cfg.Scoping.FilterDefaultLimit {
		t.Error("filter default limit should be true")
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("default log level = %v, want info", cfg.Observability.LogLevel)
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", HealthPort: "9090"},
			Database: DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/x"},
			Scoping:  ScopingConfig{AdminPrefix: "admin"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "same ports", mutate: func(c *Config) { c.Server.HealthPort = "8080" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "missing db url", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: true},
		{name: "sqlite accepted", mutate: func(c *Config) {
			c.Database.Driver = "sqlite3"
			c.Database.URL = "/tmp/siteward.db"
		}, wantErr: false},
		{name: "redis enabled without url", mutate: func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.URL = ""
		}, wantErr: true},
		{name: "missing admin prefix", mutate: func(c *Config) { c.Scoping.AdminPrefix = "" }, wantErr: true},
		{name: "negative cache size", mutate: func(c *Config) { c.Scoping.SettingsCacheSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
