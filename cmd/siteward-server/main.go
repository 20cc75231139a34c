package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/curateproject/siteward/pkg/api"
	"github.com/curateproject/siteward/pkg/config"
	"github.com/curateproject/siteward/pkg/content"
	"github.com/curateproject/siteward/pkg/observability"
	"github.com/curateproject/siteward/pkg/settings"
)

func main() {
	startup := logrus.New()
	startup.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		startup.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		startup.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.Database.RunMigrations {
		if err := content.RunMigrations(ctx, db); err != nil {
			startup.Fatalf("Failed to run migrations: %v", err)
		}
		startup.Info("Schema migrations applied")
	}

	store, err := buildSettingsStore(cfg, db)
	if err != nil {
		startup.Fatalf("Failed to build settings store: %v", err)
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	server := api.NewServer(db, store, api.Options{
		AdminPrefix:           cfg.Scoping.AdminPrefix,
		AssertionDefaultLimit: cfg.Scoping.AssertionDefaultLimit,
		FilterDefaultLimit:    cfg.Scoping.FilterDefaultLimit,
		Logger:                logger,
		Metrics:               metrics,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.Handle("/metrics", observability.Handler(nil))
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	go func() {
		startup.Infof("Metrics server listening on :%s", cfg.Server.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			startup.Errorf("Metrics server error: %v", err)
		}
	}()

	go func() {
		startup.Infof("Siteward server listening on :%s", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			startup.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	startup.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		startup.Errorf("API server shutdown error: %v", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		startup.Errorf("Metrics server shutdown error: %v", err)
	}
	startup.Info("Shutdown complete")
}

// openDatabase opens and verifies the relational store.
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// buildSettingsStore assembles the settings backend: SQL by default, Redis
// when enabled, with an in-process LRU on top when sized.
func buildSettingsStore(cfg *config.Config, db *sql.DB) (settings.Store, error) {
	var backend settings.Store = settings.NewSQLStore(db)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		backend = settings.NewRedisStore(client)
	}

	if cfg.Scoping.SettingsCacheSize > 0 {
		return settings.NewCachedStore(backend, cfg.Scoping.SettingsCacheSize)
	}
	return backend, nil
}
