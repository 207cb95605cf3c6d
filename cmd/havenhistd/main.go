// Haven History - entity history query service
//
// This is the main entry point for the Haven history daemon. It exposes
// recorded entity state from the platform's InfluxDB time-series store
// over a small read-only HTTP API, for dashboards and wall panels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/havenhome/haven-history/internal/api"
	"github.com/havenhome/haven-history/internal/credentials"
	"github.com/havenhome/haven-history/internal/history"
	"github.com/havenhome/haven-history/internal/infrastructure/config"
	"github.com/havenhome/haven-history/internal/infrastructure/influxdb"
	"github.com/havenhome/haven-history/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Haven History",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Resolve the credentials provider
	provider, err := buildCredentialsProvider(cfg, log)
	if err != nil {
		return fmt.Errorf("resolving credentials: %w", err)
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				log.Error("error closing credentials store", "error", closeErr)
			}
		}()
	}

	// Connect to InfluxDB
	influxClient, err := influxdb.Connect(ctx, provider)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	defer func() {
		log.Info("closing InfluxDB connection")
		influxClient.Close()
	}()
	log.Info("InfluxDB connected", "bucket", influxClient.Bucket())

	// Wire the query pipeline
	historyService, err := history.NewService(influxClient.Bucket(), influxClient, nil)
	if err != nil {
		return fmt.Errorf("creating history service: %w", err)
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		History: historyService,
		Backend: influxClient,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Periodic backend health check so connection loss shows up in the logs
	// rather than only as failed queries.
	go healthCheckLoop(ctx, influxClient, log)

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB
	// 3. Credentials store (if sqlite)

	log.Info("Haven History stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HAVENHIST_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HAVENHIST_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheckInterval is how often the backend connection is probed.
const healthCheckInterval = 60 * time.Second

// healthCheckLoop pings the backend until ctx is cancelled, logging state
// transitions.
func healthCheckLoop(ctx context.Context, client *influxdb.Client, log *logging.Logger) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.HealthCheck(ctx); err != nil {
				if healthy {
					log.Error("InfluxDB health check failed", "error", err)
				}
				healthy = false
			} else {
				if !healthy {
					log.Info("InfluxDB connection recovered")
				}
				healthy = true
			}
		}
	}
}

// buildCredentialsProvider selects where InfluxDB connection settings come
// from: the config file itself, or the platform's stored integration
// settings in SQLite.
func buildCredentialsProvider(cfg *config.Config, log *logging.Logger) (credentials.Provider, error) {
	switch cfg.Credentials.Source {
	case config.CredentialSourceSQLite:
		store, err := credentials.OpenSQLiteStore(cfg.Credentials.Path)
		if err != nil {
			return nil, fmt.Errorf("opening settings database: %w", err)
		}
		log.Info("using stored integration settings", "path", cfg.Credentials.Path)
		return store, nil
	default:
		return credentials.NewStatic(cfg.InfluxDB), nil
	}
}
