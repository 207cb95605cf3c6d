package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	// SQLite driver, registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"

	"github.com/havenhome/haven-history/internal/infrastructure/config"
)

// settingsIntegration is the integration name the platform's recorder
// stores its InfluxDB connection settings under.
const settingsIntegration = "influxdb"

// SQLiteStore reads InfluxDB connection settings from the platform's
// SQLite settings database.
//
// The platform persists per-integration settings as key/value rows:
//
//	CREATE TABLE integration_settings (
//	    integration TEXT NOT NULL,
//	    key         TEXT NOT NULL,
//	    value       TEXT NOT NULL,
//	    PRIMARY KEY (integration, key)
//	);
//
// Recognised keys for the influxdb integration: url, token, org, bucket,
// timeout (seconds).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the platform settings database read-only.
//
// Parameters:
//   - path: Path to the SQLite database file
//
// Returns:
//   - *SQLiteStore: Store ready for use; callers own Close()
//   - error: If the database cannot be opened
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an existing database handle. Used by tests and by
// hosts that already hold the platform database open.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InfluxDB loads the recorder integration's stored connection settings.
//
// Returns:
//   - config.InfluxDBConfig: Connection settings with the stored values
//   - error: ErrSettingsMissing (wrapped) when no usable settings exist,
//     or a query error
func (s *SQLiteStore) InfluxDB(ctx context.Context) (config.InfluxDBConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM integration_settings WHERE integration = ?`,
		settingsIntegration,
	)
	if err != nil {
		return config.InfluxDBConfig{}, fmt.Errorf("reading integration settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return config.InfluxDBConfig{}, fmt.Errorf("scanning integration settings: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return config.InfluxDBConfig{}, fmt.Errorf("reading integration settings: %w", err)
	}

	cfg := config.InfluxDBConfig{
		URL:    settings["url"],
		Token:  settings["token"],
		Org:    settings["org"],
		Bucket: settings["bucket"],
	}

	if raw, ok := settings["timeout"]; ok {
		timeout, err := strconv.Atoi(raw)
		if err != nil || timeout < 0 {
			return config.InfluxDBConfig{}, fmt.Errorf("%w: invalid timeout %q", ErrSettingsMissing, raw)
		}
		cfg.Timeout = timeout
	}

	if cfg.URL == "" || cfg.Bucket == "" {
		return config.InfluxDBConfig{}, fmt.Errorf("%w: url and bucket are required", ErrSettingsMissing)
	}
	if !config.ValidBucket(cfg.Bucket) {
		return config.InfluxDBConfig{}, fmt.Errorf("%w: stored bucket name %q is outside the allowed grammar", ErrSettingsMissing, cfg.Bucket)
	}

	return cfg, nil
}
