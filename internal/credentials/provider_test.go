package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/havenhome/haven-history/internal/infrastructure/config"
)

func TestStatic(t *testing.T) {
	want := config.InfluxDBConfig{
		URL:    "http://localhost:8086",
		Token:  "secret",
		Org:    "haven",
		Bucket: "telemetry",
	}

	got, err := NewStatic(want).InfluxDB(context.Background())
	if err != nil {
		t.Fatalf("InfluxDB() error = %v", err)
	}
	if got != want {
		t.Errorf("InfluxDB() = %+v, want %+v", got, want)
	}
}

// setupSettingsDB creates an in-memory settings database with the platform's
// integration_settings schema.
func setupSettingsDB(t *testing.T, settings map[string]string) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE integration_settings (
			integration TEXT NOT NULL,
			key         TEXT NOT NULL,
			value       TEXT NOT NULL,
			PRIMARY KEY (integration, key)
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	for key, value := range settings {
		if _, err := db.Exec(
			`INSERT INTO integration_settings (integration, key, value) VALUES ('influxdb', ?, ?)`,
			key, value,
		); err != nil {
			t.Fatalf("failed to insert setting %q: %v", key, err)
		}
	}

	return NewSQLiteStore(db)
}

func TestSQLiteStore_InfluxDB(t *testing.T) {
	store := setupSettingsDB(t, map[string]string{
		"url":     "http://influx.local:8086",
		"token":   "recorder-token",
		"org":     "haven",
		"bucket":  "telemetry",
		"timeout": "15",
	})

	cfg, err := store.InfluxDB(context.Background())
	if err != nil {
		t.Fatalf("InfluxDB() error = %v", err)
	}

	if cfg.URL != "http://influx.local:8086" {
		t.Errorf("URL = %q, want %q", cfg.URL, "http://influx.local:8086")
	}
	if cfg.Token != "recorder-token" {
		t.Errorf("Token = %q, want %q", cfg.Token, "recorder-token")
	}
	if cfg.Bucket != "telemetry" {
		t.Errorf("Bucket = %q, want %q", cfg.Bucket, "telemetry")
	}
	if cfg.Timeout != 15 {
		t.Errorf("Timeout = %d, want 15", cfg.Timeout)
	}
}

func TestSQLiteStore_InfluxDB_MissingSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{name: "empty table", settings: nil},
		{name: "missing url", settings: map[string]string{"bucket": "telemetry"}},
		{name: "missing bucket", settings: map[string]string{"url": "http://localhost:8086"}},
		{
			name: "bucket outside grammar",
			settings: map[string]string{
				"url":    "http://localhost:8086",
				"bucket": `tele"metry`,
			},
		},
		{
			name: "invalid timeout",
			settings: map[string]string{
				"url":     "http://localhost:8086",
				"bucket":  "telemetry",
				"timeout": "soon",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupSettingsDB(t, tt.settings)

			_, err := store.InfluxDB(context.Background())
			if !errors.Is(err, ErrSettingsMissing) {
				t.Errorf("InfluxDB() error = %v, want ErrSettingsMissing", err)
			}
		})
	}
}

func TestSQLiteStore_InfluxDB_IgnoresOtherIntegrations(t *testing.T) {
	store := setupSettingsDB(t, map[string]string{
		"url":    "http://influx.local:8086",
		"bucket": "telemetry",
	})

	if _, err := store.db.Exec(
		`INSERT INTO integration_settings (integration, key, value) VALUES ('mqtt', 'url', 'tcp://broker:1883')`,
	); err != nil {
		t.Fatalf("failed to insert foreign setting: %v", err)
	}

	cfg, err := store.InfluxDB(context.Background())
	if err != nil {
		t.Fatalf("InfluxDB() error = %v", err)
	}
	if cfg.URL != "http://influx.local:8086" {
		t.Errorf("URL = %q, want the influxdb integration's url", cfg.URL)
	}
}
