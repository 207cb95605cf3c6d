// Package credentials supplies InfluxDB connection settings to the backend
// adapter.
//
// The history service does not own the backend credentials: they belong to
// the platform's recorder integration, which writes entity state to
// InfluxDB in the first place. This package models that sharing as a
// read-only Provider interface, read exactly once at adapter construction,
// so the core stays decoupled from any particular configuration-storage
// mechanism.
//
// Two implementations ship:
//
//   - Static: wraps the influxdb section of this service's own config file
//   - SQLiteStore: reads the connection settings the recorder integration
//     persisted in the platform's SQLite settings table
package credentials
