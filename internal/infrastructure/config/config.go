package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Haven history service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API         APIConfig         `yaml:"api"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// InfluxDBConfig contains InfluxDB connection settings.
//
// When credentials.source is "sqlite" these values are ignored and the
// connection settings stored by the platform's recorder integration are
// used instead (see the credentials package).
type InfluxDBConfig struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
	Timeout int    `yaml:"timeout"` // query timeout in seconds
}

// Credential source values for CredentialsConfig.Source.
const (
	CredentialSourceFile   = "file"
	CredentialSourceSQLite = "sqlite"
)

// CredentialsConfig selects where InfluxDB connection settings come from.
type CredentialsConfig struct {
	// Source is either "file" (the influxdb section of this config) or
	// "sqlite" (the platform's stored integration settings).
	Source string `yaml:"source"`

	// Path is the SQLite database file holding the platform's
	// integration settings. Required when Source is "sqlite".
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// bucketPattern is the grammar for InfluxDB bucket names. Anything outside
// it is rejected at load time so the query builder never sees a bucket name
// that could alter Flux query structure.
var bucketPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HAVENHIST_SECTION_KEY
// For example: HAVENHIST_INFLUXDB_TOKEN, HAVENHIST_API_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8093,
			Timeouts: APITimeoutConfig{
				Read:  15,
				Write: 30,
				Idle:  60,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:     "http://localhost:8086",
			Bucket:  "haven",
			Timeout: 10,
		},
		Credentials: CredentialsConfig{
			Source: CredentialSourceFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HAVENHIST_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("HAVENHIST_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB - the token should always come from the environment in production
	if v := os.Getenv("HAVENHIST_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("HAVENHIST_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("HAVENHIST_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("HAVENHIST_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// Credentials
	if v := os.Getenv("HAVENHIST_CREDENTIALS_PATH"); v != "" {
		cfg.Credentials.Path = v
	}

	// Logging
	if v := os.Getenv("HAVENHIST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled {
		if c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "" {
			errs = append(errs, "api.tls.cert_file and api.tls.key_file are required when TLS is enabled")
		}
	}

	// Credentials validation
	switch c.Credentials.Source {
	case CredentialSourceFile:
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required")
		} else if !bucketPattern.MatchString(c.InfluxDB.Bucket) {
			errs = append(errs, "influxdb.bucket may only contain letters, digits, underscores, and hyphens (max 100 characters)")
		}
	case CredentialSourceSQLite:
		if c.Credentials.Path == "" {
			errs = append(errs, "credentials.path is required when credentials.source is \"sqlite\"")
		}
	default:
		errs = append(errs, "credentials.source must be \"file\" or \"sqlite\"")
	}

	if c.InfluxDB.Timeout < 0 {
		errs = append(errs, "influxdb.timeout must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ValidBucket reports whether name is an acceptable InfluxDB bucket name.
// Exposed for the sqlite credentials provider, which loads bucket names
// after config validation has already run.
func ValidBucket(name string) bool {
	return bucketPattern.MatchString(name)
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// QueryTimeout returns the InfluxDB query timeout as a Duration.
func (c *InfluxDBConfig) QueryTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
