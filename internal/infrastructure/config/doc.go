// Package config handles loading and validating Haven history service configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (the InfluxDB token) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - Bucket names are validated against a strict grammar at load time so user
//     configuration can never smuggle Flux syntax into generated queries
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.InfluxDB.Bucket)
package config
