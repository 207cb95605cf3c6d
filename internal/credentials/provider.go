package credentials

import (
	"context"
	"errors"

	"github.com/havenhome/haven-history/internal/infrastructure/config"
)

// ErrSettingsMissing indicates the backing store holds no usable InfluxDB
// connection settings.
var ErrSettingsMissing = errors.New("credentials: influxdb settings missing")

// Provider supplies backend connection settings.
//
// InfluxDB is called once, at adapter construction; providers do not need
// to support refresh and must never log or otherwise expose the token.
type Provider interface {
	InfluxDB(ctx context.Context) (config.InfluxDBConfig, error)
}

// Static is a Provider backed by an already-loaded configuration section.
type Static struct {
	cfg config.InfluxDBConfig
}

// NewStatic creates a Static provider wrapping cfg.
func NewStatic(cfg config.InfluxDBConfig) *Static {
	return &Static{cfg: cfg}
}

// InfluxDB returns the wrapped configuration.
func (s *Static) InfluxDB(_ context.Context) (config.InfluxDBConfig, error) {
	return s.cfg, nil
}
