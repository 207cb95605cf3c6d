package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/havenhome/haven-history/internal/credentials"
)

// Default timeouts for InfluxDB operations.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
	defaultQueryTimeout   = 10 * time.Second
)

// Client wraps the InfluxDB v2 client as the read-only backend adapter for
// history queries.
//
// It provides connection management, query execution with error
// classification, and health monitoring. The client is long-lived: it is
// created once at startup from a credentials provider and shared by all
// in-flight requests.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	bucket   string
	token    string

	// connected tracks current connection state.
	connected bool
	mu        sync.RWMutex
}

// Connect establishes a connection to the InfluxDB server.
//
// It performs the following setup:
//  1. Reads connection settings from the credentials provider (once)
//  2. Creates the client with token authentication
//  3. Verifies connectivity with a ping
//  4. Configures the query API for the organisation
//
// Parameters:
//   - ctx: Context for cancellation during credential load and ping
//   - creds: Read-only provider of backend connection settings
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If credentials cannot be loaded or the connection fails
func Connect(ctx context.Context, creds credentials.Provider) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials provider is required")
	}

	cfg, err := creds.InfluxDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading influxdb credentials: %w", err)
	}
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: url and bucket are required", ErrConnectionFailed)
	}

	queryTimeout := cfg.QueryTimeout()
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	// #nosec G115 -- timeout validated above to be positive
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetHTTPRequestTimeout(uint(queryTimeout/time.Second)),
	)

	// Verify connectivity
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, scrubToken(err, cfg.Token))
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	return &Client{
		client:    client,
		queryAPI:  client.QueryAPI(cfg.Org),
		bucket:    cfg.Bucket,
		token:     cfg.Token,
		connected: true,
	}, nil
}

// Bucket returns the bucket this client queries.
func (c *Client) Bucket() string {
	return c.bucket
}

// Close shuts down the InfluxDB connection.
//
// Returns:
//   - error: nil (InfluxDB client Close doesn't return errors)
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.client.Close()

	return nil
}

// HealthCheck verifies the InfluxDB connection is alive and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", scrubToken(err, c.token))
	}
	if !healthy {
		return fmt.Errorf("influxdb health check failed: server not healthy")
	}

	return nil
}

// IsConnected returns the current connection state.
//
// Note: This reflects the last known state. For reliability,
// use HealthCheck which performs an active ping.
func (c *Client) IsConnected() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
