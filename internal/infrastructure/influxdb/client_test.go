package influxdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/havenhome/haven-history/internal/credentials"
	"github.com/havenhome/haven-history/internal/infrastructure/config"
	"github.com/havenhome/haven-history/internal/infrastructure/influxdb"
)

// newBackend starts a fake InfluxDB answering /ping and, when queryHandler
// is non-nil, /api/v2/query.
func newBackend(t *testing.T, queryHandler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if queryHandler != nil {
		mux.HandleFunc("/api/v2/query", queryHandler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// testProvider wraps backend connection settings for url.
func testProvider(url string) credentials.Provider {
	return credentials.NewStatic(config.InfluxDBConfig{
		URL:     url,
		Token:   "test-token",
		Org:     "haven",
		Bucket:  "telemetry",
		Timeout: 5,
	})
}

func TestConnect(t *testing.T) {
	server := newBackend(t, nil)

	client, err := influxdb.Connect(context.Background(), testProvider(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if client.Bucket() != "telemetry" {
		t.Errorf("Bucket() = %q, want %q", client.Bucket(), "telemetry")
	}
}

func TestConnect_NilProvider(t *testing.T) {
	if _, err := influxdb.Connect(context.Background(), nil); err == nil {
		t.Error("Connect(nil provider) expected error, got nil")
	}
}

func TestConnect_IncompleteSettings(t *testing.T) {
	provider := credentials.NewStatic(config.InfluxDBConfig{URL: "http://localhost:8086"})

	_, err := influxdb.Connect(context.Background(), provider)
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_UnhealthyServer(t *testing.T) {
	// No /ping route: the ping fails and Connect must refuse.
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := influxdb.Connect(context.Background(), testProvider(server.URL))
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := influxdb.Connect(context.Background(), testProvider(url))
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := newBackend(t, nil)

	client, err := influxdb.Connect(context.Background(), testProvider(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_AfterClose(t *testing.T) {
	server := newBackend(t, nil)

	client, err := influxdb.Connect(context.Background(), testProvider(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
