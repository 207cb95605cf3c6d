// Package influxdb provides read-only InfluxDB connectivity for the Haven
// history service.
//
// It wraps the official influxdb-client-go v2 library as the backend
// adapter for entity history queries: connection management, Flux query
// execution, error classification, and health monitoring. The service
// never writes to the backend.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	rows, err := client.Execute(ctx, fluxQuery)
//
// Connection settings (URL, token, org, bucket) come from a
// credentials.Provider and are read exactly once at Connect.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines. The
// underlying client multiplexes concurrent queries over one HTTP client,
// so callers never need to synchronise around it.
//
// # Error Handling
//
// Execute classifies failures into the history error taxonomy: connection,
// timeout, and authentication failures wrap history.ErrBackendUnavailable;
// everything else wraps history.ErrInternal. Error context carries the
// original cause and the triggering query but never the token.
package influxdb
