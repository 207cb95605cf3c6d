package influxdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	ihttp "github.com/influxdata/influxdb-client-go/v2/api/http"

	"github.com/havenhome/haven-history/internal/history"
)

// Execute submits one Flux query and returns the raw result rows.
//
// Each call is a single attempt; no retries happen at this layer. Failures
// are classified into the history error taxonomy: connection, timeout, and
// authentication problems wrap history.ErrBackendUnavailable, anything else
// wraps history.ErrInternal. The wrapped error carries the original cause
// and the query that triggered it for diagnostic logging, with the token
// scrubbed so credentials never reach a log line.
//
// Parameters:
//   - ctx: Request context; cancellation aborts the backend call
//   - query: The Flux query to run
//
// Returns:
//   - []history.RawRow: One map per record, column name to scalar value
//   - error: nil on success, otherwise a classified failure
func (c *Client) Execute(ctx context.Context, query string) ([]history.RawRow, error) {
	if !c.IsConnected() {
		return nil, fmt.Errorf("%w: %w", history.ErrBackendUnavailable, ErrNotConnected)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", history.ErrInternal)
	}

	result, err := c.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, c.classify(query, err)
	}

	rows := make([]history.RawRow, 0)
	for result.Next() {
		rows = append(rows, history.RawRow(result.Record().Values()))
	}
	if err := result.Err(); err != nil {
		return nil, c.classify(query, err)
	}

	return rows, nil
}

// classify maps a client library error onto the history error taxonomy.
//
// The returned error includes the triggering query (safe: it contains only
// grammar-validated identifiers and timestamps) but never the token.
func (c *Client) classify(query string, err error) error {
	cause := scrubToken(err, c.token)

	var httpErr *ihttp.Error
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: authentication rejected: %w (query: %s)", history.ErrBackendUnavailable, cause, query)
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: server error: %w (query: %s)", history.ErrBackendUnavailable, cause, query)
		default:
			return fmt.Errorf("%w: query rejected: %w (query: %s)", history.ErrInternal, cause, query)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w (query: %s)", history.ErrBackendUnavailable, cause, query)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w (query: %s)", history.ErrBackendUnavailable, cause, query)
	}

	return fmt.Errorf("%w: %w (query: %s)", history.ErrInternal, cause, query)
}

// scrubToken removes the configured token from an error's text. The client
// library does not normally echo credentials, but error bodies are beyond
// our control and these messages end up in logs.
func scrubToken(err error, token string) error {
	if err == nil || token == "" {
		return err
	}

	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, token, "[redacted]"))
}
