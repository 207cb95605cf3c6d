// Package history implements the entity history query pipeline for the
// Haven history service.
//
// Given an entity id and a time range it builds an injection-safe Flux
// query, executes it through a backend Executor, and normalises the raw
// rows into an ordered sequence of {time, value} points.
//
// # Pipeline
//
//	ParseRequest -> BuildQuery -> Executor.Execute -> Normalize
//
// The Service type runs the pipeline end to end for one request. Each
// request is independent; nothing in this package holds state between
// calls.
//
// # Error Taxonomy
//
// Outcomes are classified with sentinel errors checked via errors.Is:
//
//   - ErrMalformedEntityID, ErrInvalidTimeRange: client errors; the
//     backend is never contacted
//   - ErrBackendUnavailable: connection, timeout, or auth failure against
//     the backend
//   - ErrInternal: anything unexpected, including backend responses this
//     package does not anticipate
//
// An empty result set is a success, not an error: Query returns an empty
// (non-nil) slice so callers serialise it as [].
//
// # Injection Safety
//
// Every value interpolated into a Flux query is either an identifier
// validated against a grammar that admits no quoting or escape characters,
// or a time.Time re-formatted as RFC 3339. No raw request substring ever
// reaches the query string.
package history
