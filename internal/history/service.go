package history

import (
	"context"
	"errors"
	"fmt"
)

// Executor submits one Flux query to the time-series backend and returns
// its raw rows. Implementations make a single attempt per call; retry
// policy is deliberately out of scope. Execution failures are reported
// wrapping ErrBackendUnavailable or ErrInternal.
//
// Implementations must be safe for concurrent use by multiple in-flight
// requests.
type Executor interface {
	Execute(ctx context.Context, query string) ([]RawRow, error)
}

// Service runs the history query pipeline for one request at a time.
//
// It holds no per-request state, so one Service instance serves all
// requests concurrently.
type Service struct {
	bucket string
	exec   Executor
	reader RowReader
}

// NewService creates a Service querying the given bucket through exec.
// A nil reader selects the default FluxRowReader.
func NewService(bucket string, exec Executor, reader RowReader) (*Service, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if reader == nil {
		reader = FluxRowReader{}
	}

	return &Service{
		bucket: bucket,
		exec:   exec,
		reader: reader,
	}, nil
}

// Query runs the full pipeline: parse, build, execute, normalise.
//
// Invalid input is rejected before the backend is contacted. Executor
// failures pass through when already classified and are wrapped as
// ErrInternal otherwise. A query matching no rows (including an unknown
// entity id) returns an empty, non-nil slice and a nil error.
//
// Parameters:
//   - ctx: Request context; cancellation propagates to the backend call
//   - entityID, start, end: Raw request parameters
//
// Returns:
//   - []DataPoint: Points in source (time-ascending) order
//   - error: Wraps one of the package sentinel errors
func (s *Service) Query(ctx context.Context, entityID, start, end string) ([]DataPoint, error) {
	req, err := ParseRequest(entityID, start, end)
	if err != nil {
		return nil, err
	}

	query, err := BuildQuery(s.bucket, req)
	if err != nil {
		return nil, err
	}

	rows, err := s.exec.Execute(ctx, query)
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return Normalize(rows, s.reader), nil
}
