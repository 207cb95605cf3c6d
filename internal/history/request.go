package history

import (
	"fmt"
	"time"
)

// ParseRequest validates raw request parameters into a QueryRequest.
//
// entityID must match the platform entity grammar (see flux.go). start and
// end are required RFC 3339 instants, UTC or with an offset; start must be
// strictly before end. Validation failures are reported without the backend
// ever being contacted.
//
// Parameters:
//   - entityID: Path parameter, e.g. "sensor.living_room_temp"
//   - start: Inclusive window start, e.g. "2025-01-10T12:00:00Z"
//   - end: Exclusive window end
//
// Returns:
//   - QueryRequest: Validated request ready for BuildQuery
//   - error: Wraps ErrMalformedEntityID or ErrInvalidTimeRange
func ParseRequest(entityID, start, end string) (QueryRequest, error) {
	if _, _, err := splitEntityID(entityID); err != nil {
		return QueryRequest{}, err
	}

	if start == "" || end == "" {
		return QueryRequest{}, fmt.Errorf("%w: start and end are required", ErrInvalidTimeRange)
	}

	startTime, err := parseInstant(start)
	if err != nil {
		return QueryRequest{}, fmt.Errorf("%w: start: %w", ErrInvalidTimeRange, err)
	}

	endTime, err := parseInstant(end)
	if err != nil {
		return QueryRequest{}, fmt.Errorf("%w: end: %w", ErrInvalidTimeRange, err)
	}

	if !startTime.Before(endTime) {
		return QueryRequest{}, fmt.Errorf("%w: start must be before end", ErrInvalidTimeRange)
	}

	return QueryRequest{
		EntityID: entityID,
		Start:    startTime,
		End:      endTime,
	}, nil
}

// parseInstant parses an RFC 3339 timestamp. Fractional seconds are
// accepted; relative expressions ("-1h", "now()") are not.
func parseInstant(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an RFC 3339 timestamp: %q", raw)
	}
	return parsed.UTC(), nil
}
