package history

import "errors"

// Sentinel errors classifying history query outcomes.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, history.ErrBackendUnavailable) {
//	    // Surface a generic 500 and log the cause
//	}
var (
	// ErrMalformedEntityID indicates the entity id violates the platform's
	// entity naming grammar.
	ErrMalformedEntityID = errors.New("history: malformed entity id")

	// ErrInvalidTimeRange indicates start/end are missing, unparseable, or
	// do not satisfy start < end.
	ErrInvalidTimeRange = errors.New("history: invalid time range")

	// ErrBackendUnavailable indicates a connection, timeout, or
	// authentication failure against the time-series backend.
	ErrBackendUnavailable = errors.New("history: backend unavailable")

	// ErrInternal classifies any other pipeline failure, including query
	// construction faults and unrecognised backend errors.
	ErrInternal = errors.New("history: internal fault")
)

// IsInvalidInput reports whether err is a client input error, i.e. the
// request can be corrected by the caller and the backend was never contacted.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrMalformedEntityID) || errors.Is(err, ErrInvalidTimeRange)
}
