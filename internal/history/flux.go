package history

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Entity id grammar: "domain.object", lowercase letters, digits, and
// underscores on both sides of a single dot. This matches the platform's
// entity naming rules and, because it admits no quote, backslash, or
// whitespace characters, any value that passes it is safe to interpolate
// into a quoted Flux string literal verbatim.
var entityIDPattern = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)

// bucketNamePattern mirrors the grammar the config layer enforces at load
// time. Checked again here so the builder is safe even with a caller that
// skipped config validation (e.g. credentials loaded from the platform store).
var bucketNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)

const (
	maxDomainLen = 50
	maxObjectLen = 100

	// stateField is the field the platform's recorder integration writes
	// entity state values under.
	stateField = "value"
)

// splitEntityID validates an entity id against the platform grammar and
// splits it into its domain and object parts.
func splitEntityID(entityID string) (domain, object string, err error) {
	if !entityIDPattern.MatchString(entityID) {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedEntityID, entityID)
	}

	domain, object, _ = strings.Cut(entityID, ".")
	if len(domain) > maxDomainLen {
		return "", "", fmt.Errorf("%w: domain exceeds %d characters", ErrMalformedEntityID, maxDomainLen)
	}
	if len(object) > maxObjectLen {
		return "", "", fmt.Errorf("%w: object exceeds %d characters", ErrMalformedEntityID, maxObjectLen)
	}

	return domain, object, nil
}

// BuildQuery produces the Flux query for one validated request.
//
// The query is scoped to exactly one bucket, one measurement (the entity
// domain), one entity_id tag, and one inclusive-exclusive time window, and
// keeps only the columns needed to reconstruct time and value. It is a pure
// function of its inputs.
//
// Injection safety is an invariant, not best-effort: the bucket and entity
// parts are grammar-validated identifiers, and the window bounds are
// time.Time values re-formatted as RFC 3339, so no request substring can
// alter the query structure.
//
// Parameters:
//   - bucket: The backend bucket holding the platform's recorded state
//   - req: Validated request (see ParseRequest)
//
// Returns:
//   - string: The Flux query
//   - error: Wraps ErrMalformedEntityID, ErrInvalidTimeRange, or ErrInternal
//     (the latter for a bucket name outside the configured grammar)
func BuildQuery(bucket string, req QueryRequest) (string, error) {
	if !bucketNamePattern.MatchString(bucket) {
		return "", fmt.Errorf("%w: invalid bucket name", ErrInternal)
	}

	domain, object, err := splitEntityID(req.EntityID)
	if err != nil {
		return "", err
	}

	if req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return "", fmt.Errorf("%w: start must be before end", ErrInvalidTimeRange)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "from(bucket: %q)\n", bucket)
	fmt.Fprintf(&b, "  |> range(start: %s, stop: %s)\n", formatInstant(req.Start), formatInstant(req.End))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r[\"_measurement\"] == %q and r[\"entity_id\"] == %q and r[\"_field\"] == %q)\n",
		domain, object, stateField)
	b.WriteString("  |> keep(columns: [\"_time\", \"_value\"])")

	return b.String(), nil
}

// formatInstant renders a timestamp as an RFC 3339 Flux time literal.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
