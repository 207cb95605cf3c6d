package history

import "time"

// QueryRequest is a validated history query: one entity, one time window.
//
// Start is inclusive and End exclusive, matching Flux range() semantics.
// Invariant: Start is strictly before End and both are absolute instants.
type QueryRequest struct {
	EntityID string
	Start    time.Time
	End      time.Time
}

// RawRow is one row of backend output: column name to scalar value.
// The column layout is not fixed; it depends on the tags and fields the
// recorder stored for the entity. Rows are interpreted through a RowReader.
type RawRow map[string]any

// DataPoint is the normalised {time, value} unit returned to callers.
//
// Time is an RFC 3339 instant. Value is a JSON number for numeric backend
// values and a string for everything else; no coercion beyond that is
// performed.
type DataPoint struct {
	Time  string `json:"time"`
	Value any    `json:"value"`
}
