package history

import (
	"fmt"
	"strconv"
	"time"
)

// RowReader locates the time and value columns in a raw backend row.
//
// Backend schema varies per entity (tags and fields depend on what the
// recorder stored), so rows are interpreted through this capability
// interface rather than per-entity special-casing. Alternate backend
// schemas are supported by swapping implementations.
type RowReader interface {
	// Time extracts the row's timestamp. ok is false when the row has no
	// usable time column.
	Time(row RawRow) (t time.Time, ok bool)

	// Value extracts the row's scalar value. ok is false when the row has
	// no usable value column.
	Value(row RawRow) (v any, ok bool)
}

// FluxRowReader reads the fixed column names Flux emits: "_time" and
// "_value". This is the documented convention for the InfluxDB backend,
// independent of incidental column ordering.
type FluxRowReader struct{}

// Time returns the row's "_time" column.
func (FluxRowReader) Time(row RawRow) (time.Time, bool) {
	t, ok := row["_time"].(time.Time)
	return t, ok
}

// Value returns the row's "_value" column.
func (FluxRowReader) Value(row RawRow) (any, bool) {
	v, ok := row["_value"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Normalize maps raw backend rows into DataPoints, preserving source order.
//
// Rows missing either column are dropped silently: for a read-only
// analytics endpoint a partial result beats a total failure, and a
// malformed backend row is not the caller's error. Values keep their native
// scalar type (numeric stays numeric, everything else becomes its string
// representation). An empty input yields an empty, non-nil output so it
// serialises as [].
func Normalize(rows []RawRow, reader RowReader) []DataPoint {
	if reader == nil {
		reader = FluxRowReader{}
	}

	points := make([]DataPoint, 0, len(rows))
	for _, row := range rows {
		t, ok := reader.Time(row)
		if !ok {
			continue
		}
		v, ok := reader.Value(row)
		if !ok {
			continue
		}

		points = append(points, DataPoint{
			Time:  t.UTC().Format(time.RFC3339Nano),
			Value: coerceValue(v),
		})
	}

	return points
}

// coerceValue keeps numeric backend values numeric and renders everything
// else as a string. No rounding, unit conversion, or aggregation.
func coerceValue(v any) any {
	switch x := v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
