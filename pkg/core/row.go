package core

import (
	"strconv"
	"strings"
	"time"
)

// Row is one result row keyed by column name.
// Every accessor returns ok=false for absent columns and SQL NULL.
type Row interface {
	Value(col string) (any, bool)
	Int64(col string) (int64, bool)
	Float64(col string) (float64, bool)
	String(col string) (string, bool)
	Time(col string) (time.Time, bool)
}

// MapRow is a Row backed by a map. Column lookup is case-insensitive as a fallback.
type MapRow map[string]any

// Value returns the raw driver value.
func (r MapRow) Value(col string) (any, bool) {
	v, ok := r[col]
	if !ok {
		for k, kv := range r {
			if strings.EqualFold(k, col) {
				v, ok = kv, true
				break
			}
		}
	}
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Int64 converts integer, float, boolean and numeric-text values.
func (r MapRow) Int64(col string) (int64, bool) {
	v, ok := r.Value(col)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float64:
		return int64(x), true
	case float32:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Float64 converts float, integer and numeric-text values.
func (r MapRow) Float64(col string) (float64, bool) {
	v, ok := r.Value(col)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	if n, ok := r.Int64(col); ok {
		return float64(n), true
	}
	return 0, false
}

// String converts text and byte values; other kinds are not coerced.
func (r MapRow) String(col string) (string, bool) {
	v, ok := r.Value(col)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

// Time returns driver time values as-is and reads integers as Unix seconds.
func (r MapRow) Time(col string) (time.Time, bool) {
	v, ok := r.Value(col)
	if !ok {
		return time.Time{}, false
	}
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	if _, isText := v.(string); isText {
		return time.Time{}, false
	}
	if n, ok := r.Int64(col); ok {
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// ResultSet is the materialized output of a select.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}
