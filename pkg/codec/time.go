package codec

import (
	"strings"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Timestamp layouts accepted on load in addition to the backend's own.
const (
	CompactTimestampFormat = "20060102150405"
	ISOTimestampFormat     = "2006-01-02 15:04:05"
	CompactDateFormat      = "20060102"
	ISODateFormat          = "2006-01-02"
)

var timestampLayouts = []string{
	CompactTimestampFormat,
	ISOTimestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05Z07:00",
}

// timestampCodec stores time.Time fields in UTC. The zero time means unset:
// it is not written, and NULL or all-zero text loads as the zero time.
type timestampCodec struct{}

func (timestampCodec) Load(env Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	v, ok := row.Value(col.Name)
	if !ok {
		return col.Set(e, time.Time{})
	}
	switch v.(type) {
	case string, []byte:
	default:
		if t, ok := row.Time(col.Name); ok {
			return col.Set(e, t.UTC())
		}
	}
	s, _ := row.String(col.Name)
	if isZeroText(s) {
		return col.Set(e, time.Time{})
	}
	t, ok := parseTimestamp(env, s)
	if !ok {
		warn(env, "unparseable timestamp", "column", col.Name, "value", s)
		return col.Set(e, time.Time{})
	}
	return col.Set(e, t)
}

func (timestampCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicDateTime, len(ISOTimestampFormat))}
}

func (timestampCodec) Serialize(env Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	t, ok, err := field[time.Time](col, e)
	if err != nil || !ok || t.IsZero() {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: t.UTC().Format(timestampFormat(env))}}, nil
}

func timestampFormat(env Env) string {
	if env != nil && env.TimestampFormat() != "" {
		return env.TimestampFormat()
	}
	return CompactTimestampFormat
}

func parseTimestamp(env Env, s string) (time.Time, bool) {
	layouts := append([]string{timestampFormat(env)}, timestampLayouts...)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// dateCodec stores core.Date fields. Unset or invalid dates are not written.
type dateCodec struct{}

func (dateCodec) Load(env Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	v, ok := row.Value(col.Name)
	if !ok {
		return col.Set(e, core.Date{})
	}
	switch x := v.(type) {
	case time.Time:
		return col.Set(e, core.DateOf(x.UTC()))
	case string, []byte:
	default:
		if t, ok := row.Time(col.Name); ok {
			return col.Set(e, core.DateOf(t))
		}
	}
	s, _ := row.String(col.Name)
	if isZeroText(s) {
		return col.Set(e, core.Date{})
	}
	d, err := core.ParseDate(s)
	if err != nil {
		warn(env, "unparseable date", "column", col.Name, "value", s)
		return col.Set(e, core.Date{})
	}
	return col.Set(e, d)
}

func (dateCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicDate, len(CompactDateFormat))}
}

func (dateCodec) Serialize(env Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	d, ok, err := field[core.Date](col, e)
	if err != nil || !ok || !d.Valid() {
		return nil, err
	}
	layout := CompactDateFormat
	if env != nil && env.DateFormat() != "" {
		layout = env.DateFormat()
	}
	return []core.Pair{{Column: col.Name, Value: d.Format(layout)}}, nil
}

// isZeroText reports empty text or text made only of zeros and separators.
func isZeroText(s string) bool {
	return strings.Trim(s, "0-: T") == ""
}
