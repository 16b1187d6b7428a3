package core

import (
	"fmt"
	"time"
)

// Date is a civil calendar date without time or zone.
// The zero value means "unset".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the given date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts "20060102" and "2006-01-02", plus datetime text whose
// first ten characters are an ISO date.
func ParseDate(s string) (Date, error) {
	var layout string
	switch {
	case len(s) == 8:
		layout = "20060102"
	case len(s) >= 10:
		layout = "2006-01-02"
		s = s[:10]
	default:
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d.IsZero() {
		return false
	}
	return DateOf(d.Time()) == d
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Format formats d with a time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
