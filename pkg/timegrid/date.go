package timegrid

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a time or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return DateOf(t), nil
}

// Time returns midnight of the date in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later, normalising month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" as well as RFC 3339 timestamps, keeping the calendar day.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateAxis is the ordered, duplicate-free list of dates forming the grid columns.
type DateAxis struct {
	dates []Date
}

// NewDateAxis sorts dates ascending and drops calendar duplicates.
func NewDateAxis(dates ...Date) DateAxis {
	sorted := make([]Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := make([]Date, 0, len(sorted))
	for i, d := range sorted {
		if i > 0 && d == sorted[i-1] {
			continue
		}
		out = append(out, d)
	}
	return DateAxis{dates: out}
}

// Len returns the number of columns.
func (a DateAxis) Len() int {
	return len(a.dates)
}

// At returns the date at column i.
func (a DateAxis) At(i int) (Date, bool) {
	if i < 0 || i >= len(a.dates) {
		return Date{}, false
	}
	return a.dates[i], true
}

// IndexOf returns the column of d or -1.
func (a DateAxis) IndexOf(d Date) int {
	for i, candidate := range a.dates {
		if candidate == d {
			return i
		}
	}
	return -1
}

// Dates returns a copy of the axis.
func (a DateAxis) Dates() []Date {
	out := make([]Date, len(a.dates))
	copy(out, a.dates)
	return out
}

// Toggle removes d when it is on the axis and inserts it in order otherwise.
func (a DateAxis) Toggle(d Date) DateAxis {
	if idx := a.IndexOf(d); idx >= 0 {
		return a.RemoveAt(idx)
	}
	return NewDateAxis(append(a.Dates(), d)...)
}

// RemoveAt drops the column at i. Out of range indexes leave the axis untouched.
func (a DateAxis) RemoveAt(i int) DateAxis {
	if i < 0 || i >= len(a.dates) {
		return a
	}
	out := make([]Date, 0, len(a.dates)-1)
	out = append(out, a.dates[:i]...)
	out = append(out, a.dates[i+1:]...)
	return DateAxis{dates: out}
}

// MarshalJSON encodes the axis as an array of dates.
func (a DateAxis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Dates())
}

// UnmarshalJSON decodes an array of dates, normalising order and duplicates.
func (a *DateAxis) UnmarshalJSON(data []byte) error {
	var dates []Date
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	*a = NewDateAxis(dates...)
	return nil
}
