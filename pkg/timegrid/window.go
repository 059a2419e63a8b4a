package timegrid

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// StepMinutes is the width of one grid row.
	StepMinutes = 30
	// AxisPoints covers 00:00 through 24:00 inclusive in StepMinutes steps.
	AxisPoints = 49
)

var (
	// ErrInvalidTimeOfDay is returned for hours outside 0–24, minutes other than 0/30 or 24:30.
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:00 or HH:30 between 00:00 and 24:00")
	// ErrInvalidTimeRange is returned when both window bounds are set and end is not after start.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// TimeOfDay is a half-hour aligned point of the day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay validates and builds a TimeOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return NewTimeOfDay(hour, minute)
}

// Validate checks the half-hour alignment and bounds.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 24 {
		return ErrInvalidTimeOfDay
	}
	if t.Minute != 0 && t.Minute != StepMinutes {
		return ErrInvalidTimeOfDay
	}
	if t.Hour == 24 && t.Minute != 0 {
		return ErrInvalidTimeOfDay
	}
	return nil
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM".
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FullAxis returns the 49 points from 00:00 to 24:00.
func FullAxis() []TimeOfDay {
	out := make([]TimeOfDay, AxisPoints)
	for i := range out {
		out[i] = TimeOfDay{Hour: i / 2, Minute: (i % 2) * StepMinutes}
	}
	return out
}

// Window is the visible [Start, End) sub-range of the day. Nil bounds are unset.
type Window struct {
	Start *TimeOfDay `json:"start"`
	End   *TimeOfDay `json:"end"`
}

// Bounded reports whether both bounds are set.
func (w Window) Bounded() bool {
	return w.Start != nil && w.End != nil
}

// Validate only fails when both bounds are set and End does not follow Start.
func (w Window) Validate() error {
	if w.Start != nil {
		if err := w.Start.Validate(); err != nil {
			return err
		}
	}
	if w.End != nil {
		if err := w.End.Validate(); err != nil {
			return err
		}
	}
	if w.Bounded() && w.End.Minutes() <= w.Start.Minutes() {
		return ErrInvalidTimeRange
	}
	return nil
}

// Rows returns the interactive rows. An inverted window yields no rows.
func (w Window) Rows() []TimeOfDay {
	axis := FullAxis()
	if !w.Bounded() {
		return axis
	}
	start, end := w.Start.Minutes(), w.End.Minutes()
	out := make([]TimeOfDay, 0, len(axis))
	for _, t := range axis {
		if m := t.Minutes(); m >= start && m < end {
			out = append(out, t)
		}
	}
	return out
}

// EndLabel returns the label-only row shown after the last interactive row.
func (w Window) EndLabel() (TimeOfDay, bool) {
	if w.End == nil || len(w.Rows()) == 0 {
		return TimeOfDay{}, false
	}
	return *w.End, true
}
