package timespec

import (
	"fmt"
	"time"
)

// TimeSpec is a validated time of day in 24-hour form.
// It is comparable and can be used as a map key.
type TimeSpec struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// New returns a TimeSpec for hour and minute, or an error if either is out of range.
func New(hour, minute int) (TimeSpec, error) {
	ts := TimeSpec{Hour: hour, Minute: minute}
	if !ts.Valid() {
		return TimeSpec{}, fmt.Errorf("time %02d:%02d: %w", hour, minute, ErrOutOfRange)
	}
	return ts, nil
}

// Valid reports whether the hour is in [0,23] and the minute in [0,59].
func (ts TimeSpec) Valid() bool {
	return ts.Hour >= 0 && ts.Hour <= 23 && ts.Minute >= 0 && ts.Minute <= 59
}

// String renders the spec as HH:MM.
func (ts TimeSpec) String() string {
	return fmt.Sprintf("%02d:%02d", ts.Hour, ts.Minute)
}

// MinuteOfDay returns the number of minutes since midnight.
func (ts TimeSpec) MinuteOfDay() int {
	return ts.Hour*60 + ts.Minute
}

// Matches reports whether t falls within this spec's minute.
func (ts TimeSpec) Matches(t time.Time) bool {
	return t.Hour() == ts.Hour && t.Minute() == ts.Minute
}

// Next returns the next instant strictly after from at which the wall clock
// reads this spec, in from's location.
func (ts TimeSpec) Next(from time.Time) time.Time {
	y, m, d := from.Date()
	next := time.Date(y, m, d, ts.Hour, ts.Minute, 0, 0, from.Location())
	if !next.After(from) {
		next = time.Date(y, m, d+1, ts.Hour, ts.Minute, 0, 0, from.Location())
	}
	return next
}

// Of returns the TimeSpec for the hour and minute of t.
func Of(t time.Time) TimeSpec {
	return TimeSpec{Hour: t.Hour(), Minute: t.Minute()}
}
