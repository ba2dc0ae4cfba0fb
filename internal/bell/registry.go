package bell

import (
	"time"

	"github.com/Danieljenu/bellring/internal/timespec"
)

// day is a calendar date in the clock's location.
type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

// Registry tracks which scheduled times have rung on the current day.
// It is owned by a single Bell and is not safe for concurrent use.
type Registry struct {
	current day
	rung    map[timespec.TimeSpec]struct{}
}

// NewRegistry returns an empty registry for the calendar day of now.
func NewRegistry(now time.Time) *Registry {
	return &Registry{
		current: dayOf(now),
		rung:    make(map[timespec.TimeSpec]struct{}),
	}
}

// Rollover moves the registry to the calendar day of now. If that is a
// different day from the one tracked, every entry is forgotten and Rollover
// returns true.
func (r *Registry) Rollover(now time.Time) bool {
	d := dayOf(now)
	if d == r.current {
		return false
	}
	r.current = d
	clear(r.rung)
	return true
}

// MarkRung records ts as rung today. It returns false if ts was already recorded.
func (r *Registry) MarkRung(ts timespec.TimeSpec) bool {
	if _, ok := r.rung[ts]; ok {
		return false
	}
	r.rung[ts] = struct{}{}
	return true
}

// HasRung reports whether ts has rung today.
func (r *Registry) HasRung(ts timespec.TimeSpec) bool {
	_, ok := r.rung[ts]
	return ok
}

// Len returns the number of entries rung today.
func (r *Registry) Len() int {
	return len(r.rung)
}

// Date returns the calendar day being tracked.
func (r *Registry) Date() (year int, month time.Month, dayOfMonth int) {
	return r.current.year, r.current.month, r.current.day
}
