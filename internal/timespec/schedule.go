package timespec

import (
	"slices"
	"strings"
	"time"
)

// Schedule is a set of unique TimeSpecs.
// It is built once and only read afterwards.
type Schedule struct {
	specs map[TimeSpec]struct{}
}

// NewSchedule returns a Schedule holding specs; duplicates collapse.
func NewSchedule(specs ...TimeSpec) Schedule {
	s := Schedule{specs: make(map[TimeSpec]struct{}, len(specs))}
	for _, ts := range specs {
		s.specs[ts] = struct{}{}
	}
	return s
}

// ParseSchedule parses every raw entry and collects the valid ones.
// Errors are returned per failed entry, in input order, so callers can
// report them and carry on. An empty schedule means nothing parsed.
func ParseSchedule(raw []string) (Schedule, []error) {
	s := NewSchedule()
	var errs []error
	for _, r := range raw {
		ts, err := Parse(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.specs[ts] = struct{}{}
	}
	return s, errs
}

// Len returns the number of unique specs.
func (s Schedule) Len() int {
	return len(s.specs)
}

// Contains reports whether ts is scheduled.
func (s Schedule) Contains(ts TimeSpec) bool {
	_, ok := s.specs[ts]
	return ok
}

// Sorted returns the specs in chronological order.
func (s Schedule) Sorted() []TimeSpec {
	out := make([]TimeSpec, 0, len(s.specs))
	for ts := range s.specs {
		out = append(out, ts)
	}
	slices.SortFunc(out, func(a, b TimeSpec) int {
		return a.MinuteOfDay() - b.MinuteOfDay()
	})
	return out
}

// String joins the sorted specs with commas, e.g. "09:00,19:00".
func (s Schedule) String() string {
	specs := s.Sorted()
	parts := make([]string, len(specs))
	for i, ts := range specs {
		parts[i] = ts.String()
	}
	return strings.Join(parts, ",")
}

// Due returns the specs matching the hour and minute of t.
// A set holds at most one spec per minute, so the result has zero or one entries.
func (s Schedule) Due(t time.Time) []TimeSpec {
	ts := Of(t)
	if s.Contains(ts) {
		return []TimeSpec{ts}
	}
	return nil
}

// Next returns the spec that fires soonest after from and the instant it fires.
// ok is false for an empty schedule.
func (s Schedule) Next(from time.Time) (next TimeSpec, at time.Time, ok bool) {
	for ts := range s.specs {
		candidate := ts.Next(from)
		if !ok || candidate.Before(at) {
			next, at, ok = ts, candidate, true
		}
	}
	return next, at, ok
}
