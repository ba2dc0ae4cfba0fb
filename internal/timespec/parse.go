package timespec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors wrapped by ParseError.
var (
	ErrInvalidFormat = errors.New("invalid time format")
	ErrOutOfRange    = errors.New("time out of range")
)

// ParseError describes a time string that could not be interpreted.
type ParseError struct {
	Input  string // Original input, untouched
	Hour   int    // Parsed hour, valid only when Err is ErrOutOfRange
	Minute int    // Parsed minute, valid only when Err is ErrOutOfRange
	Err    error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("parsed time out of range: %d:%02d from %q", e.Hour, e.Minute, e.Input)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Meridiem is the 12-hour clock marker found in an input, if any.
type Meridiem string

const (
	MeridiemNone Meridiem = ""
	MeridiemAM   Meridiem = "am"
	MeridiemPM   Meridiem = "pm"
)

var (
	// am/pm must not be glued to other letters ("spam", "ample") but may
	// follow a digit directly ("9am").
	reMeridiem = regexp.MustCompile(`(^|[^a-z])(am|pm)([^a-z]|$)`)
	reHour     = regexp.MustCompile(`\d{1,2}`)
	reNonDigit = regexp.MustCompile(`\D`)

	oclockSuffixes = []string{"o'clock", "o’clock", "o clock"}
)

// Parse converts a loosely formatted time string to a TimeSpec.
//
// Supported shapes:
//   - bare hour: "9", "09", "9 o'clock"
//   - colon form: "9:00", "09:00", "15:30"
//   - either of the above with am/pm: "9am", "9 am", "7pm", "07:30pm"
//
// Without am/pm the hour is read as 24-hour.
func Parse(raw string) (TimeSpec, error) {
	s := normalize(raw)

	meridiem, s := extractMeridiem(s)

	var hour, minute int
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return TimeSpec{}, &ParseError{Input: raw, Err: ErrInvalidFormat}
		}
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return TimeSpec{}, &ParseError{Input: raw, Err: ErrInvalidFormat}
		}
		hour = h

		if digits := reNonDigit.ReplaceAllString(parts[1], ""); digits != "" {
			m, err := strconv.Atoi(digits)
			if err != nil {
				return TimeSpec{}, &ParseError{Input: raw, Err: ErrInvalidFormat}
			}
			minute = m
		}
	} else {
		match := reHour.FindString(s)
		if match == "" {
			return TimeSpec{}, &ParseError{Input: raw, Err: ErrInvalidFormat}
		}
		hour, _ = strconv.Atoi(match) // at most two digits
	}

	hour = applyMeridiem(hour, meridiem)

	ts := TimeSpec{Hour: hour, Minute: minute}
	if !ts.Valid() {
		return TimeSpec{}, &ParseError{Input: raw, Hour: hour, Minute: minute, Err: ErrOutOfRange}
	}
	return ts, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(raw string) TimeSpec {
	ts, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ts
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, suffix := range oclockSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	return strings.TrimSpace(s)
}

// extractMeridiem records the first am/pm token and removes every occurrence.
func extractMeridiem(s string) (Meridiem, string) {
	m := reMeridiem.FindStringSubmatch(s)
	if m == nil {
		return MeridiemNone, s
	}
	s = reMeridiem.ReplaceAllString(s, "${1}${3}")
	return Meridiem(m[2]), strings.TrimSpace(s)
}

func applyMeridiem(hour int, m Meridiem) int {
	switch m {
	case MeridiemAM:
		if hour == 12 {
			return 0
		}
	case MeridiemPM:
		if hour != 12 {
			return hour + 12
		}
	}
	return hour
}
