package config

import (
	"fmt"
	"strconv"
	"time"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "15s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '20s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}
