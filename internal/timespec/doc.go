// Package timespec parses loosely formatted time-of-day strings such as
// "9", "09:00", "9 o'clock", "7pm" or "15:30" into normalized 24-hour
// hour/minute values, and groups them into a deduplicated Schedule.
package timespec
