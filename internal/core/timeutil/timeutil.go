// Package timeutil provides portable timestamp helpers shared across the
// task and session layers. All timestamps are UTC.
package timeutil

import "time"

// isoLayout renders seconds precision with a numeric offset. UTC times
// serialize with an explicit +00:00 rather than Z so downstream parsers
// that expect a numeric offset keep working.
const isoLayout = "2006-01-02T15:04:05-07:00"

// ISOTimestamp formats t as an ISO-8601 string in UTC with a +00:00 offset.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// Now returns the current time formatted by ISOTimestamp.
func Now() string {
	return ISOTimestamp(time.Now())
}

// EpochSeconds returns t as integer seconds since the Unix epoch.
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}

// ParseISO parses an ISO-8601 timestamp with either a numeric offset or Z.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
