// Package datetime parses and formats the timestamps that durations are applied
// to. Unlike a UTC-normalizing layer, every function here keeps the caller's
// UTC offset so calendar arithmetic happens in the zone the user wrote.
package datetime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wealthpath/cadence/pkg/parsable"
)

// Standard formats used throughout the application.
const (
	// DateFormat is the date-only format (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// TimestampFormat is RFC 3339 with optional fractional seconds.
	TimestampFormat = time.RFC3339Nano

	// DisplayFormat is for human-readable output.
	DisplayFormat = "Mon Jan 2, 2006 15:04:05 MST"
)

const typeName = "timestamp"

// Parse parses an RFC 3339 timestamp, keeping its offset, or a bare date,
// which is taken as midnight UTC.
func Parse(s string) (time.Time, error) {
	return ParseIn(s, time.UTC)
}

// ParseIn is like Parse but places bare dates at midnight in loc.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	if parsable.IsBlank(s) {
		return time.Time{}, parsable.NewFormatError(typeName, s, nil)
	}
	text := strings.TrimSpace(s)

	t, err := time.Parse(TimestampFormat, text)
	if err == nil {
		return t, nil
	}
	if d, dateErr := time.ParseInLocation(DateFormat, text, loc); dateErr == nil {
		return d, nil
	}
	return time.Time{}, parsable.NewFormatError(typeName, s, err)
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (time.Time, bool) {
	return parsable.Try(Parse, s)
}

// Format renders t as RFC 3339 in its own offset.
func Format(t time.Time) string {
	return t.Format(TimestampFormat)
}

// Display renders t for humans in its own zone.
func Display(t time.Time) string {
	return t.Format(DisplayFormat)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Timestamp is a time.Time that encodes to JSON as RFC 3339 in its own offset.
// The zero Timestamp encodes as null.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return Format(ts.Time)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(Format(ts.Time))
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the value untouched.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return parsable.NewFormatError(typeName, string(data), fmt.Errorf("expected JSON string: %w", err))
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}
