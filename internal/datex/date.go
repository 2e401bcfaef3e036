// Package datex parses and formats the text timestamps stored in the journal
// databases. Stored values come from several writers over time, so parsing
// is lenient: a default set of ISO layouts first, then explicit US and
// European day/month layouts.
package datex

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the storage format of entry dates.
	DateLayout = "2006-01-02"
	// TimestampLayout is the storage format of created/updated/login times.
	TimestampLayout = "2006-01-02 15:04:05"
)

var ErrUnparsable = errors.New("unparsable date")

// defaultLayouts are tried first, mirroring a general-purpose parse.
var defaultLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// fallbackLayouts are tried in order after the default layouts. Month-first
// wins over day-first when both could match.
var fallbackLayouts = []string{
	DateLayout,
	TimestampLayout,
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// Parse interprets s using the default layouts and then the fallback
// layouts. Values without a zone are read in time.Local.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparsable)
	}

	for _, layout := range defaultLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, s)
}

// ParseOr returns the parsed value of s, or fallback and false when s
// cannot be parsed.
func ParseOr(s string, fallback time.Time) (time.Time, bool) {
	t, err := Parse(s)
	if err != nil {
		return fallback, false
	}
	return t, true
}

// DateOnly returns midnight (time.Local) of t's calendar date as seen in
// t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
