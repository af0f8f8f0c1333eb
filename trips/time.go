/*
time.go - Timezone-anchored time handling

PURPOSE:
  Every comparison and "same calendar date" test in the engine runs in the
  vehicle's configured timezone, never in a floating or system-default zone.
  Mismatched zones historically produced wrong "today" boundaries, so all
  date-part logic funnels through the helpers in this file.

WIRE FORMAT:
  Punctual date-times are timezone-naive at rest (ISO local, no offset) and
  are located into the vehicle's zone on decode.
*/
package trips

import (
	"strconv"
	"strings"
	"time"
)

// Accepted layouts for punctual trip date-times. All are naive local forms;
// offsets are deliberately not accepted because stored documents carry none.
var punctualLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// punctualWireLayout is the canonical form written back to storage.
const punctualWireLayout = "2006-01-02T15:04:05"

// ParseClockTime parses "HH:MM" with range checks.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return ClockTime{}, &ValidationError{Field: "hora", Value: s, Reason: "expected HH:MM"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, &ValidationError{Field: "hora", Value: s, Reason: "hour is not a number"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, &ValidationError{Field: "hora", Value: s, Reason: "minute is not a number"}
	}
	c := ClockTime{Hour: hour, Minute: minute}
	if !c.Valid() {
		return ClockTime{}, &ValidationError{Field: "hora", Value: s, Reason: "hour or minute out of range"}
	}
	return c, nil
}

// ParsePunctualDateTime parses a naive local date-time string in the given
// location. Unparsable input yields a ValidationError naming the field.
func ParsePunctualDateTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range punctualLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "datetime", Value: s, Reason: "not a valid local date-time"}
}

// FormatPunctualDateTime renders the canonical naive wire form.
func FormatPunctualDateTime(t time.Time) string {
	return t.Format(punctualWireLayout)
}

// CombineDateTime anchors a wall-clock time onto the calendar date of day,
// in day's location. DST gaps resolve the way time.Date does.
func CombineDateTime(day time.Time, at ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), at.Hour, at.Minute, 0, 0, day.Location())
}

// StartOfDay returns local midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// SameLocalDate reports whether a and b fall on the same calendar date when
// both are viewed in loc. Timestamps are normalized to loc before the
// date-part comparison; this is the only same-day test in the engine.
func SameLocalDate(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	ya, ma, da := la.Date()
	yb, mb, db := lb.Date()
	return ya == yb && ma == mb && da == db
}
