package timetable

import (
	"strings"
)

// weekdays is the fixed day order used when walking the week.
var weekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const daysPerWeek = len(weekdays)

// ParseClock converts a 24h "HH:MM" string into minutes since midnight.
func ParseClock(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if len(value) != 5 || value[2] != ':' {
		return 0, &ValidationError{Field: "time", Value: raw, Reason: "expected HH:MM", Err: ErrMalformedTime}
	}
	hours, ok := twoDigits(value[0:2])
	if !ok || hours > 23 {
		return 0, &ValidationError{Field: "time", Value: raw, Reason: "hour must be 00-23", Err: ErrMalformedTime}
	}
	minutes, ok := twoDigits(value[3:5])
	if !ok || minutes > 59 {
		return 0, &ValidationError{Field: "time", Value: raw, Reason: "minute must be 00-59", Err: ErrMalformedTime}
	}
	return hours*60 + minutes, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// dayIndex maps a weekday name (any case) onto its Monday-first position.
func dayIndex(name string) (int, bool) {
	trimmed := strings.TrimSpace(name)
	for i, day := range weekdays {
		if strings.EqualFold(day, trimmed) {
			return i, true
		}
	}
	return 0, false
}

// span is a half-open [start,end) interval on one weekday.
type span struct {
	day   int
	start int
	end   int
}

func (a span) overlaps(b span) bool {
	return a.day == b.day && a.start < b.end && b.start < a.end
}

func overlapsAny(target span, busy []span) bool {
	for _, s := range busy {
		if target.overlaps(s) {
			return true
		}
	}
	return false
}
