// Package clock holds the pure time arithmetic: durations between clock
// times with overnight wraparound, and the "logical today" convention
// where the operating day rolls over at a configurable hour (default
// 04:00) instead of midnight.
package clock

import (
	"fmt"
	"time"
)

const (
	// DateFormat is the calendar date layout used everywhere (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// ClockFormat is the wall-clock layout used everywhere (HH:MM).
	ClockFormat = "15:04"

	// DefaultDayStartHour is the hour at which the logical day rolls over.
	DefaultDayStartHour = 4

	// DefaultUTCOffsetHours pins the local time reference to a fixed
	// offset so logical-today does not drift with the host timezone.
	DefaultUTCOffsetHours = 9
)

// ParseDate validates and parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// ParseClock validates an HH:MM clock string and returns the minutes
// since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockFormat, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DurationMinutes computes the whole minutes between start and end
// interpreted as wall-clock times on date. When end is strictly earlier
// than start the range wraps past midnight onto the next day, so the
// result is never negative.
func DurationMinutes(date, start, end string) (int, error) {
	if _, err := ParseDate(date); err != nil {
		return 0, err
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMin < startMin {
		endMin += 24 * 60
	}
	return endMin - startMin, nil
}

// FixedZone returns the fixed-offset location the planner operates in.
func FixedZone(utcOffsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600)
}

// LogicalToday returns the operating calendar date for now. The day does
// not roll over at midnight: before dayStartHour the logical day is still
// yesterday's date, at dayStartHour exactly and later it is today's. The
// decision is made in a fixed UTC offset, not the host timezone.
func LogicalToday(now time.Time, dayStartHour, utcOffsetHours int) string {
	local := now.In(FixedZone(utcOffsetHours))
	if local.Hour() < dayStartHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DateFormat)
}

// AbsoluteTime places an HH:MM clock time on date onto an absolute time
// axis in the given location, treating times from 00:00 up to and
// including dayStartHour:00 as belonging to the following calendar day.
// This keeps early-morning blocks attached to the day they are filed
// under, consistent with the logical-day convention.
func AbsoluteTime(date, clockTime string, dayStartHour int, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseClock(clockTime)
	if err != nil {
		return time.Time{}, err
	}
	if minutes <= dayStartHour*60 {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minutes) * time.Minute), nil
}
