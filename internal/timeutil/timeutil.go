// Package timeutil provides the wall-clock value types used throughout the
// scheduler: a minutes-since-midnight time of day and a year/month/day calendar
// date. Both serialize to their canonical string forms ("HH:MM" and
// "YYYY-MM-DD") only at the I/O boundary.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in a 24-hour day.
const MinutesPerDay = 24 * 60

// FormatError reports a malformed time or date string.
type FormatError struct {
	Input string
	Kind  string // "time" or "date"
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s string %q", e.Kind, e.Input)
}

// TimeOfDay is a wall-clock time of day expressed as minutes since midnight.
// Valid values are in [0, 1439].
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: s, Kind: "time"}
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, &FormatError{Input: s, Kind: "time"}
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, &FormatError{Input: s, Kind: "time"}
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Hour returns the hour component in [0, 23].
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component in [0, 59].
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Date is a calendar date identified by its local year, month and day fields.
// It deliberately carries no time zone: the scheduler has no concept of a
// timezone-aware instant, only wall-clock-local appointments.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, &FormatError{Input: s, Kind: "date"}
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Date{}, &FormatError{Input: s, Kind: "date"}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Date{}, &FormatError{Input: s, Kind: "date"}
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > daysIn(year, time.Month(month)) {
		return Date{}, &FormatError{Input: s, Kind: "date"}
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// DateOf extracts the local calendar fields of t. Using the local fields, not
// a UTC rendering, keeps the date stable near midnight in zones behind UTC.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Key returns the canonical "YYYY-MM-DD" form, used as the per-day map key.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// String is an alias for Key.
func (d Date) String() string {
	return d.Key()
}

// Display returns a long-form header string, e.g. "Monday, May 15, 2023".
func (d Date) Display() string {
	return d.Time().Format("Monday, January 2, 2006")
}

// Time returns midnight of the date in the local time zone.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week, Sunday being 0.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// StartOfWeek returns the Sunday that begins the week containing d,
// regardless of locale.
func StartOfWeek(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// Month identifies one calendar month, the unit the appointment cache is
// bucketed by.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// First returns the first day of the month.
func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the last day of the month.
func (m Month) Last() Date {
	return Date{Year: m.Year, Month: m.Month, Day: daysIn(m.Year, m.Month)}
}

// Prev returns the preceding calendar month.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
