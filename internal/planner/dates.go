// Package planner implements the calendar resolution logic of the year
// planner: recurring-anchor matching, the rolling 30-day timeline, ongoing
// event detection and month/quarter bucketing. All functions are pure
// computations over in-memory collections.
package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthDay is a year-agnostic calendar anchor for recurring items.
type MonthDay struct {
	Month int
	Day   int
}

var monthsShort = [13]string{
	"", "Jan", "Feb", "Mar", "Apr", "Maj", "Jun",
	"Jul", "Aug", "Sep", "Okt", "Nov", "Dec",
}

var monthsLong = [13]string{
	"", "januari", "februari", "mars", "april", "maj", "juni",
	"juli", "augusti", "september", "oktober", "november", "december",
}

// ParseMonthDay parses an "MM-DD" recurring anchor.
func ParseMonthDay(s string) (MonthDay, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("invalid month-day anchor %q", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid month in anchor %q", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid day in anchor %q", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("month-day anchor %q out of range", s)
	}
	return MonthDay{Month: month, Day: day}, nil
}

// InRange reports whether probe falls within the recurring range [start, end].
// Ranges that wrap past December (e.g. "12-20" to "01-10") are not matched by
// the month betweenness check; interior wrapped months fall outside the range.
func InRange(probe, start, end MonthDay) bool {
	if start.Month == end.Month {
		return probe.Month == start.Month && probe.Day >= start.Day && probe.Day <= end.Day
	}
	return (probe.Month == start.Month && probe.Day >= start.Day) ||
		(probe.Month == end.Month && probe.Day <= end.Day) ||
		(probe.Month > start.Month && probe.Month < end.Month)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

// compareDay orders two instants by calendar day, ignoring time of day.
func compareDay(a, b time.Time) int {
	if a.Year() != b.Year() {
		return a.Year() - b.Year()
	}
	if a.Month() != b.Month() {
		return int(a.Month()) - int(b.Month())
	}
	return a.Day() - b.Day()
}

// parseDate parses an absolute "YYYY-MM-DD" date.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// monthDayOf reduces an instant to its recurring anchor.
func monthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: int(t.Month()), Day: t.Day()}
}

// FormatShortDate renders a date as e.g. "Jun 21".
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%s %d", monthsShort[int(t.Month())], t.Day())
}

// FormatFullDate renders a date as e.g. "21 juni 2025".
func FormatFullDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsLong[int(t.Month())], t.Year())
}

// FormatAnchor renders a recurring anchor as e.g. "Jun 21".
func FormatAnchor(md MonthDay) string {
	return fmt.Sprintf("%s %d", monthsShort[md.Month], md.Day)
}

// MonthName returns the Swedish name of a month, e.g. "juni".
func MonthName(m time.Month) string {
	return monthsLong[int(m)]
}
