package planner

import (
	"fmt"

	"github.com/swedish-year-planner/api/internal/model"
)

// FormatEventDate renders an event's date for display, e.g.
// "Jun 20 - Jun 22 (årligen)" or "21 juni 2025".
func FormatEventDate(e model.Event) string {
	if !e.Recurring {
		date, err := parseDate(e.StartDate)
		if err != nil {
			return e.StartDate
		}
		return FormatFullDate(date)
	}

	start, err := ParseMonthDay(e.StartDate)
	if err != nil {
		return e.StartDate
	}
	if e.EndDate != "" {
		if end, err := ParseMonthDay(e.EndDate); err == nil {
			return fmt.Sprintf("%s - %s (årligen)", FormatAnchor(start), FormatAnchor(end))
		}
	}
	return fmt.Sprintf("%s (årligen)", FormatAnchor(start))
}

// FormatTaskDate renders a task's due date for display, e.g.
// "Dec 1 (årligen)" or "15 juni 2025".
func FormatTaskDate(t model.Task) string {
	if !t.Recurring {
		due, err := parseDate(t.DueDate)
		if err != nil {
			return t.DueDate
		}
		return FormatFullDate(due)
	}
	anchor, err := ParseMonthDay(t.DueDate)
	if err != nil {
		return t.DueDate
	}
	return fmt.Sprintf("%s (årligen)", FormatAnchor(anchor))
}
