package planner

import (
	"time"

	"github.com/swedish-year-planner/api/internal/model"
)

// Marker values attached to multi-day events on the timeline.
const (
	MarkerStart   = "Början"
	MarkerEnd     = "Slut"
	MarkerOngoing = "Pågående"
)

// EventMarker is an event annotated for timeline display.
type EventMarker struct {
	model.Event
	Marker string `json:"marker"`
}

// eventRange resolves an event's recurring anchors, defaulting the end to the
// start when absent or unparseable.
func eventRange(e model.Event) (start, end MonthDay, ok bool) {
	start, err := ParseMonthDay(e.StartDate)
	if err != nil {
		return MonthDay{}, MonthDay{}, false
	}
	end = start
	if e.EndDate != "" {
		if parsed, err := ParseMonthDay(e.EndDate); err == nil {
			end = parsed
		}
	}
	return start, end, true
}

// EventMatches reports whether an event is active on the given calendar day,
// including interior days of multi-day ranges.
func EventMatches(e model.Event, date time.Time) bool {
	if e.Recurring {
		start, end, ok := eventRange(e)
		if !ok {
			return false
		}
		return InRange(monthDayOf(date), start, end)
	}

	start, err := parseDate(e.StartDate)
	if err != nil {
		return false
	}
	if e.EndDate == "" {
		return SameDay(date, start)
	}
	end, err := parseDate(e.EndDate)
	if err != nil {
		return SameDay(date, start)
	}
	return compareDay(date, start) >= 0 && compareDay(date, end) <= 0
}

// EventsOn returns the events active on the given day, in collection order.
func EventsOn(events []model.Event, date time.Time) []model.Event {
	matched := make([]model.Event, 0)
	for _, e := range events {
		if EventMatches(e, date) {
			matched = append(matched, e)
		}
	}
	return matched
}

// MarkersOn returns the events to show on a timeline day. Single-day events
// appear whenever they match; multi-day events appear only on their start and
// end days, tagged with a boundary marker, and interior days are suppressed.
func MarkersOn(events []model.Event, date time.Time) []EventMarker {
	markers := make([]EventMarker, 0)
	for _, e := range events {
		if e.Recurring {
			start, end, ok := eventRange(e)
			if !ok {
				continue
			}
			probe := monthDayOf(date)
			if e.EndDate == "" || start == end {
				if InRange(probe, start, end) {
					markers = append(markers, EventMarker{Event: e})
				}
				continue
			}
			switch probe {
			case start:
				markers = append(markers, EventMarker{Event: e, Marker: MarkerStart})
			case end:
				markers = append(markers, EventMarker{Event: e, Marker: MarkerEnd})
			}
			continue
		}

		start, err := parseDate(e.StartDate)
		if err != nil {
			continue
		}
		end := start
		if e.EndDate != "" {
			if parsed, err := parseDate(e.EndDate); err == nil {
				end = parsed
			}
		}
		if e.EndDate == "" || SameDay(start, end) {
			if SameDay(date, start) {
				markers = append(markers, EventMarker{Event: e})
			}
			continue
		}
		switch {
		case SameDay(date, start):
			markers = append(markers, EventMarker{Event: e, Marker: MarkerStart})
		case SameDay(date, end):
			markers = append(markers, EventMarker{Event: e, Marker: MarkerEnd})
		}
	}
	return markers
}

// TaskMatches reports whether a task is due on the given calendar day.
// Recurring tasks match on their exact anchor day each year.
func TaskMatches(t model.Task, date time.Time) bool {
	if t.Recurring {
		anchor, err := ParseMonthDay(t.DueDate)
		if err != nil {
			return false
		}
		return anchor == monthDayOf(date)
	}
	due, err := parseDate(t.DueDate)
	if err != nil {
		return false
	}
	return SameDay(date, due)
}

// TasksOn returns the tasks due on the given day, in collection order.
func TasksOn(tasks []model.Task, date time.Time) []model.Task {
	matched := make([]model.Task, 0)
	for _, t := range tasks {
		if TaskMatches(t, date) {
			matched = append(matched, t)
		}
	}
	return matched
}
