package planner

import (
	"fmt"
	"time"

	"github.com/swedish-year-planner/api/internal/model"
)

// timelineWindow is the number of days covered by the rolling timeline.
const timelineWindow = 30

// TimelineDay is one rendered day of the timeline.
type TimelineDay struct {
	Date    string        `json:"date"`
	Label   string        `json:"label"`
	Ongoing bool          `json:"ongoing"`
	Events  []EventMarker `json:"events"`
	Tasks   []model.Task  `json:"tasks"`
}

// Ongoing returns the multi-day events whose active range contains now.
// An event that started strictly before today carries its formatted start
// date in the marker; one starting today is marked plainly as ongoing.
func Ongoing(events []model.Event, now time.Time) []EventMarker {
	ongoing := make([]EventMarker, 0)
	for _, e := range events {
		if e.EndDate == "" {
			continue
		}

		var active bool
		var start time.Time
		var startedBefore bool

		if e.Recurring {
			startMD, err := ParseMonthDay(e.StartDate)
			if err != nil {
				continue
			}
			endMD, err := ParseMonthDay(e.EndDate)
			if err != nil {
				continue
			}
			if InRange(monthDayOf(now), startMD, endMD) {
				active = true
				// Map the anchor onto the current year for the marker.
				start = time.Date(now.Year(), time.Month(startMD.Month), startMD.Day, 0, 0, 0, 0, now.Location())
				startedBefore = compareDay(now, start) > 0
			}
		} else {
			startDate, err := parseDate(e.StartDate)
			if err != nil {
				continue
			}
			endDate, err := parseDate(e.EndDate)
			if err != nil {
				continue
			}
			if compareDay(now, startDate) >= 0 && compareDay(now, endDate) <= 0 {
				active = true
				start = startDate
				startedBefore = compareDay(now, startDate) > 0
			}
		}

		if !active {
			continue
		}
		marker := MarkerOngoing
		if startedBefore {
			marker = fmt.Sprintf("(%s) %s", FormatShortDate(start), MarkerOngoing)
		}
		ongoing = append(ongoing, EventMarker{Event: e, Marker: marker})
	}
	return ongoing
}

// Timeline produces the rolling 30-day view starting at now. Currently
// ongoing multi-day events are surfaced once in a head entry; the day buckets
// that follow hold boundary markers and due tasks in collection order, and
// days with nothing on them are omitted entirely.
func Timeline(events []model.Event, tasks []model.Task, now time.Time) []TimelineDay {
	timeline := make([]TimelineDay, 0)

	if ongoing := Ongoing(events, now); len(ongoing) > 0 {
		timeline = append(timeline, TimelineDay{
			Date:    now.Format("2006-01-02"),
			Label:   MarkerOngoing,
			Ongoing: true,
			Events:  ongoing,
			Tasks:   []model.Task{},
		})
	}

	for i := 0; i < timelineWindow; i++ {
		date := now.AddDate(0, 0, i)
		dayEvents := MarkersOn(events, date)
		dayTasks := TasksOn(tasks, date)
		if len(dayEvents) == 0 && len(dayTasks) == 0 {
			continue
		}
		timeline = append(timeline, TimelineDay{
			Date:   date.Format("2006-01-02"),
			Label:  timelineLabel(date, now),
			Events: dayEvents,
			Tasks:  dayTasks,
		})
	}
	return timeline
}

func timelineLabel(date, now time.Time) string {
	switch {
	case SameDay(date, now):
		return "Idag"
	case SameDay(date, now.AddDate(0, 0, 1)):
		return "Imorgon"
	default:
		return FormatShortDate(date)
	}
}
