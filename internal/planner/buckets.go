package planner

import (
	"fmt"
	"time"

	"github.com/swedish-year-planner/api/internal/model"
)

// MonthSummary is one forward-looking month row of the overview.
type MonthSummary struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// QuarterSummary is one fiscal-quarter row of the overview.
type QuarterSummary struct {
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
}

// EventsInMonth returns the events touching a calendar month. Recurring items
// match on their anchor months, with interior months decided by the same
// non-wrapping betweenness check as InRange. Fixed items match on month alone,
// year-agnostically.
func EventsInMonth(events []model.Event, month time.Month) []model.Event {
	m := int(month)
	matched := make([]model.Event, 0)
	for _, e := range events {
		if e.Recurring {
			start, end, ok := eventRange(e)
			if !ok {
				continue
			}
			if start.Month == m || end.Month == m || (start.Month < m && end.Month > m) {
				matched = append(matched, e)
			}
			continue
		}
		date, err := parseDate(e.StartDate)
		if err != nil {
			continue
		}
		if date.Month() == month {
			matched = append(matched, e)
		}
	}
	return matched
}

// TasksInMonth returns the tasks due in a calendar month, year-agnostically.
func TasksInMonth(tasks []model.Task, month time.Month) []model.Task {
	matched := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Recurring {
			anchor, err := ParseMonthDay(t.DueDate)
			if err != nil {
				continue
			}
			if anchor.Month == int(month) {
				matched = append(matched, t)
			}
			continue
		}
		due, err := parseDate(t.DueDate)
		if err != nil {
			continue
		}
		if due.Month() == month {
			matched = append(matched, t)
		}
	}
	return matched
}

// MonthlyOverview summarizes the three calendar months after now. Months with
// nothing planned are omitted.
func MonthlyOverview(events []model.Event, tasks []model.Task, now time.Time) []MonthSummary {
	summaries := make([]MonthSummary, 0, 3)
	for i := 1; i <= 3; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, now.Location())
		count := len(EventsInMonth(events, month.Month())) + len(TasksInMonth(tasks, month.Month()))
		if count == 0 {
			continue
		}
		summaries = append(summaries, MonthSummary{
			Year:  month.Year(),
			Month: int(month.Month()),
			Title: MonthName(month.Month()),
			Count: count,
		})
	}
	return summaries
}

// QuarterlyOverview summarizes quarters of the current and next year that lie
// strictly after the quarter containing now plus three months. Items spanning
// several months of a quarter are counted once, and empty quarters are
// omitted.
func QuarterlyOverview(events []model.Event, tasks []model.Task, now time.Time) []QuarterSummary {
	cutoff := time.Date(now.Year(), now.Month()+3, 1, 0, 0, 0, 0, now.Location())
	cutoffYear := cutoff.Year()
	cutoffQuarter := quarterOf(cutoff.Month())

	summaries := make([]QuarterSummary, 0)
	for year := now.Year(); year <= now.Year()+1; year++ {
		for q := 1; q <= 4; q++ {
			if year < cutoffYear || (year == cutoffYear && q <= cutoffQuarter) {
				continue
			}
			quarterEvents, quarterTasks := QuarterItems(events, tasks, q)
			count := len(quarterEvents) + len(quarterTasks)
			if count == 0 {
				continue
			}
			summaries = append(summaries, QuarterSummary{
				Year:    year,
				Quarter: q,
				Title:   fmt.Sprintf("%d Q%d", year, q),
				Count:   count,
			})
		}
	}
	return summaries
}

// QuarterItems collects the events and tasks touching any month of a quarter,
// deduplicated by ID since ranged items can match several constituent months.
func QuarterItems(events []model.Event, tasks []model.Task, quarter int) ([]model.Event, []model.Task) {
	var quarterEvents []model.Event
	var quarterTasks []model.Task
	for m := (quarter-1)*3 + 1; m <= quarter*3; m++ {
		quarterEvents = append(quarterEvents, EventsInMonth(events, time.Month(m))...)
		quarterTasks = append(quarterTasks, TasksInMonth(tasks, time.Month(m))...)
	}
	return dedupeEvents(quarterEvents), dedupeTasks(quarterTasks)
}

// MonthItems collects the events and tasks touching a single month,
// deduplicated by ID.
func MonthItems(events []model.Event, tasks []model.Task, month time.Month) ([]model.Event, []model.Task) {
	return dedupeEvents(EventsInMonth(events, month)), dedupeTasks(TasksInMonth(tasks, month))
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

func dedupeEvents(events []model.Event) []model.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupeTasks(tasks []model.Task) []model.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
