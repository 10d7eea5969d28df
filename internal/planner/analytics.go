package planner

import (
	"time"

	"github.com/swedish-year-planner/api/internal/model"
)

// Analytics summarizes a user's collections at the given instant.
func Analytics(events []model.Event, tasks []model.Task, now time.Time) model.Analytics {
	a := model.Analytics{
		TotalEvents: len(events),
		TotalTasks:  len(tasks),
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
	for _, e := range events {
		if e.Recurring {
			a.RecurringEvents++
		}
	}
	for _, t := range tasks {
		if t.IsCompleted() {
			a.CompletedTasks++
		}
		if t.Recurring {
			a.RecurringTasks++
		}
	}
	return a
}
