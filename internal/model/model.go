package model

import "encoding/json"

// Event is a calendar event. When Recurring is true, StartDate and EndDate
// are year-agnostic "MM-DD" anchors matched every year; otherwise they are
// absolute "YYYY-MM-DD" dates. An event without an EndDate is a single-day
// event on StartDate.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	Recurring   bool   `json:"recurring"`
}

// Subtask is a single checklist entry under a task.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a todo item with an optional subtask checklist. DueDate uses the
// same dual format as Event.StartDate, controlled by Recurring.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     string    `json:"dueDate"`
	Description string    `json:"description,omitempty"`
	Subtasks    []Subtask `json:"subtasks"`
	Completed   bool      `json:"completed"`
	Recurring   bool      `json:"recurring"`
}

// IsCompleted reports the derived completion state: a task without subtasks
// is completed iff its own flag is set; a task with subtasks is completed
// iff every subtask is, and the flag is ignored.
func (t Task) IsCompleted() bool {
	if len(t.Subtasks) == 0 {
		return t.Completed
	}
	for _, st := range t.Subtasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

// Backup is the export/import envelope served by the backup endpoint.
// The item arrays are kept raw so unknown fields survive a round trip.
type Backup struct {
	Version    string     `json:"version"`
	ExportDate string     `json:"exportDate"`
	Data       BackupData `json:"data"`
}

// BackupData holds the two persisted collections of a user.
type BackupData struct {
	Events []json.RawMessage `json:"events"`
	Tasks  []json.RawMessage `json:"tasks"`
}

// Analytics summarizes a user's stored data.
type Analytics struct {
	TotalEvents     int    `json:"totalEvents"`
	TotalTasks      int    `json:"totalTasks"`
	CompletedTasks  int    `json:"completedTasks"`
	RecurringEvents int    `json:"recurringEvents"`
	RecurringTasks  int    `json:"recurringTasks"`
	LastUpdated     string `json:"lastUpdated"`
}
