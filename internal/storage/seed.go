package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/swedish-year-planner/api/internal/model"
)

// DefaultUserID is the fixed user identifier the frontend uses when cloud
// sync is enabled.
const DefaultUserID = "swedish-year-planner-user"

// Seed fills the store with demo data for the default user. Intended for
// local development; existing data is overwritten.
func Seed(ctx context.Context, store Store) error {
	events := []model.Event{
		{
			ID:          uuid.New().String(),
			Title:       "Midsommarfirande",
			StartDate:   "06-20",
			EndDate:     "06-22",
			Description: "Traditionellt midsommarfirande",
			Recurring:   true,
		},
		{
			ID:          uuid.New().String(),
			Title:       "Semester på Gotland",
			StartDate:   "2025-07-07",
			EndDate:     "2025-07-27",
			Description: "Familjesemester",
		},
		{
			ID:          uuid.New().String(),
			Title:       "Skolstart",
			StartDate:   "2025-08-20",
			Description: "Barnen börjar nytt läsår",
		},
		{
			ID:          uuid.New().String(),
			Title:       "Konferens i Stockholm",
			StartDate:   "2025-09-10",
			EndDate:     "2025-09-12",
			Description: "Teknikkonferens",
		},
		{
			ID:        uuid.New().String(),
			Title:     "Julafton",
			StartDate: "12-24",
			Recurring: true,
		},
	}

	tasks := []model.Task{
		{
			ID:          uuid.New().String(),
			Title:       "Planera midsommarfest",
			DueDate:     "2025-06-15",
			Description: "Organisera firandet",
			Subtasks: []model.Subtask{
				{ID: uuid.New().String(), Title: "Bjud in gäster", Completed: true},
				{ID: uuid.New().String(), Title: "Handla mat"},
				{ID: uuid.New().String(), Title: "Gör midsommarkrans"},
			},
		},
		{
			ID:          uuid.New().String(),
			Title:       "Boka sommarstuga",
			DueDate:     "2025-06-01",
			Description: "Boka huset på Gotland",
			Completed:   true,
		},
		{
			ID:      uuid.New().String(),
			Title:   "Köp skolmaterial",
			DueDate: "2025-08-10",
		},
		{
			ID:        uuid.New().String(),
			Title:     "Julklappsinköp",
			DueDate:   "12-01",
			Recurring: true,
		},
	}

	rawEvents, err := marshalItems(events)
	if err != nil {
		return err
	}
	rawTasks, err := marshalItems(tasks)
	if err != nil {
		return err
	}

	if err := store.Save(ctx, DefaultUserID, TypeEvents, rawEvents); err != nil {
		return fmt.Errorf("storage: seed events: %w", err)
	}
	if err := store.Save(ctx, DefaultUserID, TypeTasks, rawTasks); err != nil {
		return fmt.Errorf("storage: seed tasks: %w", err)
	}
	return nil
}

func marshalItems[T any](items []T) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("storage: encode seed item: %w", err)
		}
		raw = append(raw, payload)
	}
	return raw, nil
}
