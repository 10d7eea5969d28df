package planner

import (
	"testing"
	"time"

	"github.com/swedish-year-planner/api/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEventMatches_FixedSingleDay(t *testing.T) {
	t.Parallel()

	e := model.Event{ID: "e1", Title: "Skolstart", StartDate: "2025-08-20"}

	if !EventMatches(e, day(2025, 8, 20)) {
		t.Fatalf("event should match its own date")
	}
	for _, probe := range []time.Time{day(2025, 8, 19), day(2025, 8, 21), day(2024, 8, 20)} {
		if EventMatches(e, probe) {
			t.Errorf("event unexpectedly matched %v", probe)
		}
	}
}

func TestEventMatches_FixedRangeIncludesInterior(t *testing.T) {
	t.Parallel()

	e := model.Event{ID: "e1", Title: "Semester", StartDate: "2025-07-07", EndDate: "2025-07-27"}

	for _, probe := range []time.Time{day(2025, 7, 7), day(2025, 7, 15), day(2025, 7, 27)} {
		if !EventMatches(e, probe) {
			t.Errorf("event should match %v", probe)
		}
	}
	for _, probe := range []time.Time{day(2025, 7, 6), day(2025, 7, 28)} {
		if EventMatches(e, probe) {
			t.Errorf("event unexpectedly matched %v", probe)
		}
	}
}

func TestEventMatches_RecurringAnchors(t *testing.T) {
	t.Parallel()

	e := model.Event{ID: "e1", Title: "Midsommar", StartDate: "06-20", EndDate: "06-22", Recurring: true}

	if !EventMatches(e, day(2025, 6, 21)) {
		t.Fatalf("recurring event should match interior day in any year")
	}
	if !EventMatches(e, day(2031, 6, 20)) {
		t.Fatalf("recurring event should match in a future year")
	}
	if EventMatches(e, day(2025, 6, 23)) {
		t.Fatalf("recurring event matched outside its range")
	}
}

func TestMarkersOn_RecurringMultiDay(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "e1", Title: "Festival", StartDate: "06-01", EndDate: "06-10", Recurring: true},
	}

	markers := MarkersOn(events, day(2025, 6, 1))
	if len(markers) != 1 || markers[0].Marker != MarkerStart {
		t.Fatalf("expected start marker on 06-01, got %+v", markers)
	}

	markers = MarkersOn(events, day(2025, 6, 10))
	if len(markers) != 1 || markers[0].Marker != MarkerEnd {
		t.Fatalf("expected end marker on 06-10, got %+v", markers)
	}

	// Interior days are suppressed from the marker list even though the
	// event still matches them.
	for d := 2; d <= 9; d++ {
		if markers := MarkersOn(events, day(2025, 6, d)); len(markers) != 0 {
			t.Errorf("expected no markers on 06-%02d, got %+v", d, markers)
		}
		if matched := EventsOn(events, day(2025, 6, d)); len(matched) != 1 {
			t.Errorf("expected interior match on 06-%02d", d)
		}
	}

	if markers := MarkersOn(events, day(2025, 7, 1)); len(markers) != 0 {
		t.Errorf("expected no markers outside the range")
	}
}

func TestMarkersOn_SingleDayHasNoBoundaryMarker(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "e1", Title: "Julafton", StartDate: "12-24", Recurring: true},
		{ID: "e2", Title: "Konsert", StartDate: "2025-12-24"},
	}

	markers := MarkersOn(events, day(2025, 12, 24))
	if len(markers) != 2 {
		t.Fatalf("expected both single-day events, got %d", len(markers))
	}
	for _, m := range markers {
		if m.Marker != "" {
			t.Errorf("single-day event %s should have no marker, got %q", m.ID, m.Marker)
		}
	}
}

func TestMarkersOn_FixedMultiDay(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "e1", Title: "Semester", StartDate: "2025-07-07", EndDate: "2025-07-27"},
	}

	if markers := MarkersOn(events, day(2025, 7, 7)); len(markers) != 1 || markers[0].Marker != MarkerStart {
		t.Fatalf("expected start marker, got %+v", markers)
	}
	if markers := MarkersOn(events, day(2025, 7, 27)); len(markers) != 1 || markers[0].Marker != MarkerEnd {
		t.Fatalf("expected end marker, got %+v", markers)
	}
	if markers := MarkersOn(events, day(2025, 7, 15)); len(markers) != 0 {
		t.Fatalf("interior day should be suppressed, got %+v", markers)
	}
}

func TestTaskMatches(t *testing.T) {
	t.Parallel()

	recurring := model.Task{ID: "t1", Title: "Julklappar", DueDate: "12-01", Recurring: true}
	fixed := model.Task{ID: "t2", Title: "Boka stuga", DueDate: "2025-06-01"}

	if !TaskMatches(recurring, day(2026, 12, 1)) {
		t.Errorf("recurring task should match its anchor day every year")
	}
	if TaskMatches(recurring, day(2026, 12, 2)) {
		t.Errorf("recurring task matched a non-anchor day")
	}
	if !TaskMatches(fixed, day(2025, 6, 1)) {
		t.Errorf("fixed task should match its due date")
	}
	if TaskMatches(fixed, day(2026, 6, 1)) {
		t.Errorf("fixed task matched the wrong year")
	}
}

func TestMatchers_MalformedDatesNeverMatch(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "e1", Title: "Trasig", StartDate: "not-a-date"},
		{ID: "e2", Title: "Trasig anchor", StartDate: "99-99", Recurring: true},
	}
	tasks := []model.Task{
		{ID: "t1", Title: "Trasig", DueDate: "nope", Recurring: true},
	}

	if matched := EventsOn(events, day(2025, 6, 1)); len(matched) != 0 {
		t.Errorf("malformed events matched: %+v", matched)
	}
	if matched := TasksOn(tasks, day(2025, 6, 1)); len(matched) != 0 {
		t.Errorf("malformed tasks matched: %+v", matched)
	}
}
