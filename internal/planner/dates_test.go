package planner

import (
	"testing"
	"time"
)

func TestParseMonthDay(t *testing.T) {
	t.Parallel()

	md, err := ParseMonthDay("06-21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != (MonthDay{Month: 6, Day: 21}) {
		t.Fatalf("unexpected anchor: %+v", md)
	}

	for _, invalid := range []string{"", "foo", "06", "13-01", "00-10", "06-32", "06-00", "2025-06-21", "aa-bb"} {
		if _, err := ParseMonthDay(invalid); err == nil {
			t.Errorf("ParseMonthDay(%q): expected error", invalid)
		}
	}
}

func TestInRange_SameMonth(t *testing.T) {
	t.Parallel()

	start := MonthDay{Month: 6, Day: 10}
	end := MonthDay{Month: 6, Day: 20}

	cases := []struct {
		probe MonthDay
		want  bool
	}{
		{MonthDay{6, 10}, true},
		{MonthDay{6, 15}, true},
		{MonthDay{6, 20}, true},
		{MonthDay{6, 9}, false},
		{MonthDay{6, 21}, false},
		{MonthDay{7, 15}, false},
	}
	for _, tc := range cases {
		if got := InRange(tc.probe, start, end); got != tc.want {
			t.Errorf("InRange(%+v) = %v, want %v", tc.probe, got, tc.want)
		}
	}
}

func TestInRange_CrossMonth(t *testing.T) {
	t.Parallel()

	start := MonthDay{Month: 5, Day: 25}
	end := MonthDay{Month: 8, Day: 5}

	cases := []struct {
		probe MonthDay
		want  bool
	}{
		{MonthDay{5, 25}, true},
		{MonthDay{5, 31}, true},
		{MonthDay{6, 1}, true},  // interior month
		{MonthDay{7, 15}, true}, // interior month
		{MonthDay{8, 5}, true},
		{MonthDay{5, 24}, false},
		{MonthDay{8, 6}, false},
		{MonthDay{9, 1}, false},
	}
	for _, tc := range cases {
		if got := InRange(tc.probe, start, end); got != tc.want {
			t.Errorf("InRange(%+v) = %v, want %v", tc.probe, got, tc.want)
		}
	}
}

// Pins the known limitation: ranges wrapping past December do not match their
// interior wrapped months, only the anchor months themselves.
func TestInRange_DecemberWrapNotMatched(t *testing.T) {
	t.Parallel()

	start := MonthDay{Month: 11, Day: 20}
	end := MonthDay{Month: 2, Day: 10}

	if !InRange(MonthDay{11, 25}, start, end) {
		t.Errorf("start-month probe should match")
	}
	if !InRange(MonthDay{2, 5}, start, end) {
		t.Errorf("end-month probe should match")
	}
	if InRange(MonthDay{12, 15}, start, end) {
		t.Errorf("wrapped interior month unexpectedly matched")
	}
	if InRange(MonthDay{1, 15}, start, end) {
		t.Errorf("wrapped interior month unexpectedly matched")
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 6, 21, 8, 30, 0, 0, time.UTC)
	b := time.Date(2025, 6, 21, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 6, 21, 8, 30, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Errorf("same calendar day not detected")
	}
	if SameDay(a, c) {
		t.Errorf("different years should not be the same day")
	}
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatShortDate(d); got != "Maj 5" {
		t.Errorf("FormatShortDate = %q", got)
	}
	if got := FormatFullDate(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)); got != "21 juni 2025" {
		t.Errorf("FormatFullDate = %q", got)
	}
	if got := FormatAnchor(MonthDay{Month: 10, Day: 31}); got != "Okt 31" {
		t.Errorf("FormatAnchor = %q", got)
	}
}
