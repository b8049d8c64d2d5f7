package task

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want int
	}{
		{"no dates", Task{ID: "a"}, 1},
		{"only start", Task{ID: "a", StartDate: date(2025, 3, 1)}, 1},
		{"only due", Task{ID: "a", DueDate: date(2025, 3, 5)}, 1},
		{"four days", Task{ID: "a", StartDate: date(2025, 3, 1), DueDate: date(2025, 3, 5)}, 4},
		{"same day", Task{ID: "a", StartDate: date(2025, 3, 1), DueDate: date(2025, 3, 1)}, 1},
		{"due before start", Task{ID: "a", StartDate: date(2025, 3, 5), DueDate: date(2025, 3, 1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationDays(tt.task); got != tt.want {
				t.Errorf("DurationDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDurationDays_PartialDayRoundsUp(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	due := start.Add(30 * time.Hour)
	got := DurationDays(Task{ID: "a", StartDate: &start, DueDate: &due})
	if got != 2 {
		t.Errorf("expected 30h range to round up to 2 days, got %d", got)
	}
}

func TestDurationDaysWithDefault(t *testing.T) {
	if got := DurationDaysWithDefault(Task{ID: "a"}, 3); got != 3 {
		t.Errorf("expected default of 3 days, got %d", got)
	}

	// A bogus default still floors at one day.
	if got := DurationDaysWithDefault(Task{ID: "a"}, 0); got != 1 {
		t.Errorf("expected zero default to floor at 1, got %d", got)
	}

	// Dates win over the default.
	tk := Task{ID: "a", StartDate: date(2025, 3, 1), DueDate: date(2025, 3, 3)}
	if got := DurationDaysWithDefault(tk, 7); got != 2 {
		t.Errorf("expected dates to override default, got %d", got)
	}
}

func TestSpanDays(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s, d := SpanDays(start, 5)
	if got := DurationDays(Task{ID: "a", StartDate: s, DueDate: d}); got != 5 {
		t.Errorf("expected 5 day span, got %d", got)
	}
}
