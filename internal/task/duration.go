package task

import (
	"math"
	"time"
)

// DefaultDurationDays is used when a task is missing either date.
const DefaultDurationDays = 1

const hoursPerDay = 24

// DurationDays derives a task's scheduling duration in whole days from its
// date range: ceil((due - start) / 1 day), floored at 1. A task with a due
// date before its start date still takes one day.
func DurationDays(t Task) int {
	return DurationDaysWithDefault(t, DefaultDurationDays)
}

// DurationDaysWithDefault behaves like DurationDays but substitutes
// defaultDays when either date is missing. The floor of 1 applies to the
// default as well.
func DurationDaysWithDefault(t Task, defaultDays int) int {
	if defaultDays < 1 {
		defaultDays = DefaultDurationDays
	}
	if t.StartDate == nil || t.DueDate == nil {
		return defaultDays
	}
	days := int(math.Ceil(t.DueDate.Sub(*t.StartDate).Hours() / hoursPerDay))
	if days < 1 {
		return 1
	}
	return days
}

// SpanDays is a convenience for building test fixtures and snapshots: it
// returns start and due pointers covering the given number of days.
func SpanDays(start time.Time, days int) (*time.Time, *time.Time) {
	due := start.Add(time.Duration(days) * hoursPerDay * time.Hour)
	return &start, &due
}
