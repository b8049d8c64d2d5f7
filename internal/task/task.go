// Package task defines the task and dependency snapshot types the scheduling
// engine operates on. The engine only ever borrows read-only snapshots; the
// authoritative task store lives outside this module.
package task

import "time"

// Status defines the workflow status of a task. The engine passes it through
// untouched; it never influences scheduling.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusDone,
	StatusCancelled,
}

// IsValidStatus checks if a status string is a valid Status.
func IsValidStatus(s string) bool {
	for _, status := range ValidStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// Task is one schedulable work item within a project scope.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    Status     `json:"status,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// DependencyKind classifies the relation carried by a dependency edge.
type DependencyKind string

const (
	// KindFinishToStart: the predecessor must finish before the successor starts.
	KindFinishToStart DependencyKind = "finish_to_start"
	// KindStartToStart: the predecessor must start before the successor starts.
	KindStartToStart DependencyKind = "start_to_start"
	KindRelatesTo    DependencyKind = "relates_to"
	KindDuplicates   DependencyKind = "duplicates"
	KindParentOf     DependencyKind = "parent_of"
)

// SchedulingRelevant reports whether edges of this kind participate in cycle
// detection and critical-path analysis. Informational kinds are still carried
// through graph export but never traversed.
func (k DependencyKind) SchedulingRelevant() bool {
	return k == KindFinishToStart || k == KindStartToStart
}

// IsValidKind checks if a kind string is a known DependencyKind.
func IsValidKind(s string) bool {
	switch DependencyKind(s) {
	case KindFinishToStart, KindStartToStart, KindRelatesTo, KindDuplicates, KindParentOf:
		return true
	}
	return false
}

// Dependency is one directed edge: From must complete before To can start.
type Dependency struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Kind DependencyKind `json:"kind"`
}
