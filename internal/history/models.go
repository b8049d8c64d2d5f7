package history

import "time"

const SchemaVersion = 1

// Run records the headline numbers of one completed analysis so trends can
// be tracked across snapshot edits. The engine itself stays stateless; only
// the CLI persists these.
type Run struct {
	SchemaVersion       int       `json:"schema_version"`
	RunID               string    `json:"run_id"`
	Timestamp           time.Time `json:"timestamp"`
	TaskCount           int       `json:"task_count"`
	EdgeCount           int       `json:"edge_count"`
	CriticalCount       int       `json:"critical_count"`
	ProjectDurationDays int       `json:"project_duration_days"`
	MaxSlackDays        int       `json:"max_slack_days"`
}

type TrendPoint struct {
	Timestamp           time.Time `json:"timestamp"`
	RunID               string    `json:"run_id"`
	TaskCount           int       `json:"task_count"`
	EdgeCount           int       `json:"edge_count"`
	CriticalCount       int       `json:"critical_count"`
	ProjectDurationDays int       `json:"project_duration_days"`
	MaxSlackDays        int       `json:"max_slack_days"`
	DeltaTasks          int       `json:"delta_tasks"`
	DeltaEdges          int       `json:"delta_edges"`
	DeltaCritical       int       `json:"delta_critical"`
	DeltaDuration       int       `json:"delta_duration"`
	AvgDuration         float64   `json:"avg_duration"`
	AvgCritical         float64   `json:"avg_critical"`
	WindowHours         float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}
