package schedule

import (
	"critpath/internal/graph"
	"critpath/internal/task"
)

// Timing is the per-task result of the forward and backward passes. All
// values are whole days relative to day zero of the project scope.
type Timing struct {
	TaskID         string `json:"task_id"`
	DurationDays   int    `json:"duration_days"`
	EarliestStart  int    `json:"earliest_start"`
	EarliestFinish int    `json:"earliest_finish"`
	LatestStart    int    `json:"latest_start"`
	LatestFinish   int    `json:"latest_finish"`
	Slack          int    `json:"slack"`
	Critical       bool   `json:"critical"`
}

// Report is the critical-path schedule for one project scope.
type Report struct {
	Timings map[string]Timing `json:"timings"`
	// Order is the topological order the passes ran in.
	Order []string `json:"order"`
	// ProjectDuration is max(earliest finish) over all tasks, in days.
	ProjectDuration int `json:"project_duration_days"`
	// CriticalTaskIDs and SlackTaskIDs preserve snapshot order; they are
	// presentation groupings, not a schedule.
	CriticalTaskIDs []string `json:"critical_task_ids"`
	SlackTaskIDs    []string `json:"slack_task_ids"`
}

// Analyze runs the forward and backward passes with the standard one-day
// default duration.
func Analyze(g *graph.Graph) Report {
	return AnalyzeWithDefault(g, task.DefaultDurationDays)
}

// AnalyzeWithDefault computes earliest/latest start and finish, slack, and
// critical membership for every task. An empty scope yields an empty report;
// a singleton scope yields that task as critical with zero slack.
func AnalyzeWithDefault(g *graph.Graph, defaultDays int) Report {
	order := Order(g)
	timings := make(map[string]Timing, len(order))

	// Forward pass: a task starts once its slowest prerequisite finishes.
	projectDuration := 0
	for _, id := range order {
		t, _ := g.Task(id)
		dur := task.DurationDaysWithDefault(t, defaultDays)

		earliestStart := 0
		for _, pred := range g.DependsOn(id) {
			if finish := timings[pred].EarliestFinish; finish > earliestStart {
				earliestStart = finish
			}
		}

		tm := Timing{
			TaskID:         id,
			DurationDays:   dur,
			EarliestStart:  earliestStart,
			EarliestFinish: earliestStart + dur,
		}
		timings[id] = tm

		if tm.EarliestFinish > projectDuration {
			projectDuration = tm.EarliestFinish
		}
	}

	// Backward pass: a task must finish before its earliest-starting
	// successor needs to begin.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		tm := timings[id]

		latestFinish := projectDuration
		for j, succ := range g.Blocks(id) {
			start := timings[succ].LatestStart
			if j == 0 || start < latestFinish {
				latestFinish = start
			}
		}

		tm.LatestFinish = latestFinish
		tm.LatestStart = latestFinish - tm.DurationDays
		tm.Slack = tm.LatestStart - tm.EarliestStart
		tm.Critical = tm.Slack == 0
		timings[id] = tm
	}

	report := Report{
		Timings:         timings,
		Order:           order,
		ProjectDuration: projectDuration,
		CriticalTaskIDs: make([]string, 0),
		SlackTaskIDs:    make([]string, 0),
	}
	for _, id := range g.TaskIDs() {
		if timings[id].Critical {
			report.CriticalTaskIDs = append(report.CriticalTaskIDs, id)
		} else {
			report.SlackTaskIDs = append(report.SlackTaskIDs, id)
		}
	}
	return report
}
