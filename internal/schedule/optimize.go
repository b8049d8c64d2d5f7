package schedule

import (
	"sort"

	"critpath/internal/task"
)

// Optimize returns a recommended execution order: critical tasks first,
// ascending by earliest start with ties keeping their snapshot order, then
// the remaining tasks in their original relative order. The input slice is
// not modified; the recommendation never touches persisted task order.
func Optimize(tasks []task.Task, report Report) []task.Task {
	critical := make([]task.Task, 0, len(report.CriticalTaskIDs))
	rest := make([]task.Task, 0, len(tasks))

	for _, t := range tasks {
		if tm, ok := report.Timings[t.ID]; ok && tm.Critical {
			critical = append(critical, t)
		} else {
			rest = append(rest, t)
		}
	}

	sort.SliceStable(critical, func(i, j int) bool {
		return report.Timings[critical[i].ID].EarliestStart < report.Timings[critical[j].ID].EarliestStart
	})

	return append(critical, rest...)
}
