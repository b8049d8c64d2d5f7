package export

import (
	"fmt"
	"strings"
	"unicode"

	"critpath/internal/schedule"
	"critpath/internal/task"
)

func sanitizeID(id string) string {
	if id == "" {
		return "t"
	}
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "t"
	}
	first := rune(out[0])
	if unicode.IsDigit(first) {
		return "t_" + out
	}
	return out
}

func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func taskLabel(t task.Task, report *schedule.Report) string {
	label := nodeLabel(t)
	if report == nil {
		return label
	}
	tm, ok := report.Timings[t.ID]
	if !ok {
		return label
	}
	return fmt.Sprintf("%s\\n(es=%d ef=%d slack=%d)", label, tm.EarliestStart, tm.EarliestFinish, tm.Slack)
}

func isCritical(report *schedule.Report, id string) bool {
	if report == nil {
		return false
	}
	return report.Timings[id].Critical
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}
