package export

import (
	"fmt"
	"strings"

	"critpath/internal/schedule"
	"critpath/internal/task"
)

type DOTGenerator struct {
	tasks  []task.Task
	deps   []task.Dependency
	report *schedule.Report
}

func NewDOTGenerator(tasks []task.Task, deps []task.Dependency) *DOTGenerator {
	return &DOTGenerator{tasks: tasks, deps: deps}
}

func (d *DOTGenerator) SetReport(report *schedule.Report) {
	d.report = report
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("  splines=polyline;\n\n")

	names := make([]string, 0, len(d.tasks))
	for _, t := range d.tasks {
		names = append(names, t.ID)
	}
	ids := makeIDs(names)

	for _, t := range d.tasks {
		label := taskLabel(t, d.report)
		if isCritical(d.report, t.ID) {
			buf.WriteString(fmt.Sprintf("  %s [label=\"%s\", color=\"#cc0000\", penwidth=2];\n", ids[t.ID], escapeLabel(label)))
		} else {
			buf.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", ids[t.ID], escapeLabel(label)))
		}
	}

	buf.WriteString("\n")
	for _, dep := range d.deps {
		fromID, okFrom := ids[dep.From]
		toID, okTo := ids[dep.To]
		if !okFrom || !okTo {
			return "", fmt.Errorf("edge %s -> %s references task outside snapshot", dep.From, dep.To)
		}

		attrs := fmt.Sprintf("label=\"%s\"", dep.Kind)
		if !dep.Kind.SchedulingRelevant() {
			attrs += ", style=dashed, color=\"#777777\""
		} else if isCritical(d.report, dep.From) && isCritical(d.report, dep.To) {
			attrs += ", color=\"#cc0000\", penwidth=2.4"
		}
		buf.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", fromID, toID, attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
