package export

import (
	"fmt"
	"strings"

	"critpath/internal/schedule"
	"critpath/internal/task"
)

type MermaidGenerator struct {
	tasks  []task.Task
	deps   []task.Dependency
	report *schedule.Report
}

func NewMermaidGenerator(tasks []task.Task, deps []task.Dependency) *MermaidGenerator {
	return &MermaidGenerator{tasks: tasks, deps: deps}
}

// SetReport enables critical-path highlighting and per-node timing labels.
func (m *MermaidGenerator) SetReport(report *schedule.Report) {
	m.report = report
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'theme': 'base', 'themeVariables': {'textColor': '#000000', 'primaryTextColor': '#000000', 'lineColor': '#333333'}, 'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	names := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		names = append(names, t.ID)
	}
	ids := makeIDs(names)

	criticalNames := make([]string, 0)
	for _, t := range m.tasks {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[t.ID], escapeLabel(taskLabel(t, m.report))))
		if isCritical(m.report, t.ID) {
			criticalNames = append(criticalNames, t.ID)
		}
	}

	b.WriteString("\n")
	if len(names) > 0 {
		b.WriteString("  classDef taskNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(names, ids), ","))
		b.WriteString(" taskNode;\n")
	}
	if len(criticalNames) > 0 {
		b.WriteString("  classDef criticalNode fill:#ffecec,stroke:#cc0000,stroke-width:2px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(criticalNames, ids), ","))
		b.WriteString(" criticalNode;\n")
	}

	b.WriteString("\n")
	linkIndex := 0
	criticalLinkIndexes := make([]int, 0)
	infoLinkIndexes := make([]int, 0)
	for _, d := range m.deps {
		fromID, okFrom := ids[d.From]
		toID, okTo := ids[d.To]
		if !okFrom || !okTo {
			return "", fmt.Errorf("edge %s -> %s references task outside snapshot", d.From, d.To)
		}

		if d.Kind.SchedulingRelevant() {
			b.WriteString(fmt.Sprintf("  %s -->|%s| %s\n", fromID, d.Kind, toID))
			if isCritical(m.report, d.From) && isCritical(m.report, d.To) {
				criticalLinkIndexes = append(criticalLinkIndexes, linkIndex)
			}
		} else {
			b.WriteString(fmt.Sprintf("  %s -.->|%s| %s\n", fromID, d.Kind, toID))
			infoLinkIndexes = append(infoLinkIndexes, linkIndex)
		}
		linkIndex++
	}

	if len(criticalLinkIndexes) > 0 || len(infoLinkIndexes) > 0 {
		b.WriteString("\n")
	}
	if len(criticalLinkIndexes) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(criticalLinkIndexes)))
	}
	if len(infoLinkIndexes) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#777777,stroke-dasharray:4 3;\n", joinInts(infoLinkIndexes)))
	}

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_nodes[\"Node line 2: es=earliest start, ef=earliest finish, slack in days\"]\n")
	b.WriteString("    legend_edges[\"Solid edge = scheduling dependency, dashed = informational; red = critical path\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px,color:#000000;\n")
	b.WriteString("  class legend_nodes,legend_edges legendNode;\n")

	return b.String(), nil
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}
