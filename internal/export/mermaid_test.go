package export

import (
	"strings"
	"testing"

	"critpath/internal/graph"
	"critpath/internal/schedule"
	"critpath/internal/task"
)

func analyzed(t *testing.T, tasks []task.Task, deps []task.Dependency) *schedule.Report {
	t.Helper()
	g, err := graph.Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	report := schedule.Analyze(g)
	return &report
}

func TestMermaidGenerator(t *testing.T) {
	tasks, deps := sampleSnapshot()
	gen := NewMermaidGenerator(tasks, deps)
	gen.SetReport(analyzed(t, tasks, deps))

	out, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(out, "%%{init:") {
		t.Error("expected mermaid init header")
	}
	if !strings.Contains(out, "flowchart LR") {
		t.Error("expected flowchart directive")
	}
	if !strings.Contains(out, "Design schema") {
		t.Error("expected task title in node label")
	}
	if !strings.Contains(out, "-->|finish_to_start|") {
		t.Error("expected solid scheduling edge")
	}
	if !strings.Contains(out, "-.->|relates_to|") {
		t.Error("expected dashed informational edge")
	}
	if !strings.Contains(out, "criticalNode") {
		t.Error("expected critical node styling with a report set")
	}
}

func TestMermaidGenerator_Deterministic(t *testing.T) {
	tasks, deps := sampleSnapshot()
	report := analyzed(t, tasks, deps)

	gen1 := NewMermaidGenerator(tasks, deps)
	gen1.SetReport(report)
	gen2 := NewMermaidGenerator(tasks, deps)
	gen2.SetReport(report)

	out1, err := gen1.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out2, err := gen2.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out1 != out2 {
		t.Error("identical input produced different diagrams")
	}
}

func TestMermaidGenerator_EdgeOutsideSnapshot(t *testing.T) {
	gen := NewMermaidGenerator(
		[]task.Task{{ID: "a"}},
		[]task.Dependency{{From: "a", To: "ghost", Kind: task.KindFinishToStart}},
	)
	if _, err := gen.Generate(); err == nil {
		t.Error("expected error for edge referencing missing node")
	}
}

func TestMermaidGenerator_SanitizesIDs(t *testing.T) {
	gen := NewMermaidGenerator(
		[]task.Task{{ID: "9a b/c", Title: "Odd"}, {ID: "9a-b_c", Title: "Clash"}},
		nil,
	)
	out, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.Contains(out, "9a b/c[") {
		t.Error("raw id leaked into mermaid node id")
	}
	// Both ids sanitize to the same base; the second must be suffixed.
	if !strings.Contains(out, "_2[") {
		t.Error("expected collision suffix for second node")
	}
}

func TestDOTGenerator(t *testing.T) {
	tasks, deps := sampleSnapshot()
	gen := NewDOTGenerator(tasks, deps)
	gen.SetReport(analyzed(t, tasks, deps))

	out, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Error("expected digraph header")
	}
	if !strings.Contains(out, "style=dashed") {
		t.Error("expected dashed informational edge")
	}
	if !strings.Contains(out, "#cc0000") {
		t.Error("expected critical highlighting")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("expected closing brace")
	}
}
