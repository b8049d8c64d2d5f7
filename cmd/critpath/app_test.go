package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"critpath/internal/config"
	"critpath/internal/task"
)

const snapshotTOML = `
[[tasks]]
id = "design"
title = "Design"
start_date = "2026-08-01"
due_date = "2026-08-03"

[[tasks]]
id = "build"
title = "Build"

[[dependencies]]
from = "design"
to = "build"
`

func testApp(t *testing.T) (*App, string) {
	t.Helper()
	tmpDir := t.TempDir()

	snapshotPath := filepath.Join(tmpDir, "plan.toml")
	if err := os.WriteFile(snapshotPath, []byte(snapshotTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.SnapshotPath = snapshotPath
	cfg.History.Path = filepath.Join(tmpDir, "history.db")
	cfg.Output.Mermaid = filepath.Join(tmpDir, "out", "graph.mmd")
	cfg.Output.JSON = filepath.Join(tmpDir, "out", "graph.json")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(app.Close)
	return app, tmpDir
}

func TestRunOnce(t *testing.T) {
	app, _ := testApp(t)

	if err := app.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if _, err := os.Stat(app.Config.Output.Mermaid); os.IsNotExist(err) {
		t.Error("mermaid output was not generated")
	}
	if _, err := os.Stat(app.Config.Output.JSON); os.IsNotExist(err) {
		t.Error("json output was not generated")
	}

	runs, err := app.store.ListRuns(app.Config.ProjectKey, time.Time{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].TaskCount != 2 || runs[0].EdgeCount != 1 {
		t.Errorf("recorded run = %+v", runs[0])
	}
	if runs[0].ProjectDurationDays != 3 {
		t.Errorf("project duration = %d, want 3", runs[0].ProjectDurationDays)
	}
}

func TestCheckEdge(t *testing.T) {
	app, _ := testApp(t)
	ctx := context.Background()

	if err := app.CheckEdge(ctx, "build:design:relates_to"); err != nil {
		t.Errorf("informational back edge should be accepted: %v", err)
	}
	if err := app.CheckEdge(ctx, "build:design"); err == nil {
		t.Error("expected cycle rejection for build:design")
	}
	if err := app.CheckEdge(ctx, "design"); err == nil {
		t.Error("expected error for malformed edge spec")
	}
	if err := app.CheckEdge(ctx, "a:b:c:d"); err == nil {
		t.Error("expected error for oversized edge spec")
	}
}

func TestPrintExportUnknownFormat(t *testing.T) {
	app, _ := testApp(t)

	if err := app.PrintExport(context.Background(), "svg"); err == nil {
		t.Error("expected error for unknown export format")
	}
}

func TestPrintTrendsWithoutRuns(t *testing.T) {
	app, _ := testApp(t)

	err := app.PrintTrends(context.Background(), time.Hour)
	if err == nil || !strings.Contains(err.Error(), "no runs") {
		t.Errorf("expected no-runs error, got %v", err)
	}
}

func TestNewAppWithoutHistory(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = ""
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if a.store != nil {
		t.Error("history store should be disabled")
	}

	result, err := a.Service.Analyze(context.Background(), []task.Task{{ID: "solo"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.recordRun(result); err != nil {
		t.Errorf("recordRun with disabled store: %v", err)
	}
}
