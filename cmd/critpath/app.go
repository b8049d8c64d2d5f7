package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"critpath/internal/config"
	"critpath/internal/core/app"
	"critpath/internal/export"
	"critpath/internal/history"
	"critpath/internal/schedule"
	"critpath/internal/shared/observability"
	"critpath/internal/shared/util"
	"critpath/internal/snapshot"
	"critpath/internal/task"
	"critpath/internal/watcher"
)

type App struct {
	Config  *config.Config
	Service *app.ScheduleService

	store     *history.Store
	obsServer *observability.Server
	limiter   *util.Limiter
	watcher   *watcher.Watcher
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		Service: app.NewScheduleService(cfg, slog.Default()),
		limiter: util.NewLimiter(cfg.Watch.RunsPerSec, cfg.Watch.Burst),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.obsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = a.obsServer.Stop(ctx)
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// RunOnce loads the snapshot, analyzes it, writes the configured outputs and
// records the run.
func (a *App) RunOnce(ctx context.Context) error {
	tasks, deps, err := snapshot.Load(a.Config.SnapshotPath)
	if err != nil {
		return err
	}

	result, err := a.Service.Analyze(ctx, tasks, deps)
	if err != nil {
		return err
	}

	ordered, err := a.Service.Optimize(ctx, tasks, result.Report)
	if err != nil {
		return err
	}

	a.printSummary(result, ordered)

	if err := a.writeOutputs(ctx, tasks, deps, &result.Report); err != nil {
		return err
	}
	return a.recordRun(result)
}

// RunWatch runs one analysis, then re-runs on snapshot changes until the
// context is cancelled.
func (a *App) RunWatch(ctx context.Context) error {
	if err := a.RunOnce(ctx); err != nil {
		slog.Error("initial analysis failed", "error", err)
	}

	if a.Config.Observability.Addr != "" {
		a.obsServer = observability.NewServer(a.Config.Observability.Addr)
		if err := a.obsServer.Start(ctx); err != nil {
			return fmt.Errorf("start observability server: %w", err)
		}
	}

	w, err := watcher.NewWatcher(a.Config.SnapshotPath, a.Config.Watch.Debounce, a.Config.Watch.Exclude, func(path string) {
		if !a.limiter.Allow(1) {
			slog.Debug("analysis throttled", "path", path)
			return
		}
		if err := a.RunOnce(ctx); err != nil {
			slog.Error("analysis failed", "path", path, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	a.watcher = w

	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	slog.Info("watching snapshot", "path", a.Config.SnapshotPath)
	<-ctx.Done()
	return nil
}

// CheckEdge validates a proposed dependency edge, given as from:to[:kind],
// against the current snapshot.
func (a *App) CheckEdge(ctx context.Context, spec string) error {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("invalid edge spec %q, want from:to[:kind]", spec)
	}
	from, to := parts[0], parts[1]
	kind := task.KindFinishToStart
	if len(parts) == 3 {
		kind = task.DependencyKind(parts[2])
	}

	tasks, deps, err := snapshot.Load(a.Config.SnapshotPath)
	if err != nil {
		return err
	}
	result, err := a.Service.Analyze(ctx, tasks, deps)
	if err != nil {
		return err
	}

	if err := a.Service.ValidateEdge(ctx, result.Graph, from, to, kind); err != nil {
		return err
	}
	fmt.Printf("OK: %s -> %s (%s) can be added\n", from, to, kind)
	return nil
}

// PrintExport writes the snapshot in the requested format to stdout.
func (a *App) PrintExport(ctx context.Context, format string) error {
	tasks, deps, err := snapshot.Load(a.Config.SnapshotPath)
	if err != nil {
		return err
	}

	var report *schedule.Report
	if format != "json" {
		result, err := a.Service.Analyze(ctx, tasks, deps)
		if err != nil {
			return err
		}
		report = &result.Report
	}

	out, err := a.Service.Export(ctx, format, tasks, deps, report)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// PrintTrends renders the run history over the given window.
func (a *App) PrintTrends(ctx context.Context, window time.Duration) error {
	if a.store == nil {
		return fmt.Errorf("history is disabled; set history.path in the config")
	}

	since := time.Time{}
	if window > 0 {
		since = time.Now().UTC().Add(-window)
	}
	runs, err := a.store.ListRuns(a.Config.ProjectKey, since)
	if err != nil {
		return err
	}

	report, err := history.BuildTrendReport(runs, window)
	if err != nil {
		return err
	}

	data, err := export.JSON(report)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (a *App) writeOutputs(ctx context.Context, tasks []task.Task, deps []task.Dependency, report *schedule.Report) error {
	outputs := []struct {
		path   string
		format string
	}{
		{a.Config.Output.Mermaid, "mermaid"},
		{a.Config.Output.DOT, "dot"},
		{a.Config.Output.JSON, "json"},
	}

	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		content, err := a.Service.Export(ctx, out.format, tasks, deps, report)
		if err != nil {
			return fmt.Errorf("render %s output: %w", out.format, err)
		}
		if err := util.WriteFileWithDirs(out.path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s output: %w", out.format, err)
		}
		slog.Debug("output written", "format", out.format, "path", out.path)
	}
	return nil
}

func (a *App) recordRun(result app.AnalysisResult) error {
	if a.store == nil {
		return nil
	}

	maxSlack := 0
	for _, tm := range result.Report.Timings {
		if tm.Slack > maxSlack {
			maxSlack = tm.Slack
		}
	}

	saved, err := a.store.SaveRun(a.Config.ProjectKey, history.Run{
		TaskCount:           result.Graph.TaskCount(),
		EdgeCount:           result.Graph.EdgeCount(),
		CriticalCount:       len(result.Report.CriticalTaskIDs),
		ProjectDurationDays: result.Report.ProjectDuration,
		MaxSlackDays:        maxSlack,
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	slog.Debug("run recorded", "run_id", saved.RunID)
	return nil
}

func (a *App) printSummary(result app.AnalysisResult, ordered []task.Task) {
	report := result.Report

	fmt.Println("Critical Path Analysis")
	fmt.Println("======================")
	fmt.Printf("Tasks: %d  Scheduling edges: %d\n", result.Graph.TaskCount(), result.Graph.EdgeCount())
	fmt.Printf("Project duration: %d days\n\n", report.ProjectDuration)

	fmt.Printf("Critical tasks (%d)\n", len(report.CriticalTaskIDs))
	for _, id := range report.CriticalTaskIDs {
		tm := report.Timings[id]
		fmt.Printf("- %s (start day %d, %d days)\n", summaryName(result, id), tm.EarliestStart, tm.DurationDays)
	}
	fmt.Println()

	fmt.Printf("Tasks with slack (%d)\n", len(report.SlackTaskIDs))
	for _, id := range report.SlackTaskIDs {
		tm := report.Timings[id]
		fmt.Printf("- %s (slack %d days)\n", summaryName(result, id), tm.Slack)
	}
	fmt.Println()

	fmt.Println("Suggested order")
	for i, t := range ordered {
		fmt.Printf("%2d. %s\n", i+1, summaryName(result, t.ID))
	}
}

func summaryName(result app.AnalysisResult, id string) string {
	if t, ok := result.Graph.Task(id); ok && t.Title != "" {
		return fmt.Sprintf("%s (%s)", t.Title, id)
	}
	return id
}
