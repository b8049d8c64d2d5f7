// Package app wires the scheduling engine packages into the operations the
// CLI and watcher call. Every operation works on a caller-supplied snapshot
// and returns fresh results; the service itself holds no graph state between
// calls.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gobwas/glob"

	"critpath/internal/config"
	"critpath/internal/core/errors"
	"critpath/internal/export"
	"critpath/internal/graph"
	"critpath/internal/schedule"
	"critpath/internal/shared/observability"
	"critpath/internal/task"
)

type ScheduleService struct {
	cfg *config.Config
	log *slog.Logger
}

func NewScheduleService(cfg *config.Config, log *slog.Logger) *ScheduleService {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &ScheduleService{cfg: cfg, log: log}
}

// AnalysisResult bundles everything one pass over a snapshot produces.
type AnalysisResult struct {
	Graph  *graph.Graph
	Report schedule.Report
}

// ValidateEdge decides whether a proposed dependency edge may be committed
// on top of the already-committed snapshot. Checks run cheapest first so the
// caller gets the most specific fault: self edge, unknown endpoint, exact
// duplicate, then the cycle simulation.
func (s *ScheduleService) ValidateEdge(ctx context.Context, g *graph.Graph, from, to string, kind task.DependencyKind) error {
	ctx, span := observability.Tracer.Start(ctx, "scheduleService.ValidateEdge")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	if g == nil {
		return errors.New(errors.CodeValidationError, "graph is required")
	}
	if !task.IsValidKind(string(kind)) {
		return errors.New(errors.CodeValidationError, "unknown dependency kind").
			WithContext(errors.CtxKind, string(kind))
	}

	if from == to {
		observability.EdgeValidationsTotal.WithLabelValues(observability.VerdictSelf).Inc()
		return errors.New(errors.CodeSelfDependency, "task cannot depend on itself").
			WithContext(errors.CtxTaskID, from)
	}

	for _, id := range []string{from, to} {
		if _, ok := g.Task(id); !ok {
			observability.EdgeValidationsTotal.WithLabelValues(observability.VerdictDangling).Inc()
			return errors.New(errors.CodeDanglingReference, "edge references unknown task").
				WithContext(errors.CtxTaskID, id).
				WithContext(errors.CtxFrom, from).
				WithContext(errors.CtxTo, to)
		}
	}

	if g.HasDependency(from, to, kind) {
		observability.EdgeValidationsTotal.WithLabelValues(observability.VerdictDuplicate).Inc()
		return errors.New(errors.CodeDuplicateDependency, "dependency already exists").
			WithContext(errors.CtxFrom, from).
			WithContext(errors.CtxTo, to).
			WithContext(errors.CtxKind, string(kind))
	}

	if kind.SchedulingRelevant() && g.WouldCreateCycle(from, to) {
		observability.EdgeValidationsTotal.WithLabelValues(observability.VerdictCycle).Inc()
		return errors.New(errors.CodeCircularDependency, "dependency would create a cycle").
			WithContext(errors.CtxFrom, from).
			WithContext(errors.CtxTo, to)
	}

	observability.EdgeValidationsTotal.WithLabelValues(observability.VerdictAccepted).Inc()
	return nil
}

// AvailableDependencies returns the one-hop candidate list for a picker UI.
// Candidates may still be rejected by ValidateEdge; the hint is deliberately
// permissive so the list stays cheap to compute.
func (s *ScheduleService) AvailableDependencies(ctx context.Context, g *graph.Graph, id string) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New(errors.CodeValidationError, "graph is required")
	}
	return g.AvailableDependencies(id)
}

// Analyze builds the graph for the snapshot and runs the critical-path
// passes over it.
func (s *ScheduleService) Analyze(ctx context.Context, tasks []task.Task, deps []task.Dependency) (AnalysisResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "scheduleService.Analyze")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	start := time.Now()
	g, err := graph.Build(tasks, deps)
	if err != nil {
		return AnalysisResult{}, err
	}

	if s.cfg.Debug.AssertAcyclic {
		if err := schedule.AssertAcyclic(g); err != nil {
			return AnalysisResult{}, err
		}
	}

	report := schedule.AnalyzeWithDefault(g, s.cfg.DefaultTaskDays)

	observability.AnalysisDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	observability.GraphTasks.Set(float64(g.TaskCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.ProjectDurationDays.Set(float64(report.ProjectDuration))
	observability.CriticalTasks.Set(float64(len(report.CriticalTaskIDs)))
	observability.AnalysisRunsTotal.Inc()

	s.log.Debug("analysis complete",
		"tasks", g.TaskCount(),
		"edges", g.EdgeCount(),
		"project_duration_days", report.ProjectDuration,
		"critical_tasks", len(report.CriticalTaskIDs))

	return AnalysisResult{Graph: g, Report: report}, nil
}

// Optimize reorders the snapshot critical-first. The input slice is left
// untouched.
func (s *ScheduleService) Optimize(ctx context.Context, tasks []task.Task, report schedule.Report) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return schedule.Optimize(tasks, report), nil
}

// Export renders the snapshot in the requested format. The configured focus
// glob, when set, narrows the output to matching tasks and the edges between
// them.
func (s *ScheduleService) Export(ctx context.Context, format string, tasks []task.Task, deps []task.Dependency, report *schedule.Report) (string, error) {
	ctx, span := observability.Tracer.Start(ctx, "scheduleService.Export")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	tasks, deps, err := s.applyFocus(tasks, deps)
	if err != nil {
		return "", err
	}

	switch format {
	case "mermaid":
		gen := export.NewMermaidGenerator(tasks, deps)
		gen.SetReport(report)
		return gen.Generate()
	case "dot":
		gen := export.NewDOTGenerator(tasks, deps)
		gen.SetReport(report)
		return gen.Generate()
	case "json":
		data, err := export.JSON(export.ToGraph(tasks, deps))
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// applyFocus filters the snapshot by the configured glob, matching task id
// or title, and drops edges that lose an endpoint.
func (s *ScheduleService) applyFocus(tasks []task.Task, deps []task.Dependency) ([]task.Task, []task.Dependency, error) {
	pattern := s.cfg.Export.Focus
	if pattern == "" {
		return tasks, deps, nil
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid focus pattern %q: %w", pattern, err)
	}

	kept := make(map[string]bool, len(tasks))
	outTasks := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matcher.Match(t.ID) || matcher.Match(t.Title) {
			kept[t.ID] = true
			outTasks = append(outTasks, t)
		}
	}
	outDeps := make([]task.Dependency, 0, len(deps))
	for _, d := range deps {
		if kept[d.From] && kept[d.To] {
			outDeps = append(outDeps, d)
		}
	}
	return outTasks, outDeps, nil
}
