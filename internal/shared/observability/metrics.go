package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "critpath_analysis_seconds",
		Help:    "Time spent on one scheduling engine operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	GraphTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "critpath_graph_tasks_total",
		Help: "Number of tasks in the most recently analyzed scope.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "critpath_graph_edges_total",
		Help: "Number of scheduling-relevant edges in the most recently analyzed scope.",
	})

	ProjectDurationDays = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "critpath_project_duration_days",
		Help: "Critical path length of the most recently analyzed scope, in days.",
	})

	CriticalTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "critpath_critical_tasks_total",
		Help: "Number of zero-slack tasks in the most recently analyzed scope.",
	})

	EdgeValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "critpath_edge_validations_total",
		Help: "Total edge admission checks, labeled by verdict.",
	}, []string{"verdict"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critpath_watcher_events_total",
		Help: "Total number of snapshot file events received by the watcher.",
	})

	AnalysisRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "critpath_analysis_runs_total",
		Help: "Total number of completed critical-path analyses.",
	})
)

// Verdict labels for EdgeValidationsTotal.
const (
	VerdictAccepted  = "accepted"
	VerdictSelf      = "self_dependency"
	VerdictDuplicate = "duplicate"
	VerdictCycle     = "circular"
	VerdictDangling  = "dangling_reference"
)
