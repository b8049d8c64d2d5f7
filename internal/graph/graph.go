// Package graph holds the in-memory dependency graph for one project scope.
// A Graph is built fresh from a caller-supplied snapshot for every
// computation and is never mutated afterwards, so any number of readers may
// share it without locking.
package graph

import (
	"critpath/internal/core/errors"
	"critpath/internal/task"
)

type Graph struct {
	// Task ids in snapshot order. Downstream iteration order derives from
	// this slice, never from map ranges.
	order []string
	tasks map[string]task.Task

	// Scheduling-relevant adjacency, insertion order preserved.
	blocks    map[string][]string // from -> tasks it must finish before
	dependsOn map[string][]string // to -> its prerequisites

	// Every edge of every kind, for duplicate checks and export.
	edges map[string]map[string][]task.DependencyKind

	schedulingEdges int
}

// Build constructs the graph for one scope. Edges of informational kinds are
// recorded for membership checks but excluded from adjacency. An edge
// referencing a task id absent from the snapshot is a dangling reference
// fault, never a silent adjacency entry.
func Build(tasks []task.Task, deps []task.Dependency) (*Graph, error) {
	g := &Graph{
		order:     make([]string, 0, len(tasks)),
		tasks:     make(map[string]task.Task, len(tasks)),
		blocks:    make(map[string][]string),
		dependsOn: make(map[string][]string),
		edges:     make(map[string]map[string][]task.DependencyKind),
	}

	for _, t := range tasks {
		if t.ID == "" {
			return nil, errors.New(errors.CodeValidationError, "task with empty id in snapshot")
		}
		if _, exists := g.tasks[t.ID]; exists {
			return nil, errors.New(errors.CodeValidationError, "duplicate task id in snapshot").
				WithContext(errors.CtxTaskID, t.ID)
		}
		g.tasks[t.ID] = t
		g.order = append(g.order, t.ID)
	}

	for _, d := range deps {
		if d.From == d.To {
			return nil, errors.New(errors.CodeSelfDependency, "task cannot depend on itself").
				WithContext(errors.CtxTaskID, d.From)
		}
		if _, ok := g.tasks[d.From]; !ok {
			return nil, errors.New(errors.CodeDanglingReference, "edge references unknown task").
				WithContext(errors.CtxFrom, d.From).
				WithContext(errors.CtxTo, d.To)
		}
		if _, ok := g.tasks[d.To]; !ok {
			return nil, errors.New(errors.CodeDanglingReference, "edge references unknown task").
				WithContext(errors.CtxFrom, d.From).
				WithContext(errors.CtxTo, d.To)
		}

		// A stale snapshot may repeat an edge; record it once.
		if g.hasEdge(d.From, d.To, d.Kind) {
			continue
		}
		if g.edges[d.From] == nil {
			g.edges[d.From] = make(map[string][]task.DependencyKind)
		}
		g.edges[d.From][d.To] = append(g.edges[d.From][d.To], d.Kind)

		if d.Kind.SchedulingRelevant() {
			g.blocks[d.From] = append(g.blocks[d.From], d.To)
			g.dependsOn[d.To] = append(g.dependsOn[d.To], d.From)
			g.schedulingEdges++
		}
	}

	return g, nil
}

func (g *Graph) hasEdge(from, to string, kind task.DependencyKind) bool {
	for _, k := range g.edges[from][to] {
		if k == kind {
			return true
		}
	}
	return false
}

// TaskCount returns the number of tasks in the scope.
func (g *Graph) TaskCount() int {
	return len(g.order)
}

// EdgeCount returns the number of scheduling-relevant edges.
func (g *Graph) EdgeCount() int {
	return g.schedulingEdges
}

// TaskIDs returns all task ids in snapshot order.
func (g *Graph) TaskIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Task looks up a task by id.
func (g *Graph) Task(id string) (task.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Blocks returns the tasks that directly depend on id, in insertion order.
func (g *Graph) Blocks(id string) []string {
	out := make([]string, len(g.blocks[id]))
	copy(out, g.blocks[id])
	return out
}

// DependsOn returns the direct prerequisites of id, in insertion order.
func (g *Graph) DependsOn(id string) []string {
	out := make([]string, len(g.dependsOn[id]))
	copy(out, g.dependsOn[id])
	return out
}

// HasDependency reports whether the exact (from, to, kind) edge is already
// committed. The persistence layer runs this before the cycle check so a
// duplicate is reported as such instead of as a cycle.
func (g *Graph) HasDependency(from, to string, kind task.DependencyKind) bool {
	return g.hasEdge(from, to, kind)
}

// AvailableDependencies returns the tasks that id could plausibly depend on:
// everything except itself, its existing direct prerequisites, and the tasks
// that directly depend on it. This is a one-hop hint for pickers, not the
// admission gate; WouldCreateCycle stays authoritative.
func (g *Graph) AvailableDependencies(id string) ([]task.Task, error) {
	if _, ok := g.tasks[id]; !ok {
		return nil, errors.New(errors.CodeNotFound, "task not in scope").
			WithContext(errors.CtxTaskID, id)
	}

	excluded := make(map[string]bool, len(g.dependsOn[id])+len(g.blocks[id])+1)
	excluded[id] = true
	for _, dep := range g.dependsOn[id] {
		excluded[dep] = true
	}
	for _, dependent := range g.blocks[id] {
		excluded[dependent] = true
	}

	out := make([]task.Task, 0, len(g.order))
	for _, candidate := range g.order {
		if excluded[candidate] {
			continue
		}
		out = append(out, g.tasks[candidate])
	}
	return out, nil
}
