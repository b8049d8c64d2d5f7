// Package schedule computes critical-path schedules over a built dependency
// graph: topological sequencing, forward/backward CPM passes, and the
// critical-first execution order recommendation.
package schedule

import (
	"strings"

	"critpath/internal/core/errors"
	"critpath/internal/graph"
)

type seqFrame struct {
	id   string
	succ []string
	next int
}

// Order returns the task ids in a valid topological order: every
// prerequisite appears before its dependents. The traversal is an iterative
// depth-first reverse postorder; start nodes follow snapshot order and
// neighbors follow insertion order, so identical input yields identical
// output.
//
// The input is assumed acyclic: every committed edge has passed the
// admission gate. On cyclic input the result is not a valid order; callers
// that cannot trust their snapshot should run AssertAcyclic first.
func Order(g *graph.Graph) []string {
	ids := g.TaskIDs()
	out := make([]string, len(ids))
	pos := len(ids)
	visited := make(map[string]bool, len(ids))

	for _, start := range ids {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack := []seqFrame{{id: start, succ: g.Blocks(start)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.succ) {
				n := top.succ[top.next]
				top.next++
				if !visited[n] {
					visited[n] = true
					stack = append(stack, seqFrame{id: n, succ: g.Blocks(n)})
				}
				continue
			}
			pos--
			out[pos] = top.id
			stack = stack[:len(stack)-1]
		}
	}

	return out
}

// AssertAcyclic verifies the committed edge set really is a DAG. It is the
// debug-mode guard in front of Order and Analyze; production callers skip it
// because every edge already passed the admission gate.
func AssertAcyclic(g *graph.Graph) error {
	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		return nil
	}
	return errors.New(errors.CodeCircularDependency, "committed edge set contains a cycle").
		WithContext("cycle", strings.Join(cycles[0], " -> "))
}
