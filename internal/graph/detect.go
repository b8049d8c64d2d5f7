package graph

// Cycle detection runs on explicit stacks rather than call-stack recursion:
// the graph shape is caller-controlled, so a pathological chain must not be
// able to exhaust the goroutine stack.

type frame struct {
	id   string
	next int
}

// WouldCreateCycle reports whether admitting the edge from -> to would close
// a directed cycle among scheduling-relevant edges. The candidate edge is
// simulated on a working copy of the adjacency; the receiver is never
// mutated. A self-edge is always a cycle.
//
// This check is the single admission gate: the persistence layer must call
// it before inserting any scheduling-relevant edge.
func (g *Graph) WouldCreateCycle(from, to string) bool {
	if from == to {
		return true
	}

	adjacency := make(map[string][]string, len(g.blocks)+1)
	for id, succ := range g.blocks {
		adjacency[id] = succ
	}
	simulated := make([]string, 0, len(g.blocks[from])+1)
	simulated = append(simulated, g.blocks[from]...)
	adjacency[from] = append(simulated, to)

	visited := map[string]bool{to: true}
	onStack := map[string]bool{to: true}
	stack := []frame{{id: to}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := adjacency[top.id]
		if top.next < len(succ) {
			n := succ[top.next]
			top.next++
			if onStack[n] {
				return true
			}
			if !visited[n] {
				visited[n] = true
				onStack[n] = true
				stack = append(stack, frame{id: n})
			}
			continue
		}
		onStack[top.id] = false
		stack = stack[:len(stack)-1]
	}

	return false
}

// DetectCycles enumerates every directed cycle among scheduling-relevant
// edges. The committed set is supposed to be acyclic at all times, so a
// non-empty result means a caller bypassed the admission gate; the debug
// assertion mode and the property tests use this as the independent check.
func (g *Graph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool, len(g.order))
	onStack := make(map[string]bool)

	for _, start := range g.order {
		if visited[start] {
			continue
		}

		visited[start] = true
		onStack[start] = true
		stack := []frame{{id: start}}
		path := []string{start}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := g.blocks[top.id]
			if top.next < len(succ) {
				n := succ[top.next]
				top.next++
				if onStack[n] {
					for i, id := range path {
						if id == n {
							cycle := make([]string, len(path)-i)
							copy(cycle, path[i:])
							cycles = append(cycles, cycle)
							break
						}
					}
				} else if !visited[n] {
					visited[n] = true
					onStack[n] = true
					stack = append(stack, frame{id: n})
					path = append(path, n)
				}
				continue
			}
			onStack[top.id] = false
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}

	return cycles
}
