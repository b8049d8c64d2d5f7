package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"critpath/internal/task"
)

func TestWouldCreateCycle_SelfEdge(t *testing.T) {
	g, err := Build(tasksByID("a", "b"), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !g.WouldCreateCycle("a", "a") {
		t.Error("self edge must always be rejected")
	}
}

func TestWouldCreateCycle_DirectBackEdge(t *testing.T) {
	g, err := Build(tasksByID("a", "b"), []task.Dependency{fs("a", "b")})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !g.WouldCreateCycle("b", "a") {
		t.Error("b -> a closes a two-node cycle")
	}
	if g.WouldCreateCycle("a", "b") {
		t.Error("re-checking the committed direction must not report a cycle")
	}
}

func TestWouldCreateCycle_Transitive(t *testing.T) {
	g, err := Build(tasksByID("a", "b", "c", "d"), []task.Dependency{
		fs("a", "b"),
		fs("b", "c"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !g.WouldCreateCycle("c", "a") {
		t.Error("c -> a closes a -> b -> c -> a")
	}
	if g.WouldCreateCycle("a", "d") {
		t.Error("edge into unrelated task must be admitted")
	}
	if g.WouldCreateCycle("c", "d") {
		t.Error("forward extension of the chain must be admitted")
	}
}

func TestWouldCreateCycle_DoesNotMutateGraph(t *testing.T) {
	g, err := Build(tasksByID("a", "b", "c"), []task.Dependency{fs("a", "b")})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	g.WouldCreateCycle("b", "c")
	g.WouldCreateCycle("c", "a")

	if got := g.Blocks("b"); len(got) != 0 {
		t.Errorf("simulated edges leaked into the graph: %v", got)
	}
	if got := g.Blocks("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("committed adjacency changed: %v", got)
	}
}

func TestWouldCreateCycle_DisconnectedComponents(t *testing.T) {
	g, err := Build(tasksByID("a", "b", "x", "y"), []task.Dependency{
		fs("a", "b"),
		fs("x", "y"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.WouldCreateCycle("b", "x") {
		t.Error("bridging two components must be admitted")
	}
	if !g.WouldCreateCycle("y", "x") {
		t.Error("back edge within second component must be rejected")
	}
}

func TestDetectCycles(t *testing.T) {
	// Committed sets are acyclic by invariant; DetectCycles exists to verify
	// exactly that on possibly-stale input.
	g, err := Build(tasksByID("a", "b", "c", "d"), []task.Dependency{
		fs("a", "b"),
		fs("b", "c"),
		fs("c", "a"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 3 {
		t.Errorf("expected 3-node cycle, got %v", cycles[0])
	}
}

func TestDetectCycles_Acyclic(t *testing.T) {
	g, err := Build(tasksByID("a", "b", "c", "d"), []task.Dependency{
		fs("a", "b"),
		fs("a", "c"),
		fs("b", "d"),
		fs("c", "d"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("diamond is acyclic, got %v", cycles)
	}
}

// kahnIsAcyclic is an independent acyclicity check (indegree peeling), kept
// deliberately different from the DFS the production code uses.
func kahnIsAcyclic(g *Graph) bool {
	indegree := make(map[string]int)
	for _, id := range g.TaskIDs() {
		indegree[id] = len(g.DependsOn(id))
	}

	queue := make([]string, 0)
	for _, id := range g.TaskIDs() {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, succ := range g.Blocks(id) {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	return processed == g.TaskCount()
}

func TestAdmissionKeepsGraphAcyclic(t *testing.T) {
	// Property: any sequence of admissions that pass WouldCreateCycle leaves
	// the graph acyclic, verified by an independent check.
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(20)
		ids := make([]string, n)
		tasks := make([]task.Task, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("t%02d", i)
			tasks[i] = task.Task{ID: ids[i]}
		}

		var committed []task.Dependency
		attempts := n * 4
		for i := 0; i < attempts; i++ {
			from := ids[rng.Intn(n)]
			to := ids[rng.Intn(n)]

			g, err := Build(tasks, committed)
			if err != nil {
				t.Fatalf("round %d: Build failed: %v", round, err)
			}
			if from == to || g.HasDependency(from, to, task.KindFinishToStart) {
				continue
			}
			if g.WouldCreateCycle(from, to) {
				continue
			}
			committed = append(committed, fs(from, to))
		}

		final, err := Build(tasks, committed)
		if err != nil {
			t.Fatalf("round %d: final Build failed: %v", round, err)
		}
		if cycles := final.DetectCycles(); len(cycles) != 0 {
			t.Fatalf("round %d: admission let a cycle through: %v", round, cycles)
		}
		if !kahnIsAcyclic(final) {
			t.Fatalf("round %d: independent check found a cycle", round)
		}
	}
}

func TestWouldCreateCycle_DeepChain(t *testing.T) {
	// A long linear chain exercises the explicit stack; native recursion
	// would be at risk here on hostile input sizes.
	const n = 20000
	tasks := make([]task.Task, n)
	deps := make([]task.Dependency, 0, n-1)
	for i := 0; i < n; i++ {
		tasks[i] = task.Task{ID: fmt.Sprintf("t%05d", i)}
		if i > 0 {
			deps = append(deps, fs(tasks[i-1].ID, tasks[i].ID))
		}
	}

	g, err := Build(tasks, deps)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !g.WouldCreateCycle(tasks[n-1].ID, tasks[0].ID) {
		t.Error("closing the chain must be rejected")
	}
	if g.WouldCreateCycle(tasks[0].ID, tasks[n-1].ID) {
		t.Error("shortcut along the chain direction must be admitted")
	}
}
