// Package export projects a task snapshot into shapes consumed by external
// visualization collaborators. Every transform here is pure: same snapshot
// in, same bytes out.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/gobwas/glob"

	"critpath/internal/task"
)

type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ToGraph converts the snapshot into a generic node/edge structure. Unlike
// scheduling, export includes edges of every kind: the visualization is
// meant to show the full relationship picture. Edge ids are deterministic so
// repeated exports of one snapshot are byte-identical.
func ToGraph(tasks []task.Task, deps []task.Dependency) GraphData {
	data := GraphData{
		Nodes: make([]Node, 0, len(tasks)),
		Edges: make([]Edge, 0, len(deps)),
	}

	for _, t := range tasks {
		data.Nodes = append(data.Nodes, Node{ID: t.ID, Label: nodeLabel(t)})
	}
	for _, d := range deps {
		data.Edges = append(data.Edges, Edge{
			ID:     fmt.Sprintf("%s->%s:%s", d.From, d.To, d.Kind),
			Source: d.From,
			Target: d.To,
			Label:  string(d.Kind),
		})
	}
	return data
}

// Focus narrows the projection to nodes whose id or label matches the glob
// pattern, keeping only edges with both endpoints retained.
func Focus(data GraphData, pattern string) (GraphData, error) {
	if pattern == "" {
		return data, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return GraphData{}, fmt.Errorf("invalid focus pattern %q: %w", pattern, err)
	}

	kept := make(map[string]bool, len(data.Nodes))
	out := GraphData{Nodes: make([]Node, 0, len(data.Nodes)), Edges: make([]Edge, 0, len(data.Edges))}
	for _, n := range data.Nodes {
		if g.Match(n.ID) || g.Match(n.Label) {
			kept[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range data.Edges {
		if kept[e.Source] && kept[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out, nil
}

// JSON renders any export structure with stable indentation.
func JSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func nodeLabel(t task.Task) string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}
