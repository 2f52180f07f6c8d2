// Package community groups figures into classes of mutually equivalent
// statements from the pairs a dedupe run reports.
package community

import (
	"github.com/agenthands/figmatch/internal/core/model"
)

type ClassDetector interface {
	Detect(ids []string, pairs []model.Pair) [][]string
}

// SimpleDetector returns the connected components of the equivalence graph.
// Equivalence up to renaming is transitive, so a component is a class.
type SimpleDetector struct{}

func NewSimpleDetector() ClassDetector {
	return &SimpleDetector{}
}

// Detect ignores pairs naming unknown ids and drops singleton classes.
// Classes and their members follow the order of ids.
func (d *SimpleDetector) Detect(ids []string, pairs []model.Pair) [][]string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	adj := make(map[string][]string)
	for _, p := range pairs {
		if !known[p.A] || !known[p.B] {
			continue
		}
		adj[p.A] = append(adj[p.A], p.B)
		adj[p.B] = append(adj[p.B], p.A)
	}

	order := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := order[id]; !ok {
			order[id] = i
		}
	}

	visited := make(map[string]bool)
	var classes [][]string
	for _, id := range ids {
		if visited[id] {
			continue
		}
		var component []string
		d.dfs(id, adj, visited, &component)
		if len(component) < 2 {
			continue
		}
		sortByOrder(component, order)
		classes = append(classes, component)
	}

	return classes
}

func (d *SimpleDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

func sortByOrder(ids []string, order map[string]int) {
	// insertion sort; classes are small
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && order[ids[j]] < order[ids[j-1]]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
