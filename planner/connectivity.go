package planner

import "fmt"

// Reachable returns every node index reachable from start (start included),
// in breadth-first discovery order. Edge costs are ignored.
func Reachable(g *Graph, start int) ([]int, error) {
	if start < 0 || start >= g.Len() {
		return nil, fmt.Errorf("%w: %d (graph has %d nodes)", ErrNodeIndex, start, g.Len())
	}
	seen := make([]bool, g.Len())
	return reachable(g, start, seen), nil
}

func reachable(g *Graph, start int, seen []bool) []int {
	queue := []int{start}
	seen[start] = true
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, e := range g.Nodes[u].Neighbors {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return queue
}

// LabelConnectivity assigns every node the id of its connected component.
// Ids start at 0 and follow discovery order from the lowest unlabeled index.
func LabelConnectivity(g *Graph) []int {
	n := g.Len()
	groups := make([]int, n)
	seen := make([]bool, n)
	next := 0

	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		for _, idx := range reachable(g, i, seen) {
			groups[idx] = next
		}
		next++
	}
	return groups
}

// GroupCount returns the number of distinct ids in a labeling.
func GroupCount(groups []int) int {
	distinct := make(map[int]struct{}, len(groups))
	for _, id := range groups {
		distinct[id] = struct{}{}
	}
	return len(distinct)
}
