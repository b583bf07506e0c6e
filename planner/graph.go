package planner

import (
	"fmt"
	"sync"
)

// Edge is one directed adjacency entry.
type Edge struct {
	To   int     `json:"to"`
	Cost float64 `json:"cost"`
}

// Node is a roadmap vertex. Neighbours are referenced by index into the
// owning Graph; search state lives outside the node.
type Node struct {
	Index     int    `json:"index"`
	Point     Point  `json:"point"`
	Neighbors []Edge `json:"edges"`
}

// Graph owns every node. Node i is stored at Nodes[i]. A Graph is not
// modified after construction, so concurrent searches on it are safe.
type Graph struct {
	Nodes  []Node `json:"nodes"`
	Bounds Bounds `json:"bounds"`
	Config Config `json:"config"`
	// MapDigest is the OccupancyMap.Digest the graph was built from.
	MapDigest string `json:"mapDigest,omitempty"`

	indexOnce sync.Once
	index     *SpatialIndex
}

// spatialIndex lazily builds the R-tree used for nearest-node queries.
func (g *Graph) spatialIndex() *SpatialIndex {
	g.indexOnce.Do(func() {
		g.index = NewSpatialIndex(g)
	})
	return g.index
}

// Len returns the node count.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.Nodes {
		n += len(node.Neighbors)
	}
	return n / 2
}

// Node returns the node at index i.
func (g *Graph) Node(i int) (Node, error) {
	if i < 0 || i >= g.Len() {
		return Node{}, fmt.Errorf("%w: %d (graph has %d nodes)", ErrNodeIndex, i, g.Len())
	}
	return g.Nodes[i], nil
}

// HasEdge reports whether i lists j as a neighbour.
func (g *Graph) HasEdge(i, j int) bool {
	if i < 0 || i >= g.Len() {
		return false
	}
	for _, e := range g.Nodes[i].Neighbors {
		if e.To == j {
			return true
		}
	}
	return false
}

// addNode appends a node with the next dense index.
func (g *Graph) addNode(p Point) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Index: idx, Point: p})
	return idx
}

// connect adds both directed entries of an undirected edge.
func (g *Graph) connect(i, j int, cost float64) {
	g.Nodes[i].Neighbors = append(g.Nodes[i].Neighbors, Edge{To: j, Cost: cost})
	g.Nodes[j].Neighbors = append(g.Nodes[j].Neighbors, Edge{To: i, Cost: cost})
}

// Validate checks dense indices, in-range neighbours, no self or duplicate
// edges, and that every entry i->j has a matching j->i with equal cost.
func (g *Graph) Validate() error {
	for i, node := range g.Nodes {
		if node.Index != i {
			return fmt.Errorf("%w: node at position %d has index %d", ErrInvalidGraph, i, node.Index)
		}
		seen := make(map[int]bool, len(node.Neighbors))
		for _, e := range node.Neighbors {
			if e.To < 0 || e.To >= len(g.Nodes) {
				return fmt.Errorf("%w: node %d references %d", ErrInvalidGraph, i, e.To)
			}
			if e.To == i {
				return fmt.Errorf("%w: self edge on node %d", ErrInvalidGraph, i)
			}
			if seen[e.To] {
				return fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalidGraph, i, e.To)
			}
			seen[e.To] = true
			if e.Cost < 0 {
				return fmt.Errorf("%w: negative cost on %d->%d", ErrInvalidGraph, i, e.To)
			}
			if !g.hasEdgeCost(e.To, i, e.Cost) {
				return fmt.Errorf("%w: edge %d->%d has no reverse entry", ErrInvalidGraph, i, e.To)
			}
		}
	}
	return nil
}

func (g *Graph) hasEdgeCost(i, j int, cost float64) bool {
	for _, e := range g.Nodes[i].Neighbors {
		if e.To == j && e.Cost == cost {
			return true
		}
	}
	return false
}

// NewGraph builds a graph from explicit points and undirected index pairs.
// Costs are Euclidean distances. Used for hand-made graphs and tests.
func NewGraph(points []Point, edges [][2]int) (*Graph, error) {
	g := &Graph{Nodes: make([]Node, 0, len(points))}
	for _, p := range points {
		g.addNode(p)
	}
	for _, e := range edges {
		i, j := e[0], e[1]
		if i < 0 || i >= len(points) || j < 0 || j >= len(points) {
			return nil, fmt.Errorf("%w: edge %d-%d", ErrNodeIndex, i, j)
		}
		if i == j || g.HasEdge(i, j) {
			return nil, fmt.Errorf("%w: self or duplicate edge %d-%d", ErrInvalidGraph, i, j)
		}
		g.connect(i, j, points[i].Distance(points[j]))
	}
	return g, nil
}
