package planner

import (
	"container/heap"
	"fmt"
	"math"

	"path-planner/logger"
)

// SearchOptions tunes a single path search.
type SearchOptions struct {
	// HeuristicWeight scales the straight-line distance-to-goal term.
	// 0 gives Dijkstra, 1 gives A*.
	HeuristicWeight float64
	// OnStep, when set, is called once per expanded node.
	OnStep func(SearchStep)
}

// Relaxation records a frontier cost change. OldCost is +Inf for a node
// entering the frontier for the first time.
type Relaxation struct {
	Node    int     `json:"node"`
	OldCost float64 `json:"oldCost"`
	NewCost float64 `json:"newCost"`
}

// SearchStep describes one expansion for an external observer.
type SearchStep struct {
	Iteration    int          `json:"iteration"`
	Node         int          `json:"node"`
	Cost         float64      `json:"cost"`
	Relaxed      []Relaxation `json:"relaxed,omitempty"`
	FrontierSize int          `json:"frontierSize"`
	VisitedCount int          `json:"visitedCount"`
}

// Path is a start-to-goal node sequence.
type Path struct {
	Nodes    []Node  `json:"nodes"`
	Cost     float64 `json:"cost"`
	Start    int     `json:"start"`
	Goal     int     `json:"goal"`
	Expanded int     `json:"expanded"`
}

// Points returns the node positions in order.
func (p *Path) Points() []Point {
	points := make([]Point, len(p.Nodes))
	for i, n := range p.Nodes {
		points[i] = n.Point
	}
	return points
}

// Indices returns the node indices in order.
func (p *Path) Indices() []int {
	idx := make([]int, len(p.Nodes))
	for i, n := range p.Nodes {
		idx[i] = n.Index
	}
	return idx
}

// queueItem represents a frontier entry in the search
type queueItem struct {
	node      int
	heuristic float64 // weight * distance to goal
	priority  float64 // cost + heuristic
	index     int     // index in the heap
}

// priorityQueue implements heap.Interface. Equal priorities pop the lowest
// node index first, so runs are reproducible.
type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

const (
	unseen uint8 = iota
	inFrontier
	visited
)

// searchState is the per-query scratch space; the graph itself is never written.
type searchState struct {
	cost   []float64
	parent []int
	status []uint8
	items  []*queueItem
}

func newSearchState(n int) *searchState {
	s := &searchState{
		cost:   make([]float64, n),
		parent: make([]int, n),
		status: make([]uint8, n),
		items:  make([]*queueItem, n),
	}
	for i := range s.cost {
		s.cost[i] = math.Inf(1)
		s.parent[i] = -1
	}
	return s
}

// Search runs best-first search between two node indices.
func Search(g *Graph, startIdx, goalIdx int, opts SearchOptions) (*Path, error) {
	if startIdx < 0 || startIdx >= g.Len() {
		return nil, fmt.Errorf("%w: start %d", ErrNodeIndex, startIdx)
	}
	if goalIdx < 0 || goalIdx >= g.Len() {
		return nil, fmt.Errorf("%w: goal %d", ErrNodeIndex, goalIdx)
	}
	w := opts.HeuristicWeight
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return nil, fmt.Errorf("%w: heuristic weight must be a finite value >= 0, got %v", ErrInvalidConfiguration, w)
	}

	goalPoint := g.Nodes[goalIdx].Point
	s := newSearchState(g.Len())

	frontier := &priorityQueue{}
	heap.Init(frontier)

	s.cost[startIdx] = 0
	s.status[startIdx] = inFrontier
	h0 := w * g.Nodes[startIdx].Point.Distance(goalPoint)
	s.items[startIdx] = &queueItem{node: startIdx, heuristic: h0, priority: h0}
	heap.Push(frontier, s.items[startIdx])

	expanded := 0
	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(*queueItem).node
		s.status[current] = visited
		expanded++

		if current == goalIdx {
			if opts.OnStep != nil {
				opts.OnStep(SearchStep{Iteration: expanded, Node: current, Cost: s.cost[current], FrontierSize: frontier.Len(), VisitedCount: expanded})
			}
			path, err := s.reconstruct(g, startIdx, goalIdx)
			if err != nil {
				return nil, err
			}
			path.Expanded = expanded
			logger.Debug("Path found", "start", startIdx, "goal", goalIdx, "nodes", len(path.Nodes), "cost", path.Cost, "expanded", expanded)
			return path, nil
		}

		var relaxed []Relaxation
		for _, edge := range g.Nodes[current].Neighbors {
			neighbor := edge.To
			if s.status[neighbor] == visited {
				continue
			}

			candidate := s.cost[current] + edge.Cost

			switch s.status[neighbor] {
			case unseen:
				s.status[neighbor] = inFrontier
				s.cost[neighbor] = candidate
				s.parent[neighbor] = current
				h := w * g.Nodes[neighbor].Point.Distance(goalPoint)
				s.items[neighbor] = &queueItem{node: neighbor, heuristic: h, priority: candidate + h}
				heap.Push(frontier, s.items[neighbor])
				relaxed = append(relaxed, Relaxation{Node: neighbor, OldCost: math.Inf(1), NewCost: candidate})
			case inFrontier:
				if candidate < s.cost[neighbor] {
					item := s.items[neighbor]
					relaxed = append(relaxed, Relaxation{Node: neighbor, OldCost: s.cost[neighbor], NewCost: candidate})
					s.cost[neighbor] = candidate
					s.parent[neighbor] = current
					item.priority = candidate + item.heuristic
					heap.Fix(frontier, item.index)
				}
			}
		}

		if opts.OnStep != nil {
			opts.OnStep(SearchStep{
				Iteration:    expanded,
				Node:         current,
				Cost:         s.cost[current],
				Relaxed:      relaxed,
				FrontierSize: frontier.Len(),
				VisitedCount: expanded,
			})
		}
	}

	logger.Debug("No path", "start", startIdx, "goal", goalIdx, "expanded", expanded)
	return nil, fmt.Errorf("%w: nodes %d and %d are not connected", ErrNoPathFound, startIdx, goalIdx)
}

// reconstruct follows parents from the goal back to the start.
func (s *searchState) reconstruct(g *Graph, startIdx, goalIdx int) (*Path, error) {
	reversed := make([]int, 0, 32)
	for node, steps := goalIdx, 0; node != -1; node, steps = s.parent[node], steps+1 {
		if steps > len(s.parent) {
			return nil, fmt.Errorf("%w: cycle through node %d", ErrBrokenParentChain, node)
		}
		reversed = append(reversed, node)
	}
	if reversed[len(reversed)-1] != startIdx {
		return nil, fmt.Errorf("%w: chain ends at %d, start is %d", ErrBrokenParentChain, reversed[len(reversed)-1], startIdx)
	}

	path := &Path{
		Nodes: make([]Node, 0, len(reversed)),
		Cost:  s.cost[goalIdx],
		Start: startIdx,
		Goal:  goalIdx,
	}
	for i := len(reversed) - 1; i >= 0; i-- {
		path.Nodes = append(path.Nodes, g.Nodes[reversed[i]])
	}
	return path, nil
}

// ClosestNode returns the index of the node nearest to p. There is no
// distance cap: a query far from every node still gets an answer.
func ClosestNode(g *Graph, p Point) (int, error) {
	if g.Len() == 0 {
		return -1, ErrClosestNodeUndefined
	}
	idx, _, ok := g.spatialIndex().Nearest(p)
	if !ok {
		return -1, ErrClosestNodeUndefined
	}
	return idx, nil
}

// FindPath snaps start and goal to their closest nodes and searches between them.
func FindPath(g *Graph, start, goal Point, opts SearchOptions) (*Path, error) {
	startIdx, err := ClosestNode(g, start)
	if err != nil {
		return nil, err
	}
	goalIdx, err := ClosestNode(g, goal)
	if err != nil {
		return nil, err
	}
	return Search(g, startIdx, goalIdx, opts)
}
