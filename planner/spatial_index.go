package planner

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size of the box each node occupies in the tree.
const pointTolerance = 1e-6

// nodeEntry wraps a roadmap node for R-tree storage
type nodeEntry struct {
	index int
	point Point
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers proximity queries over node positions.
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex indexes every node of g.
func NewSpatialIndex(g *Graph) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, node := range g.Nodes {
		bbox, err := squareAround(node.Point, pointTolerance)
		if err != nil {
			continue
		}
		tree.Insert(&nodeEntry{index: node.Index, point: node.Point, bbox: bbox})
	}
	return &SpatialIndex{tree: tree}
}

// Size returns the number of indexed nodes.
func (si *SpatialIndex) Size() int {
	return si.tree.Size()
}

// WithinRadius returns indices of nodes whose distance to p is strictly
// below radius, in ascending index order.
func (si *SpatialIndex) WithinRadius(p Point, radius float64) []int {
	bbox, err := squareAround(p, radius+pointTolerance)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	indices := make([]int, 0, len(results))
	for _, item := range results {
		entry := item.(*nodeEntry)
		if entry.point.Distance(p) < radius {
			indices = append(indices, entry.index)
		}
	}
	sort.Ints(indices)
	return indices
}

// Nearest returns the index of the node closest to p and its distance.
// Equidistant nodes resolve to the lowest index. ok is false for an empty index.
func (si *SpatialIndex) Nearest(p Point) (index int, dist float64, ok bool) {
	nn := si.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if nn == nil {
		return -1, 0, false
	}
	// The tree ranks by box distance; rescan everything within that radius exactly.
	bound := nn.(*nodeEntry).point.Distance(p)
	bbox, err := squareAround(p, bound+pointTolerance)
	if err != nil {
		e := nn.(*nodeEntry)
		return e.index, bound, true
	}

	index, dist = -1, bound
	for _, item := range si.tree.SearchIntersect(bbox) {
		entry := item.(*nodeEntry)
		d := entry.point.Distance(p)
		if index == -1 || d < dist || (d == dist && entry.index < index) {
			index, dist = entry.index, d
		}
	}
	return index, dist, true
}

// squareAround computes the axis-aligned box of half-size r centred on p
func squareAround(p Point, r float64) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{p.X - r, p.Y - r},
		[]float64{2 * r, 2 * r},
	)
}
