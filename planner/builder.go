package planner

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"path-planner/logger"
)

// BuildGraph creates the roadmap for m: lattice or sampled nodes in free
// space, joined wherever two nodes are closer than the edge threshold and
// the straight segment between them is unoccluded.
func BuildGraph(m *OccupancyMap, cfg Config) (*Graph, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil occupancy map", ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	occ := m.WithThreshold(cfg.OccupancyThreshold)
	g := &Graph{Bounds: occ.Bounds(), Config: cfg, MapDigest: m.Digest()}

	logger.Info("Building roadmap", "mode", cfg.Mode, "bounds", fmt.Sprintf("%dx%d", g.Bounds.MaxX, g.Bounds.MaxY))

	switch cfg.Mode {
	case ModeGrid:
		addLatticeNodes(g, occ, cfg.GridStepSize)
	case ModeSample:
		addSampledNodes(g, occ, cfg)
	}

	edges, rejected := connectNodes(g, occ, cfg.edgeThreshold())

	logger.Info("Roadmap built",
		"nodes", g.Len(),
		"edges", edges,
		"rejected", rejected,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)
	return g, nil
}

// addLatticeNodes adds a node at every free lattice point, x-major.
func addLatticeNodes(g *Graph, m *OccupancyMap, step int) {
	b := m.Bounds()
	for x := b.MinX; x < b.MaxX; x += step {
		for y := b.MinY; y < b.MaxY; y += step {
			if !m.IsOccupied(x, y) {
				g.addNode(Point{X: float64(x), Y: float64(y)})
			}
		}
	}
}

// addSampledNodes draws samples until SampleCount free ones are found or
// the attempt budget runs out.
func addSampledNodes(g *Graph, m *OccupancyMap, cfg Config) {
	src := newSampleSource(cfg, m.Bounds())
	maxAttempts := cfg.SampleCount * 10 // Try up to 10x the desired samples

	attempts := 0
	for g.Len() < cfg.SampleCount && attempts < maxAttempts {
		attempts++
		p := src.Next()
		if !m.IsOccupiedAt(p) {
			g.addNode(p)
		}
	}

	if g.Len() < cfg.SampleCount {
		logger.Warn("Sampling stopped short", "generated", g.Len(), "requested", cfg.SampleCount, "attempts", attempts)
	}
}

// connectNodes tests every unordered pair once and adds both directions,
// which keeps the adjacency symmetric. Candidates come from the spatial
// index so only pairs inside the threshold are visibility-checked. The
// checks for each node run in parallel; edges are added afterwards in node
// order so the adjacency lists do not depend on scheduling.
func connectNodes(g *Graph, m *OccupancyMap, threshold float64) (edges, rejected int) {
	index := g.spatialIndex()
	accepted := make([][]int, g.Len())
	rejectedBy := make([]int, g.Len())

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range g.Nodes {
		i := i
		eg.Go(func() error {
			pi := g.Nodes[i].Point
			for _, j := range index.WithinRadius(pi, threshold) {
				if j <= i {
					continue
				}
				if m.IsOccluded(pi, g.Nodes[j].Point) {
					rejectedBy[i]++
					continue
				}
				accepted[i] = append(accepted[i], j)
			}
			return nil
		})
	}
	_ = eg.Wait() // workers never fail

	for i, targets := range accepted {
		pi := g.Nodes[i].Point
		for _, j := range targets {
			g.connect(i, j, pi.Distance(g.Nodes[j].Point))
		}
		edges += len(targets)
		rejected += rejectedBy[i]
	}
	return edges, rejected
}
