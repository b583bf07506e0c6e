package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSymmetric(t *testing.T, g *Graph) {
	t.Helper()
	for i := range g.Nodes {
		for j := range g.Nodes {
			assert.Equal(t, g.HasEdge(i, j), g.HasEdge(j, i), "edge %d<->%d", i, j)
		}
	}
	assert.NoError(t, g.Validate())
}

func TestBuildGraph_FreeGrid4(t *testing.T) {
	g := buildGraph(t, NewFreeMap(10, 10), gridConfig(1, Conn4))

	require.Equal(t, 100, g.Len())
	assert.Equal(t, 180, g.EdgeCount())
	for i, n := range g.Nodes {
		assert.Equal(t, i, n.Index)
		assert.Equal(t, Point{X: float64(i / 10), Y: float64(i % 10)}, n.Point)
		for _, e := range n.Neighbors {
			assert.InDelta(t, 1.0, e.Cost, 1e-12)
		}
	}
	assertSymmetric(t, g)
}

func TestBuildGraph_FreeGrid8(t *testing.T) {
	g := buildGraph(t, NewFreeMap(10, 10), gridConfig(1, Conn8))

	require.Equal(t, 100, g.Len())
	assert.Equal(t, 180+162, g.EdgeCount())
	assert.True(t, g.HasEdge(0, 11))
	assert.False(t, g.HasEdge(0, 22))
	assertSymmetric(t, g)
}

func TestBuildGraph_GridStep(t *testing.T) {
	g := buildGraph(t, NewFreeMap(10, 10), gridConfig(2, Conn4))

	assert.Equal(t, 25, g.Len())
	assert.Equal(t, 40, g.EdgeCount())
	assert.Equal(t, Point{8, 8}, g.Nodes[24].Point)
}

func TestBuildGraph_OccupiedLatticePointsSkipped(t *testing.T) {
	m := mapFromRows(t,
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
	)
	g := buildGraph(t, m, gridConfig(1, Conn4))

	assert.Equal(t, 90, g.Len())
	for _, n := range g.Nodes {
		assert.False(t, m.IsOccupiedAt(n.Point))
	}
	assert.Equal(t, 2, GroupCount(LabelConnectivity(g)))
	assertSymmetric(t, g)
}

func TestBuildGraph_EdgesThroughWallRejected(t *testing.T) {
	// Lattice points at x=0 and x=2 are free, the column between them is not.
	m := mapFromRows(t,
		".#...",
		".#...",
		".#...",
		".#...",
		".#...",
	)
	g := buildGraph(t, m, gridConfig(2, Conn4))

	assert.Equal(t, 9, g.Len())
	groups := LabelConnectivity(g)
	assert.Equal(t, 2, GroupCount(groups))
	for _, n := range g.Nodes {
		if n.Point.X == 0 {
			assert.Equal(t, groups[0], groups[n.Index])
		} else {
			assert.NotEqual(t, groups[0], groups[n.Index])
		}
	}
}

func TestBuildGraph_SampledMatchesBruteForce(t *testing.T) {
	m := mapFromRows(t,
		"..............................",
		"..............................",
		"..........#########...........",
		"..........#########...........",
		"..........#########...........",
		"..............................",
		"..............................",
		"....######....................",
		"....######..........#######...",
		"....######..........#######...",
		"....................#######...",
		"..............................",
		"..............................",
		"..............................",
		"..............................",
	)
	cfg := sampleConfig(80, 8, 7)
	g := buildGraph(t, m, cfg)

	require.Equal(t, 80, g.Len())
	for _, n := range g.Nodes {
		assert.False(t, m.IsOccupiedAt(n.Point), "node %d at %v", n.Index, n.Point)
	}

	// Every pair decides its edge exactly as the all-pairs rule says.
	for i := range g.Nodes {
		for j := i + 1; j < g.Len(); j++ {
			pi, pj := g.Nodes[i].Point, g.Nodes[j].Point
			want := pi.Distance(pj) < cfg.MaxEdgeLength && !IsOccluded(m, pi, pj, cfg.OccupancyThreshold)
			assert.Equal(t, want, g.HasEdge(i, j), "pair %d-%d", i, j)
		}
	}
	assertSymmetric(t, g)
}

func TestBuildGraph_SeedIsReproducible(t *testing.T) {
	m := NewFreeMap(40, 40)
	a := buildGraph(t, m, sampleConfig(50, 10, 99))
	b := buildGraph(t, m, sampleConfig(50, 10, 99))
	c := buildGraph(t, m, sampleConfig(50, 10, 100))

	assert.Equal(t, a.Nodes, b.Nodes)
	assert.NotEqual(t, a.Nodes, c.Nodes)
}

func TestBuildGraph_HaltonSampler(t *testing.T) {
	cfg := sampleConfig(30, 10, 0)
	cfg.Sampler = SamplerHalton
	g := buildGraph(t, NewFreeMap(30, 30), cfg)

	require.Equal(t, 30, g.Len())
	assert.InDelta(t, 15, g.Nodes[0].Point.X, 1e-9)
	assert.InDelta(t, 10, g.Nodes[0].Point.Y, 1e-9)
	assert.InDelta(t, 7.5, g.Nodes[1].Point.X, 1e-9)
	assert.InDelta(t, 20, g.Nodes[1].Point.Y, 1e-9)
}

func TestBuildGraph_SamplingGivesUpOnFullMap(t *testing.T) {
	m := mapFromRows(t, "###", "###")
	g := buildGraph(t, m, sampleConfig(10, 5, 1))
	assert.Equal(t, 0, g.Len())
}

func TestBuildGraph_InvalidConfiguration(t *testing.T) {
	m := NewFreeMap(5, 5)

	bad := []Config{
		gridConfig(0, Conn4),
		gridConfig(-2, Conn4),
		gridConfig(1, Connectivity(6)),
		sampleConfig(0, 5, 1),
		sampleConfig(10, 0, 1),
		sampleConfig(10, math.NaN(), 1),
		{Mode: "hex", GridStepSize: 1},
	}
	neg := gridConfig(1, Conn4)
	neg.OccupancyThreshold = -1
	bad = append(bad, neg)
	unknownSampler := sampleConfig(10, 5, 1)
	unknownSampler.Sampler = "sobol"
	bad = append(bad, unknownSampler)

	for _, cfg := range bad {
		_, err := BuildGraph(m, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "%+v", cfg)
	}

	_, err := BuildGraph(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestBuildGraph_ConfigThresholdOverridesMap(t *testing.T) {
	cells := []uint8{255, 200, 255}
	m, err := NewOccupancyMap(3, 1, cells, 235)
	require.NoError(t, err)

	cfg := gridConfig(1, Conn4)
	assert.Equal(t, 2, buildGraph(t, m, cfg).Len())

	cfg.OccupancyThreshold = 100
	g := buildGraph(t, m, cfg)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestHalton(t *testing.T) {
	assert.Equal(t, 0.5, halton(1, 2))
	assert.Equal(t, 0.25, halton(2, 2))
	assert.Equal(t, 0.75, halton(3, 2))
	assert.InDelta(t, 1.0/3, halton(1, 3), 1e-12)
	assert.InDelta(t, 2.0/3, halton(2, 3), 1e-12)
	assert.InDelta(t, 1.0/9, halton(3, 3), 1e-12)
}

func TestOccupancyMap_Digest(t *testing.T) {
	a := NewFreeMap(4, 3)
	assert.Equal(t, a.Digest(), NewFreeMap(4, 3).Digest())
	assert.Equal(t, a.Digest(), a.WithThreshold(200).Digest())
	assert.NotEqual(t, a.Digest(), NewFreeMap(3, 4).Digest())
	assert.NotEqual(t, a.Digest(), a.WithBlocked([]Cell{{X: 1, Y: 1}}).Digest())

	g := buildGraph(t, a, gridConfig(1, Conn4))
	assert.Equal(t, a.Digest(), g.MapDigest)
}
