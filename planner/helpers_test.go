package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mapFromRows builds a map where '#' is occupied (0) and anything else is free (255).
// rows[y][x] addresses cell (x,y).
func mapFromRows(t *testing.T, rows ...string) *OccupancyMap {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	cells := make([]uint8, w*h)
	for y, row := range rows {
		require.Len(t, row, w, "row %d", y)
		for x, ch := range row {
			if ch == '#' {
				cells[y*w+x] = 0
			} else {
				cells[y*w+x] = 255
			}
		}
	}
	m, err := NewOccupancyMap(w, h, cells, DefaultOccupancyThreshold)
	require.NoError(t, err)
	return m
}

func gridConfig(step int, conn Connectivity) Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeGrid
	cfg.GridStepSize = step
	cfg.Connectivity = conn
	return cfg
}

func sampleConfig(n int, maxEdge float64, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeSample
	cfg.SampleCount = n
	cfg.MaxEdgeLength = maxEdge
	cfg.Seed = seed
	return cfg
}

// buildGraph is BuildGraph that fails the test on error.
func buildGraph(t *testing.T, m *OccupancyMap, cfg Config) *Graph {
	t.Helper()
	g, err := BuildGraph(m, cfg)
	require.NoError(t, err)
	return g
}

// nodeAt returns the index of the node at exactly p, or -1.
func nodeAt(g *Graph, p Point) int {
	for _, n := range g.Nodes {
		if n.Point == p {
			return n.Index
		}
	}
	return -1
}

// twoClusters is two triangles with no edge between them.
func twoClusters(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph(
		[]Point{{0, 0}, {1, 0}, {0, 1}, {10, 10}, {11, 10}, {10, 11}},
		[][2]int{{0, 1}, {1, 2}, {0, 2}, {3, 4}, {4, 5}, {3, 5}},
	)
	require.NoError(t, err)
	return g
}
