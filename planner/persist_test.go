package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadGraph(t *testing.T) {
	m := mapFromRows(t,
		"..........",
		"...##.....",
		"...##.....",
		"..........",
	)
	g := buildGraph(t, m, gridConfig(1, Conn8))
	file := filepath.Join(t.TempDir(), "graph.json")

	require.NoError(t, SaveGraph(g, file))
	loaded, err := LoadGraph(file)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes, loaded.Nodes)
	assert.Equal(t, g.Bounds, loaded.Bounds)
	assert.Equal(t, g.Config, loaded.Config)
	assert.Equal(t, m.Digest(), loaded.MapDigest)

	// A loaded graph answers queries like the original.
	want, err := FindPath(g, Point{0, 0}, Point{9, 3}, SearchOptions{HeuristicWeight: 1})
	require.NoError(t, err)
	got, err := FindPath(loaded, Point{0, 0}, Point{9, 3}, SearchOptions{HeuristicWeight: 1})
	require.NoError(t, err)
	assert.Equal(t, want.Indices(), got.Indices())
}

func TestLoadGraph_Rejects(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadGraph(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{nodes:"), 0644))
	_, err = LoadGraph(garbage)
	assert.Error(t, err)

	oneWay := filepath.Join(dir, "oneway.json")
	doc := `{"nodes":[
		{"index":0,"point":{"x":0,"y":0},"edges":[{"to":1,"cost":1}]},
		{"index":1,"point":{"x":1,"y":0},"edges":null}
	]}`
	require.NoError(t, os.WriteFile(oneWay, []byte(doc), 0644))
	_, err = LoadGraph(oneWay)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestGraphValidate(t *testing.T) {
	g := twoClusters(t)
	require.NoError(t, g.Validate())

	g.Nodes[2].Index = 7
	assert.ErrorIs(t, g.Validate(), ErrInvalidGraph)

	_, err := NewGraph([]Point{{0, 0}}, [][2]int{{0, 0}})
	assert.ErrorIs(t, err, ErrInvalidGraph)
	_, err = NewGraph([]Point{{0, 0}}, [][2]int{{0, 3}})
	assert.ErrorIs(t, err, ErrNodeIndex)
}
