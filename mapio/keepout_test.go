package mapio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"path-planner/planner"
)

const squareZone = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "pillar"},
     "geometry": {"type": "Polygon", "coordinates": [[[2,2],[4,2],[4,4],[2,4],[2,2]]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [1,1]}}
  ]
}`

func TestParseKeepOutZones(t *testing.T) {
	zones, err := ParseKeepOutZones([]byte(squareZone))
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Len(t, zones[0][0], 5)

	multi := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
	  "geometry":{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]}}]}`
	zones, err = ParseKeepOutZones([]byte(multi))
	require.NoError(t, err)
	assert.Len(t, zones, 2)

	_, err = ParseKeepOutZones([]byte("[]"))
	assert.Error(t, err)
}

func TestApplyKeepOut(t *testing.T) {
	m := planner.NewFreeMap(10, 10)
	// Unit resolution keeps world and pixel x equal; world y is flipped.
	tr, err := NewTransform(1, 10)
	require.NoError(t, err)

	zones, err := ParseKeepOutZones([]byte(squareZone))
	require.NoError(t, err)
	blocked := ApplyKeepOut(m, zones, tr)

	// World square [2,4]x[2,4] covers pixel rows 6..8 and columns 2..4; the
	// cell centre (3,7) is strictly inside.
	assert.True(t, blocked.IsOccupied(3, 7))
	assert.False(t, blocked.IsOccupied(3, 2))
	assert.False(t, blocked.IsOccupied(8, 8))
	assert.Less(t, blocked.FreeCells(), m.FreeCells())
	assert.Equal(t, 100, m.FreeCells(), "source map must stay untouched")

	assert.Same(t, m, ApplyKeepOut(m, nil, tr))
}

func TestApplyKeepOut_ZoneOutsideMap(t *testing.T) {
	m := planner.NewFreeMap(5, 5)
	tr, err := NewTransform(1, 5)
	require.NoError(t, err)

	far := orb.Polygon{{{100, 100}, {110, 100}, {110, 110}, {100, 110}, {100, 100}}}
	assert.Equal(t, 25, ApplyKeepOut(m, []orb.Polygon{far}, tr).FreeCells())
}

func TestLoadKeepOutZones(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.geojson"), []byte(squareZone), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(squareZone), 0644))

	zones, err := LoadKeepOutZones(dir)
	require.NoError(t, err)
	assert.Len(t, zones, 1)
}
