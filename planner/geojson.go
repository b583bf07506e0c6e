package planner

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GraphLines returns every undirected edge once, as a two-point segment.
func (g *Graph) GraphLines() [][2]Point {
	lines := make([][2]Point, 0, g.EdgeCount())
	for _, node := range g.Nodes {
		for _, e := range node.Neighbors {
			// Each edge is stored on both endpoints; keep the lower-to-higher copy.
			if node.Index < e.To {
				lines = append(lines, [2]Point{node.Point, g.Nodes[e.To].Point})
			}
		}
	}
	return lines
}

// GraphFeatures exports the roadmap as GeoJSON: one LineString per edge and
// one Point per node. When groups is non-nil, node features carry their group id.
func GraphFeatures(g *Graph, groups []int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, line := range g.GraphLines() {
		f := geojson.NewFeature(orb.LineString{
			{line[0].X, line[0].Y},
			{line[1].X, line[1].Y},
		})
		f.Properties["kind"] = "edge"
		f.Properties["cost"] = line[0].Distance(line[1])
		fc.Append(f)
	}

	for _, node := range g.Nodes {
		f := geojson.NewFeature(orb.Point{node.Point.X, node.Point.Y})
		f.Properties["kind"] = "node"
		f.Properties["index"] = node.Index
		f.Properties["degree"] = len(node.Neighbors)
		if groups != nil && node.Index < len(groups) {
			f.Properties["group"] = groups[node.Index]
		}
		fc.Append(f)
	}
	return fc
}

// PathFeature exports a polyline as a GeoJSON LineString feature.
func PathFeature(points []Point, kind string) *geojson.Feature {
	f := geojson.NewFeature(toLineString(points))
	f.Properties["kind"] = kind
	f.Properties["length"] = PathLength(points)
	f.Properties["waypoints"] = len(points)
	return f
}
