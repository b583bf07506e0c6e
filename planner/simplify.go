package planner

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// SimplifyPath drops waypoints that deviate less than epsilon from the
// line through their neighbours (Douglas-Peucker). Endpoints are kept.
func SimplifyPath(points []Point, epsilon float64) []Point {
	if len(points) <= 2 || epsilon <= 0 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	ls := simplify.DouglasPeucker(epsilon).LineString(toLineString(points))
	return fromLineString(ls)
}

// PathLength sums the segment lengths of a polyline.
func PathLength(points []Point) float64 {
	return planar.Length(toLineString(points))
}

func toLineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

func fromLineString(ls orb.LineString) []Point {
	points := make([]Point, len(ls))
	for i, p := range ls {
		points[i] = Point{X: p.X(), Y: p.Y()}
	}
	return points
}
