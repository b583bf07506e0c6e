package mapio

import (
	"fmt"
	"math"

	"path-planner/planner"
)

// Transform maps pixel coordinates to world coordinates. World x follows
// pixel columns; world y grows upward, so pixel rows are flipped against
// the map height.
type Transform struct {
	Resolution float64
	Height     int
}

// NewTransform returns the transform for a map of the given height.
func NewTransform(resolution float64, height int) (Transform, error) {
	if resolution <= 0 || math.IsNaN(resolution) || math.IsInf(resolution, 0) {
		return Transform{}, fmt.Errorf("%w: resolution must be > 0, got %v", planner.ErrInvalidConfiguration, resolution)
	}
	return Transform{Resolution: resolution, Height: height}, nil
}

// ForMap is NewTransform sized to m.
func ForMap(m *planner.OccupancyMap, resolution float64) (Transform, error) {
	return NewTransform(resolution, m.Bounds().MaxY)
}

// PixelToWorld converts a pixel position to world units.
func (t Transform) PixelToWorld(p planner.Point) planner.Point {
	return planner.Point{
		X: p.X * t.Resolution,
		Y: (float64(t.Height) - p.Y) * t.Resolution,
	}
}

// WorldToPixel converts a world position to pixel units.
func (t Transform) WorldToPixel(p planner.Point) planner.Point {
	return planner.Point{
		X: p.X / t.Resolution,
		Y: float64(t.Height) - p.Y/t.Resolution,
	}
}

// PathToWorld converts every point of a pixel path.
func (t Transform) PathToWorld(points []planner.Point) []planner.Point {
	out := make([]planner.Point, len(points))
	for i, p := range points {
		out[i] = t.PixelToWorld(p)
	}
	return out
}
